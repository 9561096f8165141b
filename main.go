package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"codecopilot/config"
	"codecopilot/conversation"
	"codecopilot/llm"
	"codecopilot/logging"
	"codecopilot/tool"
	"codecopilot/ui"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const appName = "CodeCopilot"

func newApp() *cli.App {
	return &cli.App{
		Name:  "codecopilot",
		Usage: "Scaffold and run a project by chatting with a language model",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.json",
				Usage:   "Path to a JSON or YAML config file",
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: "Model provider: openai (any compatible endpoint) or anthropic",
			},
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "API key for the provider",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Override the provider endpoint",
			},
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Usage:   "Model identifier",
			},
			&cli.Float64Flag{
				Name:  "temperature",
				Usage: "Sampling temperature",
			},
			&cli.Int64Flag{
				Name:  "max-tokens",
				Usage: "Maximum length of each reply in tokens",
			},
			&cli.StringFlag{
				Name:  "projects-dir",
				Usage: "Parent directory for per-run project folders",
			},
			&cli.DurationFlag{
				Name:  "command-timeout",
				Usage: "Kill commands running longer than this (0 disables, max 10m)",
			},
			&cli.BoolFlag{
				Name:  "plan",
				Usage: "Report file writes and commands without applying them (same as --mode plan)",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Side-effect mode: normal or plan",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Diagnostic log level on stderr: debug, info, warn, error",
			},
		},
		Action: run,
	}
}

// loadConfig layers defaults, the config file, environment and flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"), c.IsSet("config"))
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	if c.IsSet("provider") {
		cfg.Provider = c.String("provider")
	}
	if c.IsSet("api-key") {
		cfg.APIKey = c.String("api-key")
	}
	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("model") {
		cfg.Model = c.String("model")
	}
	if c.IsSet("temperature") {
		cfg.Temperature = c.Float64("temperature")
	}
	if c.IsSet("max-tokens") {
		cfg.MaxTokens = c.Int64("max-tokens")
	}
	if c.IsSet("projects-dir") {
		cfg.ProjectsDir = c.String("projects-dir")
	}
	if c.IsSet("command-timeout") {
		cfg.CommandTimeout = c.Duration("command-timeout")
	}
	if c.IsSet("mode") {
		mode, err := tool.ParseMode(c.String("mode"))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
		}
		cfg.Plan = mode == tool.ModePlan
	}
	if c.IsSet("plan") {
		cfg.Plan = c.Bool("plan")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel), os.Stderr)
	defer logger.Sync()

	client, err := llm.New(cfg)
	if err != nil {
		return err
	}

	mode := tool.ModeNormal
	if cfg.Plan {
		mode = tool.ModePlan
	}
	writer, err := tool.NewProjectWriter(cfg.ProjectsDir, tool.WithWriterMode(mode))
	if err != nil {
		return err
	}
	runner := tool.NewCommandRunner(writer.Dir(),
		tool.WithTimeout(cfg.CommandTimeout),
		tool.WithRunnerMode(mode),
	)

	term := ui.NewTerminal(os.Stdin, os.Stdout)
	term.Banner(appName, cfg.Model, runtime.GOOS, writer.Dir())
	if cfg.Plan {
		term.Notify(conversation.Notice{Kind: conversation.NoticeManualIntervention, Text: "Plan mode: files and commands are reported but not applied."})
	}

	logger.Info("session started",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.String("project_dir", writer.Dir()),
		zap.String("mode", string(mode)))

	loop := conversation.New(ui.Spinning{Model: client, Terminal: term}, writer, runner, term,
		conversation.WithLogger(logger))
	state, err := loop.Run(c.Context)

	logger.Info("session finished", zap.Stringer("state", state), zap.Int("turns", loop.Turns()))
	if tree, treeErr := tool.Tree(writer.Dir()); treeErr == nil {
		term.Summary(tree)
	}
	if err != nil {
		return fmt.Errorf("session aborted in state %s: %w", state, err)
	}
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
