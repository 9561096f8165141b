// Package config builds the explicit configuration value handed to every
// component at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid marks configuration problems. They are fatal before the
// conversation starts.
var ErrInvalid = errors.New("invalid configuration")

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all codecopilot settings. The file format is YAML, which also
// accepts the JSON config.json files used by earlier versions.
type Config struct {
	Provider    string  `yaml:"provider"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens"`

	ProjectsDir    string        `yaml:"projects_dir"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Plan reports file writes and commands without applying them.
	Plan     bool   `yaml:"plan"`
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the settings used when neither file, environment nor
// flags say otherwise.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderOpenAI,
		Temperature:    0.7,
		MaxTokens:      1500,
		ProjectsDir:    "projects",
		CommandTimeout: 2 * time.Minute,
		RequestTimeout: 5 * time.Minute,
	}
}

// Load reads the configuration file at path on top of the defaults. A missing
// file is only an error when required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrInvalid, path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalid, path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides file values with environment variables. Provider keys
// only fill an empty api_key; CODECOPILOT_API_KEY always wins.
func (c *Config) ApplyEnv() {
	if c.APIKey == "" {
		openaiKey, anthropicKey := os.Getenv("OPENAI_API_KEY"), os.Getenv("ANTHROPIC_API_KEY")
		switch {
		case openaiKey != "" && c.Provider != ProviderAnthropic:
			c.APIKey = openaiKey
			c.Provider = ProviderOpenAI
		case anthropicKey != "":
			c.APIKey = anthropicKey
			c.Provider = ProviderAnthropic
		}
	}
	if url := os.Getenv("OPENAI_BASE_URL"); url != "" && c.BaseURL == "" && c.Provider == ProviderOpenAI {
		c.BaseURL = url
	}
	if key := os.Getenv("CODECOPILOT_API_KEY"); key != "" {
		c.APIKey = key
	}
	if model := os.Getenv("CODECOPILOT_MODEL"); model != "" {
		c.Model = model
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
}

// Validate checks the settings required to reach the model.
func (c *Config) Validate() error {
	var problems []string

	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		problems = append(problems, fmt.Sprintf("unknown provider %q", c.Provider))
	}
	if c.APIKey == "" {
		problems = append(problems, "api_key is required")
	}
	if c.Model == "" {
		problems = append(problems, "model is required")
	}
	if c.MaxTokens <= 0 {
		problems = append(problems, "max_tokens must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		problems = append(problems, "temperature must be between 0 and 2")
	}
	if c.ProjectsDir == "" {
		problems = append(problems, "projects_dir is required")
	}
	if c.CommandTimeout < 0 {
		problems = append(problems, "command_timeout cannot be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
