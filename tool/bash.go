package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"codecopilot/schema"
)

const (
	MaxOutputLength = 30000
	DefaultTimeout  = 2 * time.Minute
	MaxTimeout      = 10 * time.Minute
)

// ErrCommandTimeout marks a command killed because it exceeded the runner timeout.
var ErrCommandTimeout = errors.New("command timed out")

// CommandRunner executes approved shell commands inside the project directory.
type CommandRunner struct {
	dir     string
	timeout time.Duration
	mode    Mode
	shell   []string
}

type RunnerOption func(*CommandRunner)

// WithTimeout bounds each command. Zero or negative disables the bound;
// values above MaxTimeout are clamped.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *CommandRunner) {
		if d > MaxTimeout {
			d = MaxTimeout
		}
		r.timeout = d
	}
}

func WithRunnerMode(m Mode) RunnerOption {
	return func(r *CommandRunner) {
		r.mode = m
	}
}

// WithShell replaces the platform shell. The command text is appended as the
// last argument.
func WithShell(name string, args ...string) RunnerOption {
	return func(r *CommandRunner) {
		r.shell = append([]string{name}, args...)
	}
}

func NewCommandRunner(dir string, opts ...RunnerOption) *CommandRunner {
	r := &CommandRunner{
		dir:     dir,
		timeout: DefaultTimeout,
		mode:    ModeNormal,
		shell:   platformShell(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func platformShell() []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/C"}
	}
	return []string{"sh", "-c"}
}

// Run executes command and waits for it to exit. Output is captured, not
// streamed. Failures to launch are reported through CommandResult.Err.
func (r *CommandRunner) Run(ctx context.Context, command string) schema.CommandResult {
	result := schema.CommandResult{Command: command}

	if r.mode == ModePlan {
		result.Stdout = planTitle("would execute %q in %s", command, r.dir)
		return result
	}

	execCtx, cancel := ctx, context.CancelFunc(func() {})
	if r.timeout > 0 {
		execCtx, cancel = context.WithTimeout(ctx, r.timeout)
	}
	defer cancel()

	args := append(append([]string{}, r.shell[1:]...), command)
	cmd := exec.CommandContext(execCtx, r.shell[0], args...)
	cmd.Dir = r.dir
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result.Stdout = truncate(stdout.String())
	result.Stderr = truncate(stderr.String())

	if err == nil {
		return result
	}

	if ctxErr := execCtx.Err(); ctxErr != nil {
		result.ExitCode = -1
		if errors.Is(ctxErr, context.DeadlineExceeded) && ctx.Err() == nil {
			result.Err = fmt.Errorf("%w after %s", ErrCommandTimeout, r.timeout)
		} else {
			result.Err = ctxErr
		}
		return result
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result
	}

	result.ExitCode = -1
	result.Err = fmt.Errorf("failed to start command: %w", err)
	return result
}

func truncate(s string) string {
	if len(s) > MaxOutputLength {
		return s[:MaxOutputLength] + "\n... (output truncated)"
	}
	return s
}
