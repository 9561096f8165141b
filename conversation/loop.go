// Package conversation drives the turn cycle between the operator, the model
// and the project directory.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"codecopilot/reply"
	"codecopilot/schema"

	"go.uber.org/zap"
)

// ErrModelCall wraps failures of the model collaborator.
var ErrModelCall = errors.New("model call failed")

const (
	requirementsPrompt = "Describe your requirements or feedback (type 'exit' to quit)"
	approvalPrompt     = "Run this command? (y/n)"
)

// Loop owns the transcript and runs turns until the operator exits or the
// model reports the project completed. It is not safe for concurrent use.
type Loop struct {
	model    Model
	writer   Writer
	runner   Runner
	operator Operator
	logger   *zap.Logger

	transcript  *schema.Transcript
	askForInput bool
	state       State
	turns       int
}

type Option func(*Loop)

func WithLogger(l *zap.Logger) Option {
	return func(loop *Loop) {
		if l != nil {
			loop.logger = l
		}
	}
}

// WithSystemPrompt replaces the default platform-aware instructions.
func WithSystemPrompt(prompt string) Option {
	return func(loop *Loop) {
		loop.transcript = schema.NewTranscript(schema.Message{Role: schema.RoleSystem, Content: prompt})
	}
}

func New(model Model, writer Writer, runner Runner, operator Operator, opts ...Option) *Loop {
	l := &Loop{
		model:       model,
		writer:      writer,
		runner:      runner,
		operator:    operator,
		logger:      zap.NewNop(),
		transcript:  schema.NewTranscript(schema.Message{Role: schema.RoleSystem, Content: SystemPrompt(runtime.GOOS)}),
		askForInput: true,
		state:       AwaitingInput,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Transcript returns a copy of the conversation so far.
func (l *Loop) Transcript() []schema.Message {
	return l.transcript.Messages()
}

func (l *Loop) State() State {
	return l.state
}

// Turns returns the number of model calls attempted.
func (l *Loop) Turns() int {
	return l.turns
}

// Run blocks until a terminal state is reached or ctx is cancelled.
func (l *Loop) Run(ctx context.Context) (State, error) {
	for !l.state.Terminal() {
		if err := ctx.Err(); err != nil {
			return l.state, err
		}
		l.turn(ctx)
	}
	return l.state, nil
}

func (l *Loop) turn(ctx context.Context) {
	l.setState(AwaitingInput)

	if l.askForInput {
		input, ok := l.ask(Prompt{Kind: PromptRequirements, Text: requirementsPrompt})
		if !ok {
			return
		}
		if input != "" {
			l.transcript.Append(schema.RoleUser, input)
		}
	}

	l.setState(AwaitingModel)
	l.turns++
	raw, err := l.model.Send(ctx, l.transcript.Messages())
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrModelCall, err)
		l.logger.Warn("model call failed", zap.Int("turn", l.turns), zap.Error(err))
		l.operator.Notify(Notice{Kind: NoticeModelError, Text: err.Error(), Err: err})
		l.setState(AwaitingInput)
		return
	}
	l.transcript.Append(schema.RoleAssistant, raw)

	l.setState(HandlingReply)
	if err := l.handleReply(ctx, raw); err != nil {
		l.logger.Warn("turn failed", zap.Int("turn", l.turns), zap.Error(err))
		l.operator.Notify(Notice{Kind: NoticeTurnError, Text: err.Error(), Err: err})
	}
	if !l.state.Terminal() {
		l.setState(AwaitingInput)
	}
}

func (l *Loop) handleReply(ctx context.Context, raw string) error {
	r, err := reply.Parse(raw)
	if errors.Is(err, reply.ErrMalformedReply) {
		l.logger.Debug("malformed reply", zap.Int("bytes", len(raw)), zap.Error(err))
		l.operator.Notify(Notice{Kind: NoticeFormatError, Text: "The assistant reply was not in the expected format, please try again.", Err: err})
		return nil
	}
	if err != nil {
		return err
	}

	l.askForInput = r.AskForInput
	l.operator.Notify(Notice{Kind: NoticeAssistant, Text: r.Message})

	for _, spec := range r.Files {
		if spec.Err != nil {
			return fmt.Errorf("failed to save file: %w", spec.Err)
		}
		res, err := l.writer.Write(spec)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", spec.Filename, err)
		}
		l.operator.Notify(Notice{Kind: NoticeFileSaved, Text: res.Title, File: &res})
	}

	if r.RunCommand != "" {
		l.proposeCommand(ctx, r.RunCommand)
		if l.state.Terminal() {
			return nil
		}
	}

	if strings.Contains(strings.ToLower(r.Message), manualInterventionMarker) {
		l.operator.Notify(Notice{Kind: NoticeManualIntervention, Text: "The project needs manual intervention, for example debugging front-end code."})
	}

	if r.Completed() {
		l.setState(Completed)
		l.operator.Notify(Notice{Kind: NoticeCompleted, Text: "Project completed."})
	}
	return nil
}

func (l *Loop) proposeCommand(ctx context.Context, command string) {
	l.operator.Notify(Notice{Kind: NoticeCommandProposed, Text: command})

	answer, ok := l.ask(Prompt{Kind: PromptApproval, Text: approvalPrompt})
	if !ok {
		return
	}

	if !approved(answer) {
		l.transcript.Append(schema.RoleSystem, declinedNote)
		l.operator.Notify(Notice{Kind: NoticeCommandDeclined, Text: command})
		return
	}

	res := l.runner.Run(ctx, command)
	l.logger.Debug("command finished",
		zap.String("command", command),
		zap.Int("exit_code", res.ExitCode),
		zap.NamedError("launch_error", res.Err))

	kind := NoticeCommandSucceeded
	if !res.Success() {
		kind = NoticeCommandFailed
	}
	l.operator.Notify(Notice{Kind: kind, Text: res.Output(), Command: &res, Err: res.Err})
	l.transcript.Append(schema.RoleUser, commandOutputPrefix+res.Output())
}

// ask prompts the operator and reports false when the session has ended,
// either through the exit keyword or because input is gone.
func (l *Loop) ask(p Prompt) (string, bool) {
	input, err := l.operator.Ask(p)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			l.logger.Warn("operator input failed", zap.Error(err))
			l.operator.Notify(Notice{Kind: NoticeTurnError, Text: err.Error(), Err: err})
		}
		l.exit()
		return "", false
	}
	if strings.EqualFold(input, ExitKeyword) {
		l.exit()
		return "", false
	}
	return input, true
}

func (l *Loop) exit() {
	l.setState(Exited)
	l.operator.Notify(Notice{Kind: NoticeExited, Text: "Session ended."})
}

func (l *Loop) setState(s State) {
	if l.state != s {
		l.logger.Debug("state", zap.Stringer("from", l.state), zap.Stringer("to", s), zap.Int("turn", l.turns))
	}
	l.state = s
}

func approved(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
