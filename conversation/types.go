package conversation

import (
	"context"

	"codecopilot/schema"
	"codecopilot/tool"
)

// State is the position of the loop in its turn cycle.
type State int

const (
	AwaitingInput State = iota
	AwaitingModel
	HandlingReply
	Exited
	Completed
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting_input"
	case AwaitingModel:
		return "awaiting_model"
	case HandlingReply:
		return "handling_reply"
	case Exited:
		return "exited"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// Terminal reports whether the loop has stopped for good.
func (s State) Terminal() bool {
	return s == Exited || s == Completed
}

// Model is the chat completion capability the loop depends on.
type Model interface {
	Send(ctx context.Context, messages []schema.Message) (string, error)
}

// Writer persists one file of a reply.
type Writer interface {
	Write(spec schema.FileSpec) (tool.WriteResult, error)
}

// Runner executes an approved command.
type Runner interface {
	Run(ctx context.Context, command string) schema.CommandResult
}

type PromptKind int

const (
	// PromptRequirements asks for free-text requirements or feedback.
	PromptRequirements PromptKind = iota
	// PromptApproval asks whether a proposed command may run.
	PromptApproval
)

type Prompt struct {
	Kind PromptKind
	Text string
}

type NoticeKind int

const (
	NoticeAssistant NoticeKind = iota
	NoticeFileSaved
	NoticeCommandProposed
	NoticeCommandSucceeded
	NoticeCommandFailed
	NoticeCommandDeclined
	NoticeManualIntervention
	NoticeFormatError
	NoticeModelError
	NoticeTurnError
	NoticeExited
	NoticeCompleted
)

// Notice is operator-facing status text. File and Command are set for the
// notices that concern them.
type Notice struct {
	Kind    NoticeKind
	Text    string
	File    *tool.WriteResult
	Command *schema.CommandResult
	Err     error
}

// Operator is the human at the terminal. Ask returns io.EOF when no more
// input will arrive.
type Operator interface {
	Ask(p Prompt) (string, error)
	Notify(n Notice)
}
