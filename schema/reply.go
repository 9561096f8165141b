package schema

// Status is the project state reported by the model.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// FileSpec is one file the model asks to have written into the project directory.
// Err is set when the entry could not be read as a filename and content pair.
type FileSpec struct {
	Filename string
	Content  string
	Err      error
}

// AssistantReply is the structured payload decoded from a model response.
type AssistantReply struct {
	Files       []FileSpec
	Message     string
	RunCommand  string
	Status      Status
	AskForInput bool
}

// Completed reports whether the model marked the project as finished.
func (r AssistantReply) Completed() bool {
	return r.Status == StatusCompleted
}

// CommandResult captures one shell command execution.
// Err is set when the process could not be launched or was killed on timeout.
type CommandResult struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// Success reports whether the command launched and exited with status zero.
func (r CommandResult) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Output is the text relayed back to the model: the launch error, stdout on
// success, or stderr when the command exited non-zero.
func (r CommandResult) Output() string {
	switch {
	case r.Err != nil:
		return r.Err.Error()
	case r.ExitCode == 0:
		return r.Stdout
	default:
		return r.Stderr
	}
}
