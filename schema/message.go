package schema

// Role identifies who authored a transcript message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) String() string {
	return string(r)
}

// Message is a single role-tagged entry of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Transcript is the ordered conversation history sent to the model on every turn.
// Entries are only ever appended.
type Transcript struct {
	messages []Message
}

// NewTranscript returns a transcript seeded with the given messages.
func NewTranscript(seed ...Message) *Transcript {
	t := &Transcript{messages: make([]Message, 0, len(seed)+8)}
	t.messages = append(t.messages, seed...)
	return t
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(role Role, content string) {
	t.messages = append(t.messages, Message{Role: role, Content: content})
}

// Messages returns a copy of the history so callers cannot rewrite it.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	return len(t.messages)
}

// Last returns the most recent message, if any.
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}
