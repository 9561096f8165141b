package ui

import (
	"context"

	"codecopilot/conversation"
	"codecopilot/schema"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type waitDoneMsg struct {
	reply string
	err   error
}

type waitModel struct {
	spinner spinner.Model
	label   string
	style   lipgloss.Style
	fn      func() (string, error)

	reply string
	err   error
	done  bool
}

func (m waitModel) Init() tea.Cmd {
	fn := m.fn
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		reply, err := fn()
		return waitDoneMsg{reply: reply, err: err}
	})
}

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case waitDoneMsg:
		m.reply, m.err, m.done = msg.reply, msg.err, true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m waitModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.style.Render(m.label) + "\n"
}

// Wait runs fn while a spinner with label is shown. Without a TTY fn is
// simply called.
func (t *Terminal) Wait(label string, fn func() (string, error)) (string, error) {
	if !t.interactive {
		return fn()
	}

	m := waitModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(t.styles.Assistant)),
		label:   label,
		style:   t.styles.Status,
		fn:      fn,
	}
	p := tea.NewProgram(m, tea.WithOutput(t.out), tea.WithInput(nil), tea.WithoutSignalHandler())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	done := final.(waitModel)
	return done.reply, done.err
}

// Spinning decorates a model so every call shows the wait spinner.
type Spinning struct {
	Model    conversation.Model
	Terminal *Terminal
}

func (s Spinning) Send(ctx context.Context, messages []schema.Message) (string, error) {
	return s.Terminal.Wait("Thinking...", func() (string, error) {
		return s.Model.Send(ctx, messages)
	})
}
