// Package ui is the line-oriented terminal the operator talks to.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"codecopilot/conversation"
	"codecopilot/tool"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Terminal implements conversation.Operator on a reader/writer pair.
type Terminal struct {
	in          *bufio.Reader
	out         io.Writer
	styles      Styles
	interactive bool
	markdown    *glamour.TermRenderer
}

type Option func(*Terminal)

// WithInteractive forces spinner and markdown rendering on or off instead of
// detecting a TTY.
func WithInteractive(interactive bool) Option {
	return func(t *Terminal) {
		t.interactive = interactive
	}
}

func NewTerminal(in io.Reader, out io.Writer, opts ...Option) *Terminal {
	t := &Terminal{
		in:          bufio.NewReader(in),
		out:         out,
		styles:      NewStyles(lipgloss.NewRenderer(out)),
		interactive: isTerminal(out),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.interactive {
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100)); err == nil {
			t.markdown = r
		}
	}
	return t
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Ask prints the prompt and reads one line. A final line without a newline
// is still returned; io.EOF is only reported once input is exhausted.
func (t *Terminal) Ask(p conversation.Prompt) (string, error) {
	style := t.styles.Prompt
	if p.Kind == conversation.PromptApproval {
		style = t.styles.Approval
	}
	fmt.Fprint(t.out, style.Render(p.Text+": "))

	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(t.out)
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *Terminal) Notify(n conversation.Notice) {
	s := t.styles
	switch n.Kind {
	case conversation.NoticeAssistant:
		t.println(s.Assistant.Render("Assistant: ") + t.renderMessage(n.Text))
	case conversation.NoticeFileSaved:
		verb := "Saved file"
		if n.File != nil && n.File.Planned {
			verb = "Would save file"
		}
		path := n.Text
		if n.File != nil && n.File.Path != "" {
			path = n.File.Path
		}
		t.println(s.File.Render(fmt.Sprintf("%s: %s", verb, path)))
	case conversation.NoticeCommandProposed:
		t.println(s.Command.Render("Command: " + n.Text))
	case conversation.NoticeCommandSucceeded:
		t.println(s.Success.Render("Command succeeded, output:") + "\n" + n.Text)
	case conversation.NoticeCommandFailed:
		if n.Command != nil && n.Command.Err != nil {
			t.println(s.Error.Render("Error while running command: " + n.Text))
			return
		}
		code := 0
		if n.Command != nil {
			code = n.Command.ExitCode
		}
		t.println(s.Error.Render(fmt.Sprintf("Command failed (exit %d), error:", code)) + "\n" + n.Text)
	case conversation.NoticeCommandDeclined:
		t.println(s.Status.Render("Command skipped."))
	case conversation.NoticeManualIntervention:
		t.println(s.Notice.Render("Notice: " + n.Text))
	case conversation.NoticeFormatError, conversation.NoticeModelError, conversation.NoticeTurnError:
		t.println(s.Error.Render("Error: " + n.Text))
	case conversation.NoticeExited:
		t.println(s.Error.Render(n.Text))
	case conversation.NoticeCompleted:
		t.println(s.Success.Render(n.Text))
	default:
		t.println(n.Text)
	}
}

// Banner prints the session header.
func (t *Terminal) Banner(name, model, platform, projectDir string) {
	t.println(t.styles.Notice.Render("Project directory created: " + projectDir))
	t.println(t.styles.Title.Render(fmt.Sprintf("====== %s ======", name)))
	t.println(t.styles.Success.Render("Model: " + model))
	t.println(t.styles.Success.Render("Running on " + platform))
}

// Summary prints the files the session left in the project directory.
func (t *Terminal) Summary(tree tool.TreeResult) {
	if tree.Count == 0 {
		t.println(t.styles.Status.Render("No files were written."))
		return
	}
	header := fmt.Sprintf("Project files (%d):", tree.Count)
	if tree.Truncated {
		header = fmt.Sprintf("Project files (first %d):", tree.Count)
	}
	t.println(t.styles.Status.Render(header))
	t.println(strings.TrimRight(tree.Output, "\n"))
}

func (t *Terminal) renderMessage(text string) string {
	if t.markdown == nil || text == "" {
		return text
	}
	rendered, err := t.markdown.Render(text)
	if err != nil {
		return text
	}
	return "\n" + strings.Trim(rendered, "\n")
}

func (t *Terminal) println(s string) {
	fmt.Fprintln(t.out, s)
}
