package ui

import "github.com/charmbracelet/lipgloss"

// Styles groups the colors used for each kind of terminal output.
type Styles struct {
	Prompt    lipgloss.Style
	Approval  lipgloss.Style
	Assistant lipgloss.Style
	File      lipgloss.Style
	Command   lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Notice    lipgloss.Style
	Status    lipgloss.Style
	Title     lipgloss.Style
}

// NewStyles binds the palette to r so color support follows the actual output.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Prompt:    r.NewStyle().Foreground(lipgloss.Color("10")),
		Approval:  r.NewStyle().Foreground(lipgloss.Color("9")),
		Assistant: r.NewStyle().Foreground(lipgloss.Color("12")),
		File:      r.NewStyle().Foreground(lipgloss.Color("14")),
		Command:   r.NewStyle().Foreground(lipgloss.Color("13")),
		Success:   r.NewStyle().Foreground(lipgloss.Color("10")),
		Error:     r.NewStyle().Foreground(lipgloss.Color("9")),
		Notice:    r.NewStyle().Foreground(lipgloss.Color("11")),
		Status:    r.NewStyle().Foreground(lipgloss.Color("240")),
		Title:     r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	}
}
