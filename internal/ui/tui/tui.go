// Package tui provides the interactive terminal views of skills-manager using BubbleTea.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles contains reusable lipgloss styles for the TUI.
var Styles = struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
	Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
	Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
}

// Run starts a BubbleTea program with the given model.
func Run(model tea.Model, opts ...tea.ProgramOption) (tea.Model, error) {
	p := tea.NewProgram(model, opts...)
	return p.Run()
}
