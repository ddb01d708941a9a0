package ui

import (
	"log/slog"

	"github.com/babarot/wardbin/internal/ui/confirm"
	tea "github.com/charmbracelet/bubbletea"
)

// Confirm asks a y/n question, defaulting to no
func Confirm(prompt string) bool {
	m := confirm.New()
	m.Prompt = prompt
	m.DefaultValue = confirm.Denied
	return run(&m)
}

// ConfirmStrict asks the user to type YES before an irreversible action
func ConfirmStrict(prompt string) bool {
	m := confirm.NewStrict()
	m.Prompt = prompt
	return run(&m)
}

func run(m *confirm.Model) bool {
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		slog.Error("confirm failed", "error", err)
		return false
	}
	return m.Selected().IsAccepted()
}
