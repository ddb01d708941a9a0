package styles

import (
	"strings"

	"github.com/babarot/wardbin/internal/config"
	"github.com/charmbracelet/lipgloss"
)

// Color chart: https://github.com/muesli/termenv

var SectionTitle = func(cfg config.UI) lipgloss.Style {
	return lipgloss.NewStyle().Padding(0, 1).
		Background(lipgloss.Color(cfg.Style.ListView.Cursor)).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Transform(strings.ToUpper)
}

var Section = func(cfg config.UI) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.HiddenBorder()).
		Padding(0, 1)
}

var Detail = func(cfg config.UI, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(cfg.Style.ListView.Cursor)).
		Padding(0, 1).
		Width(width - 2)
}

var Dialog = func(cfg config.UI, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(cfg.Style.DeletionDialog)).
		Foreground(lipgloss.Color(cfg.Style.DeletionDialog)).
		Bold(true).
		Padding(1, 1).
		Align(lipgloss.Center).
		Width(width - 4)
}

var Help = lipgloss.NewStyle().Margin(1, 2)
