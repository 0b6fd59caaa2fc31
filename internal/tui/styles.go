package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ytget/yutto-gui/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1976D2")).
			Padding(0, 1)

	labelStyle    = lipgloss.NewStyle().Width(9).Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1976D2"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	logBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238"))

	severityStyles = map[model.Severity]lipgloss.Style{
		model.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#1976D2")),
		model.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#2EA043")),
		model.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#D32F2F")),
	}
)

func renderLine(text string, severity model.Severity) string {
	if style, ok := severityStyles[severity]; ok {
		return style.Render(text)
	}
	return text
}
