package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const statsWidth = 44

type styles struct {
	canvas lipgloss.Style
	stats  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
	paused lipgloss.Style
	active lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Muted).Foreground(t.Secondary),
		stats:  lipgloss.NewStyle().Padding(0, 2).Width(statsWidth),
		header: lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		graph:  lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		paused: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		active: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
	}
}

// canvasOffset is the cell position of the canvas' top-left cell inside the
// rendered view (the rounded border).
const canvasOffset = 1

// Separator renders a decorative rule.
func Separator(width int) string {
	if width < 8 {
		return strings.Repeat("─", max(width, 0))
	}
	mid := width / 2
	return strings.Repeat("─", mid-2) + " ◆ " + strings.Repeat("─", width-mid-1)
}
