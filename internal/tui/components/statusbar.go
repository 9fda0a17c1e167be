package components

import (
	"fmt"

	"github.com/budgetwise/bwise/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// active context and data freshness on the right.
func RenderStatusBar(width int, contextLabel, dataAge string, demo, refreshing bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [?]help  [r]efresh  [q]uit"

	right := ""
	if demo {
		right += "DEMO DATA · "
	}
	if refreshing {
		right += "refreshing · "
	}
	if contextLabel != "" {
		right += contextLabel
	}
	if dataAge != "" {
		right += fmt.Sprintf(" · %s", dataAge)
	}
	right += " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	bar := left
	for i := 0; i < padding; i++ {
		bar += " "
	}
	bar += right

	return style.Render(bar)
}
