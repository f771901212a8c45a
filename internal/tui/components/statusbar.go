package components

import (
	"strings"

	"github.com/ashewa/campaignbot/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar with key hints on the left
// and info right-aligned.
func RenderStatusBar(width int, info string) string {
	t := theme.Active

	left := " [r]efresh  [?]help  [q]uit"
	right := ""
	if info != "" {
		right = info + " "
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)

	return lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width).
		Render(left + strings.Repeat(" ", padding) + right)
}
