// Package components provides reusable widgets for the campaign dashboard.
package components

import (
	"github.com/ashewa/campaignbot/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Stat is one labeled figure shown in a StatRow.
type Stat struct {
	Label string
	Value string
	Hint  string
}

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	remainder := totalWidth % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}
	return widths
}

// StatCard renders one stat in a bordered card of outerWidth columns.
func StatCard(s Stat, outerWidth int) string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Width(max(outerWidth-2, 10)).
		Padding(0, 1)

	content := lipgloss.NewStyle().Foreground(t.TextMuted).Render(s.Label) + "\n" +
		lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true).Render(s.Value)
	if s.Hint != "" {
		content += "\n" + lipgloss.NewStyle().Foreground(t.TextDim).Render(s.Hint)
	}

	return cardStyle.Render(content)
}

// StatRow renders stats side by side across totalWidth columns.
func StatRow(stats []Stat, totalWidth int) string {
	if len(stats) == 0 {
		return ""
	}

	widths := LayoutRow(totalWidth, len(stats))
	cards := make([]string, len(stats))
	for i, s := range stats {
		cards[i] = StatCard(s, widths[i])
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// Panel renders a bordered block with an optional title.
func Panel(title, body string, outerWidth int) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Width(max(outerWidth-2, 10)).
		Padding(0, 1)

	content := body
	if title != "" {
		content = lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render(title) + "\n" + body
	}
	return style.Render(content)
}

// PanelInnerWidth returns the usable text width inside a Panel.
func PanelInnerWidth(outerWidth int) int {
	return max(outerWidth-4, 10)
}
