package components

import (
	"fmt"

	"github.com/ashewa/campaignbot/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForPct returns the fill color for a 0-100 completion value.
func ColorForPct(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 100:
		return t.GreenBright
	case pct >= 50:
		return t.Green
	case pct >= 25:
		return t.Yellow
	default:
		return t.Orange
	}
}

// CampaignBar renders a labeled bar for a 0-100 percentage. Values outside
// the range are drawn clamped but printed as given.
func CampaignBar(label string, pct float64, labelW, barWidth int) string {
	t := theme.Active

	frac := min(max(pct/100, 0), 1)
	bar := progress.New(
		progress.WithSolidFill(string(ColorForPct(pct))),
		progress.WithWidth(max(barWidth, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(ColorForPct(pct)).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) + " " +
		bar.ViewAs(frac) + " " +
		pctStyle.Render(fmt.Sprintf("%5.1f%%", pct))
}
