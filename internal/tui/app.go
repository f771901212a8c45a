// Package tui provides the interactive Bubble Tea dashboard for the campaign.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ashewa/campaignbot/internal/cli"
	"github.com/ashewa/campaignbot/internal/model"
	"github.com/ashewa/campaignbot/internal/tui/components"
	"github.com/ashewa/campaignbot/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatsLoader computes the current progress view.
type StatsLoader func(ctx context.Context) (model.ProgressStats, error)

// Options configures the dashboard.
type Options struct {
	Title           string
	Currency        string
	Milestones      []model.Milestone
	RefreshInterval time.Duration
	Load            StatsLoader
	Now             func() time.Time
}

// StatsMsg carries the result of a progress load.
type StatsMsg struct {
	Stats model.ProgressStats
	Err   error
	At    time.Time
}

type tickMsg time.Time

// App is the root Bubble Tea model.
type App struct {
	opts Options

	stats       model.ProgressStats
	loaded      bool
	err         error
	lastRefresh time.Time
	refreshing  bool

	width    int
	height   int
	showHelp bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	loadTimeout      = 10 * time.Second
)

// NewApp creates a new dashboard model.
func NewApp(opts Options) App {
	if opts.RefreshInterval < time.Second {
		opts.RefreshInterval = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return App{opts: opts, spinner: sp, refreshing: true}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		loadStatsCmd(a.opts.Load, a.opts.Now),
		tickCmd(a.opts.RefreshInterval),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		case "?":
			a.showHelp = !a.showHelp
			return a, nil
		case "esc":
			a.showHelp = false
			return a, nil
		case "r":
			if a.refreshing {
				return a, nil
			}
			a.refreshing = true
			return a, loadStatsCmd(a.opts.Load, a.opts.Now)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(a.opts.RefreshInterval)}
		if !a.refreshing {
			a.refreshing = true
			cmds = append(cmds, loadStatsCmd(a.opts.Load, a.opts.Now))
		}
		return a, tea.Batch(cmds...)

	case StatsMsg:
		a.refreshing = false
		a.lastRefresh = msg.At
		a.err = msg.Err
		if msg.Err == nil {
			a.stats = msg.Stats
			a.loaded = true
		}
		return a, nil
	}

	return a, nil
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  The dashboard needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Render("◈ " + a.opts.Title))
	b.WriteString("\n\n")
	if a.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Red).Render("Could not load progress: " + a.err.Error()))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Render("Press r to retry, q to quit"))
	} else {
		b.WriteString(a.spinner.View())
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Render(" Loading campaign progress..."))
	}

	return lipgloss.Place(a.width, max(a.height, 8), lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()))
}

func (a App) viewHelp() string {
	t := theme.Active
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	keys := [][2]string{
		{"r", "Reload progress now"},
		{"?", "Toggle this help"},
		{"esc", "Close help"},
		{"q", "Quit"},
	}
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(keyStyle.Render(fmt.Sprintf("%-5s", k[0])))
		b.WriteString(descStyle.Render(k[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(descStyle.Render(fmt.Sprintf("Auto-refresh every %s", a.opts.RefreshInterval)))

	return lipgloss.Place(a.width, max(a.height, 8), lipgloss.Center, lipgloss.Center,
		components.Panel("Keys", b.String(), 44))
}

func (a App) viewMain() string {
	t := theme.Active
	cw := a.contentWidth()
	s := a.stats

	title := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Bold(true).
		Padding(0, 1).
		Render(a.opts.Title)

	nextHint := "all milestones completed"
	nextValue := "Done"
	if s.NextMilestone != nil {
		nextValue = fmt.Sprintf("Day %d", s.NextMilestone.Day)
		nextHint = "in " + cli.FormatDays(s.DaysToMilestone)
	}

	stats := components.StatRow([]components.Stat{
		{Label: "Day", Value: fmt.Sprintf("%d / %d", s.ElapsedDays, s.DurationDays), Hint: "started " + cli.FormatDate(s.StartDate)},
		{Label: "Days Remaining", Value: fmt.Sprintf("%d", s.DaysRemaining), Hint: a.finishedHint()},
		{Label: "Revenue", Value: cli.FormatMoney(s.CurrentRevenue, a.opts.Currency), Hint: "of " + cli.FormatMoney(s.RevenueTarget, a.opts.Currency)},
		{Label: "Next Milestone", Value: nextValue, Hint: nextHint},
	}, cw)

	inner := components.PanelInnerWidth(cw)
	barW := max(inner-10-8, 10)
	bars := components.CampaignBar("Time", s.TimePercent, 8, barW) + "\n" +
		components.CampaignBar("Revenue", s.RevenuePercent, 8, barW) + "\n\n" +
		lipgloss.NewStyle().Foreground(t.TextMuted).Render(fmt.Sprintf(
			"Daily target %s/day · %s still needed",
			cli.FormatMoney(s.DailyTarget, a.opts.Currency),
			cli.FormatMoney(s.RevenueRemaining, a.opts.Currency)))

	sections := []string{
		title,
		stats,
		components.Panel("Progress", bars, cw),
		components.Panel("Milestones", a.milestoneList(s), cw),
	}
	if a.err != nil {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Orange).Padding(0, 1).
			Render("Last refresh failed: "+a.err.Error()))
	}

	info := "updated " + cli.FormatSince(a.lastRefresh, a.opts.Now())
	if a.refreshing {
		info = "refreshing..."
	}
	sections = append(sections, components.RenderStatusBar(cw, info))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) finishedHint() string {
	if a.stats.Finished {
		return "campaign period ended"
	}
	return ""
}

func (a App) milestoneList(s model.ProgressStats) string {
	t := theme.Active
	doneStyle := lipgloss.NewStyle().Foreground(t.Green)
	nextStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	todoStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	reached := max(s.RawElapsed, 0)
	lines := make([]string, 0, len(a.opts.Milestones))
	for _, m := range a.opts.Milestones {
		line := fmt.Sprintf("Day %-3d %s", m.Day, m.Description)
		switch {
		case m.Day <= reached:
			lines = append(lines, doneStyle.Render("✓ "+line))
		case s.NextMilestone != nil && m.Day == s.NextMilestone.Day:
			lines = append(lines, nextStyle.Render("→ "+line))
		default:
			lines = append(lines, todoStyle.Render("  "+line))
		}
	}
	if len(lines) == 0 {
		return todoStyle.Render("No milestones configured.")
	}
	return strings.Join(lines, "\n")
}

func tickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func loadStatsCmd(load StatsLoader, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		stats, err := load(ctx)
		return StatsMsg{Stats: stats, Err: err, At: now()}
	}
}
