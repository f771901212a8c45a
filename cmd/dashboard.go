package cmd

import (
	"fmt"
	"time"

	"github.com/ashewa/campaignbot/internal/tui"
	"github.com/ashewa/campaignbot/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var flagRefresh time.Duration

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"tui"},
	Short:   "Launch the interactive campaign dashboard",
	RunE:    runDashboard,
}

func init() {
	dashboardCmd.Flags().DurationVar(&flagRefresh, "refresh", 30*time.Second, "Auto-refresh interval")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	theme.SetActive(e.cfg.Appearance.Theme)

	// Background styling needs ANSI codes even when lipgloss detects no color.
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		Title:           e.cfg.Campaign.Name,
		Currency:        e.cfg.Campaign.Currency,
		Milestones:      e.calc.Milestones(),
		RefreshInterval: flagRefresh,
		Load:            e.handler.Stats,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
