package cmd

import (
	"fmt"

	"github.com/ashewa/campaignbot/internal/bot"
	"github.com/ashewa/campaignbot/internal/cli"

	"github.com/spf13/cobra"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Team daily and weekly targets",
	RunE:  runTargets,
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}

func runTargets(cmd *cobra.Command, _ []string) error {
	if flagChat {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()
		return printChat(cmd.Context(), e, bot.CmdTargets)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(cfg.Campaign.Teams))
	for _, t := range cfg.Campaign.Teams {
		rows = append(rows, []string{t.Team, t.Daily, t.Weekly})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Team Targets",
		Headers: []string{"Team", "Daily", "Weekly"},
		Rows:    rows,
	}))
	fmt.Printf("\n  All teams: push for the %s %s target!\n\n",
		cli.FormatCompact(cfg.Campaign.Target()), cfg.Campaign.Currency)
	return nil
}
