package cmd

import (
	"fmt"
	"time"

	"github.com/ashewa/campaignbot/internal/bot"
	"github.com/ashewa/campaignbot/internal/cli"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Overall campaign progress",
	RunE:  runProgress,
}

func init() {
	rootCmd.AddCommand(progressCmd)
}

func runProgress(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	if flagChat {
		return printChat(ctx, e, bot.CmdProgress)
	}

	s, err := e.handler.Stats(ctx)
	if err != nil {
		return err
	}
	cur := e.cfg.Campaign.Currency

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%d-DAY CAMPAIGN PROGRESS", s.DurationDays)))
	fmt.Println()

	rows := [][]string{
		{"Started", cli.FormatDate(s.StartDate)},
		{"Time Progress", fmt.Sprintf("%d/%d days (%s)", s.ElapsedDays, s.DurationDays, cli.FormatPercent(s.TimePercent))},
		{"Days Remaining", fmt.Sprintf("%d", s.DaysRemaining)},
		{"---"},
		{"Revenue", cli.FormatMoney(s.CurrentRevenue, cur)},
		{"Target", cli.FormatMoney(s.RevenueTarget, cur)},
		{"Revenue Progress", cli.FormatPercent(s.RevenuePercent)},
		{"---"},
		{"Daily Target", cli.FormatMoney(s.DailyTarget, cur) + "/day"},
		{"Revenue Needed", cli.FormatMoney(s.RevenueRemaining, cur)},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	fmt.Println()

	fmt.Printf("  Time     %s\n", cli.RenderProgressBar(s.TimePercent, 30))
	fmt.Printf("  Revenue  %s\n", cli.RenderProgressBar(s.RevenuePercent, 30))
	if s.Finished {
		fmt.Println()
		fmt.Println("  " + cli.Muted(fmt.Sprintf("Campaign period ended %s.", cli.FormatSince(s.StartDate.AddDate(0, 0, s.DurationDays), time.Now()))))
	}
	fmt.Println()
	return nil
}
