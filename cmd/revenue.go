package cmd

import (
	"fmt"

	"github.com/ashewa/campaignbot/internal/bot"
	"github.com/ashewa/campaignbot/internal/cli"

	"github.com/spf13/cobra"
)

var revenueCmd = &cobra.Command{
	Use:   "revenue",
	Short: "Revenue against the campaign target",
	RunE:  runRevenue,
}

func init() {
	rootCmd.AddCommand(revenueCmd)
}

func runRevenue(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	if flagChat {
		return printChat(ctx, e, bot.CmdRevenue)
	}

	s, err := e.handler.Stats(ctx)
	if err != nil {
		return err
	}
	cur := e.cfg.Campaign.Currency

	fmt.Println()
	fmt.Print(cli.RenderKV("Revenue Tracking", [][2]string{
		{"Overall Target", cli.FormatMoney(s.RevenueTarget, cur)},
		{"Current Revenue", cli.FormatMoney(s.CurrentRevenue, cur)},
		{"Remaining", cli.FormatMoney(s.RevenueRemaining, cur)},
		{"Completion", cli.FormatPercent(s.RevenuePercent)},
		{"Daily Target", cli.FormatMoney(s.DailyTarget, cur) + "/day"},
	}))
	fmt.Println()
	fmt.Printf("    %s\n\n", cli.RenderProgressBar(s.RevenuePercent, 30))
	return nil
}
