package cmd

import (
	"fmt"

	"github.com/ashewa/campaignbot/internal/bot"
	"github.com/ashewa/campaignbot/internal/cli"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var campaignCmd = &cobra.Command{
	Use:     "campaign",
	Aliases: []string{"campaigns"},
	Short:   "List the marketing campaigns",
	RunE:    runCampaign,
}

func init() {
	rootCmd.AddCommand(campaignCmd)
}

func runCampaign(cmd *cobra.Command, _ []string) error {
	if flagChat {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()
		return printChat(cmd.Context(), e, bot.CmdCampaign)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	camp := cfg.Campaign

	rows := make([][]string, 0, len(camp.Campaigns))
	total := decimal.Zero
	for i, c := range camp.Campaigns {
		budget := decimal.NewFromInt(c.Budget)
		total = total.Add(budget)
		rows = append(rows, []string{
			fmt.Sprintf("%d. %s", i+1, c.Name),
			cli.FormatMoney(budget, camp.Currency),
			c.KPI,
			c.Timeline,
			c.Team,
		})
	}
	if len(rows) > 1 {
		rows = append(rows, []string{"---"}, []string{"Total", cli.FormatMoney(total, camp.Currency)})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(camp.Name))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Campaign", "Budget", "KPI", "Timeline", "Team"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}
