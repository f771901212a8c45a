package cmd

import (
	"fmt"

	"github.com/ashewa/campaignbot/internal/bot"
	"github.com/ashewa/campaignbot/internal/cli"

	"github.com/spf13/cobra"
)

var milestoneCmd = &cobra.Command{
	Use:     "milestone",
	Aliases: []string{"milestones"},
	Short:   "Next milestone and the full schedule",
	RunE:    runMilestone,
}

func init() {
	rootCmd.AddCommand(milestoneCmd)
}

func runMilestone(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	if flagChat {
		return printChat(ctx, e, bot.CmdMilestone)
	}

	s, err := e.handler.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	if s.NextMilestone == nil {
		fmt.Println("  " + cli.Accent("All milestones completed! Campaign finished!"))
	} else {
		fmt.Printf("  Next: %s  %s\n", cli.Accent(fmt.Sprintf("Day %d", s.NextMilestone.Day)), s.NextMilestone.Description)
		fmt.Printf("  %s\n", cli.Muted(cli.FormatDays(s.DaysToMilestone)+" to go"))
	}
	fmt.Println()

	reached := max(s.RawElapsed, 0)
	rows := make([][]string, 0, len(e.calc.Milestones()))
	for _, m := range e.calc.Milestones() {
		status := ""
		switch {
		case m.Day <= reached:
			status = "done"
		case s.NextMilestone != nil && m.Day == s.NextMilestone.Day:
			status = "next"
		}
		rows = append(rows, []string{fmt.Sprintf("Day %d", m.Day), m.Description, status})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Milestones",
		Headers: []string{"Day", "Milestone", "Status"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}
