package cmd

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/ashewa/campaignbot/internal/bot"

	"github.com/spf13/cobra"
)

var motivateCmd = &cobra.Command{
	Use:   "motivate",
	Short: "Print a random team motivation",
	RunE:  runMotivate,
}

func init() {
	rootCmd.AddCommand(motivateCmd)
}

func runMotivate(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	msg, ok := bot.PickMotivation(cfg.Campaign.Motivations, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	if !ok {
		return fmt.Errorf("no motivations configured in %s", flagConfigPath)
	}
	if !flagChat {
		msg = strings.ReplaceAll(msg, "*", "")
	}
	fmt.Println()
	fmt.Println("  " + msg)
	fmt.Println()
	return nil
}
