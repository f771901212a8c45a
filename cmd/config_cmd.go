package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ashewa/campaignbot/internal/cli"
	"github.com/ashewa/campaignbot/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", flagConfigPath)
	if config.Exists(flagConfigPath) {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	token := "not configured"
	if cfg.Bot.Token != "" {
		token = maskToken(cfg.Bot.Token)
	}
	storage := cfg.Storage.Path
	if cfg.Storage.Driver == config.DriverPostgres {
		storage = maskDSN(cfg.Storage.DSN)
	}
	httpAddr := cfg.HTTP.Addr
	if httpAddr == "" {
		httpAddr = "disabled"
	}

	camp := cfg.Campaign
	fmt.Print(cli.RenderKV("[bot]", [][2]string{
		{"Token", token},
		{"Poll timeout", fmt.Sprintf("%ds", cfg.Bot.PollTimeoutSec)},
	}))
	fmt.Print(cli.RenderKV("[storage]", [][2]string{
		{"Driver", cfg.Storage.Driver},
		{"Location", storage},
	}))
	fmt.Print(cli.RenderKV("[campaign]", [][2]string{
		{"Name", camp.Name},
		{"Duration", cli.FormatDays(camp.DurationDays)},
		{"Revenue target", cli.FormatMoney(camp.Target(), camp.Currency)},
		{"Timezone", camp.Timezone},
		{"Milestones", fmt.Sprintf("%d", len(camp.Milestones))},
		{"Campaigns", fmt.Sprintf("%d", len(camp.Campaigns))},
		{"Teams", fmt.Sprintf("%d", len(camp.Teams))},
	}))
	fmt.Print(cli.RenderKV("[http]", [][2]string{{"Address", httpAddr}}))
	fmt.Print(cli.RenderKV("[log]", [][2]string{
		{"Level", cfg.Log.Level},
		{"Format", cfg.Log.Format},
	}))
	fmt.Print(cli.RenderKV("[appearance]", [][2]string{{"Theme", cfg.Appearance.Theme}}))
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		fmt.Printf("  %v\n\n", err)
	} else if errors.Is(cfg.RequireToken(), config.ErrMissingToken) {
		fmt.Println("  Valid, but `ashewa serve` needs a bot token.")
		fmt.Println()
	}

	fmt.Println("  Run `ashewa setup` to reconfigure.")
	return nil
}

func maskToken(token string) string {
	if len(token) > 16 {
		return token[:6] + "..." + token[len(token)-4:]
	}
	if len(token) > 4 {
		return token[:4] + "..."
	}
	return "****"
}

// maskDSN hides the password of a postgres URL.
func maskDSN(dsn string) string {
	if dsn == "" {
		return "not configured"
	}
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return "****"
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, _ := strings.Cut(userinfo, ":")
	return scheme + "://" + user + ":****@" + host
}
