package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ashewa/campaignbot/internal/config"
	"github.com/ashewa/campaignbot/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

type setupValues struct {
	token    string
	driver   string
	location string
	timezone string
	target   string
	days     string
	theme    string
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}

	vals := setupValues{
		driver:   cfg.Storage.Driver,
		location: cfg.Storage.Path,
		timezone: cfg.Campaign.Timezone,
		target:   strconv.FormatInt(cfg.Campaign.RevenueTarget, 10),
		days:     strconv.Itoa(cfg.Campaign.DurationDays),
		theme:    cfg.Appearance.Theme,
	}
	if cfg.Storage.Driver == config.DriverPostgres {
		vals.location = cfg.Storage.DSN
	}

	if err := newSetupForm(&vals, cfg.Bot.Token != "").Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup canceled, nothing saved.")
			return nil
		}
		return err
	}

	applySetup(&cfg, vals)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(flagConfigPath, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", flagConfigPath)
	fmt.Println("  Run `ashewa init` to start the campaign clock, then `ashewa serve`.")
	fmt.Println()
	return nil
}

func newSetupForm(v *setupValues, hasToken bool) *huh.Form {
	tokenDesc := "From @BotFather. Leave blank to use ASHEWA_BOT_TOKEN."
	if hasToken {
		tokenDesc = "A token is already saved. Leave blank to keep it."
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Telegram bot token").
				Description(tokenDesc).
				EchoMode(huh.EchoModePassword).
				Value(&v.token),
			huh.NewSelect[string]().
				Title("Storage").
				Options(
					huh.NewOption("SQLite file", config.DriverSQLite),
					huh.NewOption("PostgreSQL", config.DriverPostgres),
				).
				Value(&v.driver),
		),
		huh.NewGroup(
			huh.NewInput().
				TitleFunc(func() string {
					if v.driver == config.DriverPostgres {
						return "PostgreSQL URL"
					}
					return "SQLite database path"
				}, &v.driver).
				Value(&v.location).
				Validate(nonEmpty("location")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Campaign timezone").
				Description("IANA name, e.g. Africa/Addis_Ababa").
				Value(&v.timezone).
				Validate(func(s string) error {
					_, err := time.LoadLocation(strings.TrimSpace(s))
					return err
				}),
			huh.NewInput().
				Title("Revenue target").
				Value(&v.target).
				Validate(positiveInt),
			huh.NewInput().
				Title("Campaign length (days)").
				Value(&v.days).
				Validate(positiveInt),
			huh.NewSelect[string]().
				Title("Dashboard theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&v.theme),
		),
	)
}

func applySetup(cfg *config.Config, v setupValues) {
	if tok := strings.TrimSpace(v.token); tok != "" {
		cfg.Bot.Token = tok
	}
	cfg.Storage.Driver = v.driver
	if v.driver == config.DriverPostgres {
		cfg.Storage.DSN = strings.TrimSpace(v.location)
	} else {
		cfg.Storage.Path = strings.TrimSpace(v.location)
	}
	cfg.Campaign.Timezone = strings.TrimSpace(v.timezone)
	if n, err := parseWhole(v.target); err == nil {
		cfg.Campaign.RevenueTarget = n
	}
	if n, err := parseWhole(v.days); err == nil {
		cfg.Campaign.DurationDays = int(n)
	}
	cfg.Appearance.Theme = v.theme
}

func nonEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// parseWhole accepts thousands separators, as in 131,000,000.
func parseWhole(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(strings.ReplaceAll(s, ",", "")), 10, 64)
}

func positiveInt(s string) error {
	n, err := parseWhole(s)
	if err != nil || n <= 0 {
		return errors.New("enter a positive whole number")
	}
	return nil
}
