// Package cmd implements the ashewa CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ashewa/campaignbot/internal/bot"
	"github.com/ashewa/campaignbot/internal/config"
	"github.com/ashewa/campaignbot/internal/progress"
	"github.com/ashewa/campaignbot/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagConfigPath string
	flagEnvFile    string
	flagQuiet      bool
	flagChat       bool
)

var rootCmd = &cobra.Command{
	Use:               "ashewa",
	Short:             "Ashewa 90-day campaign tracker",
	Long:              "Track the Ashewa marketing campaign: progress, revenue, milestones and team targets.\nRun `ashewa serve` to answer the same commands on Telegram.",
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvFile,
	RunE:              runProgress,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfigPath, "config", "c", config.Path(), "Config file path")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Dotenv file loaded before the config (skipped if missing)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().BoolVar(&flagChat, "chat", false, "Print the Telegram reply text instead of the terminal view")
}

// loadEnvFile loads the dotenv file so its variables feed the env overlay.
// Variables already set in the environment win.
func loadEnvFile(_ *cobra.Command, _ []string) error {
	if flagEnvFile == "" {
		return nil
	}
	if err := godotenv.Load(flagEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", flagEnvFile, err)
	}
	return nil
}

// loadConfig reads and validates the configuration.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newCalculator(cfg config.Config) (*progress.Calculator, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("campaign timezone: %w", err)
	}
	return progress.New(progress.Settings{
		DurationDays:  cfg.Campaign.DurationDays,
		RevenueTarget: cfg.Campaign.Target(),
		BarWidth:      cfg.Campaign.BarWidth,
		Milestones:    cfg.Campaign.Milestones,
		Location:      loc,
	})
}

// env bundles what the report commands need. Close releases the store.
type env struct {
	cfg     config.Config
	store   store.Store
	calc    *progress.Calculator
	handler *bot.Handler
}

func (e *env) Close() error { return e.store.Close() }

// openEnv loads config, opens the store and builds the handler.
func openEnv(ctx context.Context, opts ...bot.Option) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	calc, err := newCalculator(cfg)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return &env{
		cfg:     cfg,
		store:   st,
		calc:    calc,
		handler: bot.NewHandler(st, calc, cfg.Campaign, opts...),
	}, nil
}

// printChat prints the reply the bot would send for command.
func printChat(ctx context.Context, e *env, command string) error {
	text, err := e.handler.Handle(ctx, command)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func infof(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
