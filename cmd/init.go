package cmd

import (
	"fmt"
	"time"

	"github.com/ashewa/campaignbot/internal/cli"
	"github.com/ashewa/campaignbot/internal/config"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the campaign progress record (starts the campaign today)",
	Long: "Create the campaign progress record with today's date and zero revenue.\n" +
		"Running it again is safe: an existing record is left untouched.",
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	created, err := e.store.EnsureInitialized(ctx, e.calc.Today(time.Now()))
	if err != nil {
		return fmt.Errorf("initializing campaign: %w", err)
	}

	rec, err := e.store.Progress(ctx)
	if err != nil {
		return err
	}

	if created {
		fmt.Printf("  Campaign started on %s\n", cli.FormatDate(rec.StartDate))
	} else {
		fmt.Printf("  Campaign already initialized (started %s)\n", cli.FormatDate(rec.StartDate))
	}
	infof("  Store: %s\n", describeStorage(e.cfg.Storage.Driver, e.cfg.Storage.Path))
	return nil
}

func describeStorage(driver, path string) string {
	if driver == config.DriverPostgres {
		return config.DriverPostgres
	}
	return "sqlite " + path
}
