// Package store persists the singleton campaign progress record.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ashewa/campaignbot/internal/config"
	"github.com/ashewa/campaignbot/internal/model"

	"github.com/shopspring/decimal"
)

// ErrNotInitialized is returned when the progress record has not been created yet.
var ErrNotInitialized = errors.New("campaign progress not initialized")

const dateLayout = "2006-01-02"

// Store reads and initializes the progress record.
type Store interface {
	// EnsureInitialized creates the record starting on today unless it
	// already exists, and reports whether this call created it.
	EnsureInitialized(ctx context.Context, today time.Time) (bool, error)
	// Progress returns the record, or ErrNotInitialized.
	Progress(ctx context.Context) (model.CampaignProgress, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open returns the backend selected by cfg with its schema migrated.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return OpenSQLite(ctx, cfg.Path)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// scanRecord converts the textual columns shared by both backends.
func scanRecord(startDate, revenue, updatedAt string) (model.CampaignProgress, error) {
	var rec model.CampaignProgress

	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return rec, fmt.Errorf("parse start_date %q: %w", startDate, err)
	}
	rev, err := decimal.NewFromString(revenue)
	if err != nil {
		return rec, fmt.Errorf("parse current_revenue %q: %w", revenue, err)
	}
	rec.StartDate = start
	rec.CurrentRevenue = rev

	if updatedAt != "" {
		// Tolerate full timestamps written by external tooling.
		if len(updatedAt) > len(dateLayout) {
			updatedAt = updatedAt[:len(dateLayout)]
		}
		u, err := time.Parse(dateLayout, updatedAt)
		if err != nil {
			return rec, fmt.Errorf("parse updated_at %q: %w", updatedAt, err)
		}
		rec.UpdatedAt = u
	}
	return rec, nil
}
