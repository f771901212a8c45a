package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ashewa/campaignbot/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the progress record in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgres migrates the database at dsn and connects a pool to it.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if err := migratePostgres(dsn); err != nil {
		return nil, err
	}

	poolConf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	poolConf.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolConf)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureInitialized implements Store.
func (s *PostgresStore) EnsureInitialized(ctx context.Context, today time.Time) (bool, error) {
	day := today.Format(dateLayout)
	tag, err := s.pool.Exec(ctx, `INSERT INTO campaign_progress (id, start_date, current_revenue, updated_at)
		VALUES (1, $1::date, 0, $1::date)
		ON CONFLICT (id) DO NOTHING`, day)
	if err != nil {
		return false, fmt.Errorf("initialize progress: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Progress implements Store.
func (s *PostgresStore) Progress(ctx context.Context) (model.CampaignProgress, error) {
	var startDate, revenue, updatedAt string
	err := s.pool.QueryRow(ctx, `SELECT start_date::text, current_revenue::text, updated_at::text
		FROM campaign_progress WHERE id = 1`).Scan(&startDate, &revenue, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.CampaignProgress{}, ErrNotInitialized
	}
	if err != nil {
		return model.CampaignProgress{}, fmt.Errorf("read progress: %w", err)
	}
	return scanRecord(startDate, revenue, updatedAt)
}

// Ping implements Store.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
