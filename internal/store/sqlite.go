package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ashewa/campaignbot/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLiteStore keeps the progress record in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens or creates the database at dbPath and migrates it.
func OpenSQLite(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	if err := migrateSQLite(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// EnsureInitialized implements Store.
func (s *SQLiteStore) EnsureInitialized(ctx context.Context, today time.Time) (bool, error) {
	day := today.Format(dateLayout)
	res, err := s.db.ExecContext(ctx, `INSERT INTO campaign_progress (id, start_date, current_revenue, updated_at)
		VALUES (1, ?, 0, ?)
		ON CONFLICT (id) DO NOTHING`, day, day)
	if err != nil {
		return false, fmt.Errorf("initialize progress: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("initialize progress: %w", err)
	}
	return n == 1, nil
}

// Progress implements Store.
func (s *SQLiteStore) Progress(ctx context.Context) (model.CampaignProgress, error) {
	var startDate, revenue, updatedAt string
	err := s.db.QueryRowContext(ctx, `SELECT start_date, CAST(current_revenue AS TEXT), updated_at
		FROM campaign_progress WHERE id = 1`).Scan(&startDate, &revenue, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CampaignProgress{}, ErrNotInitialized
	}
	if err != nil {
		return model.CampaignProgress{}, fmt.Errorf("read progress: %w", err)
	}
	return scanRecord(startDate, revenue, updatedAt)
}

// Ping implements Store.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
