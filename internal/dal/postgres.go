package dal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresDAL implements DraftDAL using PostgreSQL
type PostgresDAL struct {
	sqlStore
}

// NewPostgresDAL creates a new PostgreSQL data access layer optimized for CloudNativePG
func NewPostgresDAL(connString string) (*PostgresDAL, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	// CloudNativePG optimization: Configure connection pool settings
	db.SetMaxOpenConns(25)                 // Limit max connections (CloudNativePG default max_connections is 100)
	db.SetMaxIdleConns(5)                  // Keep some idle connections for quick reuse
	db.SetConnMaxLifetime(5 * time.Minute) // Recycle connections to handle failovers gracefully
	db.SetConnMaxIdleTime(1 * time.Minute) // Close idle connections to reduce load

	// Test connection with retry logic for Kubernetes DNS resolution
	maxRetries := 5
	retryDelay := 5 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		lastErr = db.PingContext(ctx)
		cancel()

		if lastErr == nil {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if lastErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres after %d retries: %w", maxRetries, lastErr)
	}

	dal := &PostgresDAL{sqlStore: sqlStore{db: db, rebind: dollarPlaceholders}}

	if err := dal.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return dal, nil
}

func (p *PostgresDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY,
		data JSONB NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS projections (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		name TEXT NOT NULL,
		team TEXT NOT NULL DEFAULT '',
		positions JSONB NOT NULL,
		stats JSONB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS picks (
		player_id TEXT PRIMARY KEY REFERENCES projections(id) ON DELETE CASCADE,
		price INTEGER NOT NULL,
		is_my_bid BOOLEAN NOT NULL DEFAULT false,
		drafted_by TEXT NOT NULL DEFAULT '',
		pick_number INTEGER NOT NULL,
		ts BIGINT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pending_bids (
		player_id TEXT PRIMARY KEY REFERENCES projections(id) ON DELETE CASCADE,
		price INTEGER NOT NULL,
		is_my_bid BOOLEAN NOT NULL DEFAULT false,
		bidder TEXT NOT NULL DEFAULT ''
	);

	-- CloudNativePG optimization: Add indexes for common query patterns
	CREATE INDEX IF NOT EXISTS idx_projections_seq ON projections(seq);
	CREATE INDEX IF NOT EXISTS idx_picks_pick_number ON picks(pick_number DESC);
	`

	if _, err := p.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create postgres schema: %w", err)
	}
	return nil
}
