package dal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDAL implements DraftDAL using SQLite
type SQLiteDAL struct {
	sqlStore
}

// NewSQLiteDAL creates a new SQLite data access layer
func NewSQLiteDAL(dbPath string) (*SQLiteDAL, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer at a time, and ":memory:" databases exist per connection
	db.SetMaxOpenConns(1)

	dal := &SQLiteDAL{sqlStore: sqlStore{db: db}}

	if err := dal.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return dal, nil
}

func (s *SQLiteDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projections (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		name TEXT NOT NULL,
		team TEXT NOT NULL DEFAULT '',
		positions TEXT NOT NULL,
		stats TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS picks (
		player_id TEXT PRIMARY KEY,
		price INTEGER NOT NULL,
		is_my_bid INTEGER NOT NULL DEFAULT 0,
		drafted_by TEXT NOT NULL DEFAULT '',
		pick_number INTEGER NOT NULL,
		ts INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pending_bids (
		player_id TEXT PRIMARY KEY,
		price INTEGER NOT NULL,
		is_my_bid INTEGER NOT NULL DEFAULT 0,
		bidder TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_picks_pick_number ON picks(pick_number);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	return nil
}
