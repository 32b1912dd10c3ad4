package dal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

// sqlStore holds the queries shared by the SQLite and PostgreSQL DALs.
// Queries are written with ? placeholders and rebound per driver.
type sqlStore struct {
	db     *sql.DB
	rebind func(string) string
}

func (s *sqlStore) q(query string) string {
	if s.rebind == nil {
		return query
	}
	return s.rebind(query)
}

// dollarPlaceholders rewrites ? placeholders as $1, $2, ... for PostgreSQL
func dollarPlaceholders(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) GetState() (*models.DraftState, error) {
	state := &models.DraftState{
		Settings:    models.DefaultDraftSettings(),
		Projections: []models.PlayerProjection{},
		Picks:       []models.DraftPick{},
		PendingBids: []models.PendingBid{},
	}

	var settingsJSON string
	err := s.db.QueryRow(s.q(`SELECT data FROM settings WHERE id = 1`)).Scan(&settingsJSON)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal([]byte(settingsJSON), &state.Settings); err != nil {
			return nil, fmt.Errorf("failed to decode settings: %w", err)
		}
	}

	// Get projections in import order
	rows, err := s.db.Query(s.q(`SELECT id, name, team, positions, stats FROM projections ORDER BY seq`))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.PlayerProjection
		var positionsJSON, statsJSON string
		if err := rows.Scan(&p.ID, &p.Name, &p.Team, &positionsJSON, &statsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(positionsJSON), &p.Positions); err != nil {
			return nil, fmt.Errorf("failed to decode positions for %s: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(statsJSON), &p.Stats); err != nil {
			return nil, fmt.Errorf("failed to decode stats for %s: %w", p.ID, err)
		}
		state.Projections = append(state.Projections, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pickRows, err := s.db.Query(s.q(`
		SELECT player_id, price, is_my_bid, drafted_by, pick_number, ts
		FROM picks ORDER BY pick_number
	`))
	if err != nil {
		return nil, err
	}
	defer pickRows.Close()

	for pickRows.Next() {
		p, err := scanPick(pickRows)
		if err != nil {
			return nil, err
		}
		state.Picks = append(state.Picks, *p)
	}
	if err := pickRows.Err(); err != nil {
		return nil, err
	}

	bidRows, err := s.db.Query(s.q(`SELECT player_id, price, is_my_bid, bidder FROM pending_bids ORDER BY player_id`))
	if err != nil {
		return nil, err
	}
	defer bidRows.Close()

	for bidRows.Next() {
		var b models.PendingBid
		if err := bidRows.Scan(&b.PlayerID, &b.Price, &b.IsMyBid, &b.Bidder); err != nil {
			return nil, err
		}
		state.PendingBids = append(state.PendingBids, b)
	}
	return state, bidRows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPick(row rowScanner) (*models.DraftPick, error) {
	var p models.DraftPick
	var ts int64
	if err := row.Scan(&p.PlayerID, &p.Price, &p.IsMyBid, &p.DraftedBy, &p.PickNumber, &ts); err != nil {
		return nil, err
	}
	p.Timestamp = time.UnixMilli(ts).UTC()
	return &p, nil
}

func (s *sqlStore) Reset() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM picks`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM pending_bids`); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *sqlStore) SetProjections(projections []models.PlayerProjection) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"picks", "pending_bids", "projections"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, p := range withIDs(projections) {
		positionsJSON, err := json.Marshal(p.Positions)
		if err != nil {
			return err
		}
		stats := p.Stats
		if stats == nil {
			stats = map[string]float64{}
		}
		statsJSON, err := json.Marshal(stats)
		if err != nil {
			return fmt.Errorf("failed to encode stats for %s: %w", p.Name, err)
		}
		_, err = tx.Exec(s.q(`
			INSERT INTO projections (id, seq, name, team, positions, stats)
			VALUES (?, ?, ?, ?, ?, ?)
		`), p.ID, i, p.Name, p.Team, string(positionsJSON), string(statsJSON))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqlStore) SaveSettings(settings models.DraftSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	_, err = s.db.Exec(s.q(`
		INSERT INTO settings (id, data) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data
	`), string(data))
	return err
}

// checkUndrafted returns ErrPlayerNotFound or ErrAlreadyDrafted when playerID cannot take a pick or bid
func (s *sqlStore) checkUndrafted(tx *sql.Tx, playerID string) error {
	var exists int
	if err := tx.QueryRow(s.q(`SELECT COUNT(*) FROM projections WHERE id = ?`), playerID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return ErrPlayerNotFound
	}
	var drafted int
	if err := tx.QueryRow(s.q(`SELECT COUNT(*) FROM picks WHERE player_id = ?`), playerID).Scan(&drafted); err != nil {
		return err
	}
	if drafted > 0 {
		return ErrAlreadyDrafted
	}
	return nil
}

func (s *sqlStore) AddPick(pick models.DraftPick) (*models.DraftPick, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.checkUndrafted(tx, pick.PlayerID); err != nil {
		return nil, err
	}

	// Get the next pick number
	if err := tx.QueryRow(`SELECT COALESCE(MAX(pick_number), 0) + 1 FROM picks`).Scan(&pick.PickNumber); err != nil {
		return nil, err
	}
	if pick.Timestamp.IsZero() {
		pick.Timestamp = time.Now().UTC()
	}

	_, err = tx.Exec(s.q(`
		INSERT INTO picks (player_id, price, is_my_bid, drafted_by, pick_number, ts)
		VALUES (?, ?, ?, ?, ?, ?)
	`), pick.PlayerID, pick.Price, pick.IsMyBid, pick.DraftedBy, pick.PickNumber, pick.Timestamp.UnixMilli())
	if err != nil {
		return nil, err
	}

	// A confirmed pick settles any bid in progress
	if _, err := tx.Exec(s.q(`DELETE FROM pending_bids WHERE player_id = ?`), pick.PlayerID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &pick, nil
}

func (s *sqlStore) UpdatePick(playerID string, price int, draftedBy string) (*models.DraftPick, error) {
	res, err := s.db.Exec(s.q(`UPDATE picks SET price = ?, drafted_by = ? WHERE player_id = ?`), price, draftedBy, playerID)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrPickNotFound
	}

	row := s.db.QueryRow(s.q(`
		SELECT player_id, price, is_my_bid, drafted_by, pick_number, ts
		FROM picks WHERE player_id = ?
	`), playerID)
	return scanPick(row)
}

func (s *sqlStore) DeletePick(playerID string) error {
	res, err := s.db.Exec(s.q(`DELETE FROM picks WHERE player_id = ?`), playerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPickNotFound
	}
	return nil
}

func (s *sqlStore) UndoLastPick() (*models.DraftPick, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	pick, err := scanPick(tx.QueryRow(`
		SELECT player_id, price, is_my_bid, drafted_by, pick_number, ts
		FROM picks ORDER BY pick_number DESC LIMIT 1
	`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPickNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(s.q(`DELETE FROM picks WHERE player_id = ?`), pick.PlayerID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return pick, nil
}

func (s *sqlStore) SetPendingBid(bid models.PendingBid) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.checkUndrafted(tx, bid.PlayerID); err != nil {
		return err
	}
	_, err = tx.Exec(s.q(`
		INSERT INTO pending_bids (player_id, price, is_my_bid, bidder)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (player_id) DO UPDATE
		SET price = excluded.price, is_my_bid = excluded.is_my_bid, bidder = excluded.bidder
	`), bid.PlayerID, bid.Price, bid.IsMyBid, bid.Bidder)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *sqlStore) ClearPendingBid(playerID string) error {
	_, err := s.db.Exec(s.q(`DELETE FROM pending_bids WHERE player_id = ?`), playerID)
	return err
}

// DB exposes the underlying connection pool
func (s *sqlStore) DB() *sql.DB {
	return s.db
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
