// Package clickhouse loads player projections from a ClickHouse warehouse.
// Projections are stored one stat per row so any scoring category can be
// carried without schema changes:
//
//	CREATE TABLE player_projections (
//	    projection_set LowCardinality(String),
//	    player_name    String,
//	    team           LowCardinality(String),
//	    positions      Array(String),
//	    stat           LowCardinality(String),
//	    value          Float64
//	) ENGINE = ReplacingMergeTree
//	ORDER BY (projection_set, player_name, team, stat);
package clickhouse

import (
	"context"
	"fmt"
	"math"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

// DefaultProjectionSet is used when no projection set is configured
const DefaultProjectionSet = "default"

// Client provides ClickHouse integration for player projections
type Client struct {
	conn driver.Conn
	set  string
}

// NewClient creates a new ClickHouse client reading one projection set
func NewClient(addr, database, username, password, projectionSet string) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	if projectionSet == "" {
		projectionSet = DefaultProjectionSet
	}
	return &Client{conn: conn, set: projectionSet}, nil
}

// Name identifies the source in logs and import events
func (c *Client) Name() string {
	return "clickhouse:" + c.set
}

// projectionRow is one player's stats gathered from the long-format table
type projectionRow struct {
	Name      string
	Team      string
	Positions []string
	Stats     []string
	Values    []float64
}

// FetchProjections loads every player in the configured projection set
func (c *Client) FetchProjections(ctx context.Context) ([]models.PlayerProjection, error) {
	query := `
		SELECT
			player_name,
			team,
			any(positions) AS positions,
			groupArray(stat) AS stats,
			groupArray(value) AS stat_values
		FROM player_projections FINAL
		WHERE projection_set = $1
		GROUP BY player_name, team
		ORDER BY player_name, team
	`

	rows, err := c.conn.Query(ctx, query, c.set)
	if err != nil {
		return nil, fmt.Errorf("querying projections: %w", err)
	}
	defer rows.Close()

	var raw []projectionRow
	for rows.Next() {
		var r projectionRow
		if err := rows.Scan(&r.Name, &r.Team, &r.Positions, &r.Stats, &r.Values); err != nil {
			return nil, fmt.Errorf("scanning projection row: %w", err)
		}
		raw = append(raw, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assemble(raw)
}

// ProjectionSets lists the projection sets available in the table
func (c *Client) ProjectionSets(ctx context.Context) ([]string, error) {
	rows, err := c.conn.Query(ctx, `SELECT DISTINCT projection_set FROM player_projections ORDER BY projection_set`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

// Ping checks the connection is alive
func (c *Client) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// assemble turns grouped rows into projections. Non-finite values are
// dropped so the normalizer treats them as missing.
func assemble(rows []projectionRow) ([]models.PlayerProjection, error) {
	out := make([]models.PlayerProjection, 0, len(rows))
	for _, r := range rows {
		if len(r.Stats) != len(r.Values) {
			return nil, fmt.Errorf("player %s: %d stat names for %d values", r.Name, len(r.Stats), len(r.Values))
		}
		stats := make(map[string]float64, len(r.Stats))
		for i, name := range r.Stats {
			v := r.Values[i]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			stats[name] = v
		}
		out = append(out, models.PlayerProjection{
			Name:      r.Name,
			Team:      r.Team,
			Positions: r.Positions,
			Stats:     stats,
		})
	}
	return out, nil
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
