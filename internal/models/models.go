package models

import (
	"fmt"
	"time"
)

// ValueTier is the qualitative bucket assigned from a player's VAR percentile
type ValueTier string

const (
	ValueTierElite       ValueTier = "elite"
	ValueTierStar        ValueTier = "star"
	ValueTierStarter     ValueTier = "starter"
	ValueTierBench       ValueTier = "bench"
	ValueTierReplacement ValueTier = "replacement"
)

// PlayerProjection is a single player's projected stat line as delivered by a projection source
type PlayerProjection struct {
	ID        string             `json:"id,omitempty"`
	Name      string             `json:"name"`
	Team      string             `json:"team,omitempty"`
	Positions []string           `json:"positions"`
	Stats     map[string]float64 `json:"stats"`
}

// LeagueSettings describes the league's teams, budget and roster construction
type LeagueSettings struct {
	TeamCount            int            `json:"teamCount" toml:"team_count"`
	BudgetPerTeam        int            `json:"budgetPerTeam" toml:"budget_per_team"`
	RosterSpots          int            `json:"rosterSpots" toml:"roster_spots"`
	PositionRequirements map[string]int `json:"positionRequirements" toml:"positions"`
}

// TotalBudget returns the dollars available to the whole league
func (l LeagueSettings) TotalBudget() int {
	return l.TeamCount * l.BudgetPerTeam
}

// Validate reports settings the valuation engine would degrade on.
// Callers should reject these before running a valuation.
func (l LeagueSettings) Validate() error {
	if l.TeamCount <= 0 {
		return fmt.Errorf("team count must be positive, got %d", l.TeamCount)
	}
	if l.BudgetPerTeam <= 0 {
		return fmt.Errorf("budget per team must be positive, got %d", l.BudgetPerTeam)
	}
	for pos, n := range l.PositionRequirements {
		if n < 0 {
			return fmt.Errorf("position %s has negative slot count %d", pos, n)
		}
	}
	return nil
}

// ValueMethod selects how raw stats become ratings
type ValueMethod string

const (
	MethodZScore ValueMethod = "zscore"
	MethodSGP    ValueMethod = "sgp"
	MethodPoints ValueMethod = "points"
)

// ReplacementPolicy selects how a position's replacement level is resolved
type ReplacementPolicy string

const (
	ReplacementLastDrafted    ReplacementPolicy = "lastDrafted"
	ReplacementFirstUndrafted ReplacementPolicy = "firstUndrafted"
	ReplacementBlended        ReplacementPolicy = "blended"
)

// SplitMode selects how the hitter/pitcher budget split is decided
type SplitMode string

const (
	SplitManual     SplitMode = "manual"
	SplitStandard   SplitMode = "standard"
	SplitCalculated SplitMode = "calculated"
)

// SplitPreset names one of the standard hitter/pitcher splits
type SplitPreset string

const (
	PresetBalanced     SplitPreset = "balanced"
	PresetHitterHeavy  SplitPreset = "hitter-heavy"
	PresetPitcherHeavy SplitPreset = "pitcher-heavy"
)

// ValueCalculationSettings holds the user's valuation preferences
type ValueCalculationSettings struct {
	Method                ValueMethod       `json:"method" toml:"method"`
	ReplacementLevel      ReplacementPolicy `json:"replacementLevel" toml:"replacement_level"`
	ApplyPositionScarcity bool              `json:"applyPositionScarcity" toml:"apply_position_scarcity"`
	SplitMode             SplitMode         `json:"splitMode" toml:"split_mode"`
	SplitPreset           SplitPreset       `json:"splitPreset,omitempty" toml:"split_preset"`
	HitterBudgetPercent   float64           `json:"hitterBudgetPercent" toml:"hitter_budget_percent"`
	ShowTiers             bool              `json:"showTiers" toml:"show_tiers"`
}

// DefaultValueSettings returns z-score, last-drafted replacement and a 65/35 manual split
func DefaultValueSettings() ValueCalculationSettings {
	return ValueCalculationSettings{
		Method:              MethodZScore,
		ReplacementLevel:    ReplacementLastDrafted,
		SplitMode:           SplitManual,
		HitterBudgetPercent: 65,
	}
}

// PositionReplacementLevel is the replacement marker for one roster position
type PositionReplacementLevel struct {
	Position   string  `json:"position"`
	Rating     float64 `json:"rating"`
	PlayerName string  `json:"playerName,omitempty"`
	Count      int     `json:"count"`
}

// PlayerValue is a player's dollar valuation plus live draft status
type PlayerValue struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Team             string    `json:"team,omitempty"`
	Positions        []string  `json:"positions"`
	OriginalValue    int       `json:"originalValue"`
	AdjustedValue    int       `json:"adjustedValue,omitempty"`
	Rank             int       `json:"rank"`
	Tier             int       `json:"tier"`
	ValueTier        ValueTier `json:"valueTier,omitempty"`
	Draftable        bool      `json:"draftable"`
	AssignedPosition string    `json:"assignedPosition,omitempty"`
	VAR              float64   `json:"var"`
	Rating           float64   `json:"rating"`
	IsPitcher        bool      `json:"isPitcher"`
	IsDrafted        bool      `json:"isDrafted"`
	DraftPrice       int       `json:"draftPrice,omitempty"`
	DraftedBy        string    `json:"draftedBy,omitempty"`
	HasPendingBid    bool      `json:"hasPendingBid"`
	PendingBidIsMine bool      `json:"pendingBidIsMine,omitempty"`
	PendingBidPrice  int       `json:"pendingBidPrice,omitempty"`
}

// DraftPick is a confirmed auction result
type DraftPick struct {
	PlayerID   string    `json:"playerId"`
	Price      int       `json:"price"`
	IsMyBid    bool      `json:"isMyBid"`
	DraftedBy  string    `json:"draftedBy"`
	PickNumber int       `json:"pickNumber"`
	Timestamp  time.Time `json:"timestamp"`
}

// PendingBid is an in-progress, unconfirmed bid on a player
type PendingBid struct {
	PlayerID string `json:"playerId"`
	Price    int    `json:"price"`
	IsMyBid  bool   `json:"isMyBid"`
	Bidder   string `json:"bidder,omitempty"`
}

// DraftState is the complete persisted state of a draft room
type DraftState struct {
	Settings    DraftSettings      `json:"settings"`
	Projections []PlayerProjection `json:"projections"`
	Picks       []DraftPick        `json:"picks"`
	PendingBids []PendingBid       `json:"pendingBids"`
}
