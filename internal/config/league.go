package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

// LeagueFile is the TOML league configuration. Sections left out of the
// file keep the standard 12-team $260 roto defaults.
//
//	[league]
//	team_count = 12
//	budget_per_team = 260
//	[league.positions]
//	C = 2
//	OF = 5
//
//	[scoring]
//	kind = "h2h-points"
//	[scoring.hitter_points]
//	HR = 4.0
//
//	[values]
//	method = "points"
//
//	[cache]
//	ttl = "12h"
type LeagueFile struct {
	League  models.LeagueSettings           `toml:"league"`
	Scoring ScoringFile                     `toml:"scoring"`
	Values  models.ValueCalculationSettings `toml:"values"`
	Cache   CacheConfig                     `toml:"cache"`
}

// ScoringFile is the TOML shape of a scoring format
type ScoringFile struct {
	Kind          string             `toml:"kind"`
	Hitting       []string           `toml:"hitting"`
	Pitching      []string           `toml:"pitching"`
	HitterPoints  map[string]float64 `toml:"hitter_points"`
	PitcherPoints map[string]float64 `toml:"pitcher_points"`
}

// CacheConfig tunes the valuation cache
type CacheConfig struct {
	TTL           string `toml:"ttl"`            // Redis entry lifetime (e.g., "12h")
	MemoryEntries int    `toml:"memory_entries"` // In-process valuations kept
}

// DefaultLeagueFile returns the standard 12-team $260 roto league
func DefaultLeagueFile() *LeagueFile {
	roto := models.StandardRoto()
	return &LeagueFile{
		League: models.StandardLeague(),
		Scoring: ScoringFile{
			Kind:     string(roto.Format),
			Hitting:  roto.HittingCategories,
			Pitching: roto.PitchingCategories,
		},
		Values: models.DefaultValueSettings(),
		Cache:  CacheConfig{TTL: "12h", MemoryEntries: 8},
	}
}

// LoadLeagueFile reads path, or returns the defaults when path is empty
func LoadLeagueFile(path string) (*LeagueFile, error) {
	if path == "" {
		return DefaultLeagueFile(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read league config: %w", err)
	}

	var file LeagueFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse league config %s: %w", path, err)
	}
	file.applyDefaults()

	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("invalid league config %s: %w", path, err)
	}
	return &file, nil
}

func (f *LeagueFile) applyDefaults() {
	def := DefaultLeagueFile()

	if f.League.TeamCount == 0 {
		f.League.TeamCount = def.League.TeamCount
	}
	if f.League.BudgetPerTeam == 0 {
		f.League.BudgetPerTeam = def.League.BudgetPerTeam
	}
	if f.League.PositionRequirements == nil {
		f.League.PositionRequirements = def.League.PositionRequirements
	}
	if f.League.RosterSpots == 0 {
		for _, n := range f.League.PositionRequirements {
			f.League.RosterSpots += n
		}
	}

	s := &f.Scoring
	if s.Kind == "" && len(s.Hitting) == 0 && len(s.Pitching) == 0 && len(s.HitterPoints) == 0 && len(s.PitcherPoints) == 0 {
		*s = def.Scoring
	}

	v := &f.Values
	if v.Method == "" {
		v.Method = def.Values.Method
	}
	if v.ReplacementLevel == "" {
		v.ReplacementLevel = def.Values.ReplacementLevel
	}
	if v.SplitMode == "" {
		v.SplitMode = def.Values.SplitMode
	}
	if v.SplitMode == models.SplitManual && v.HitterBudgetPercent == 0 {
		v.HitterBudgetPercent = def.Values.HitterBudgetPercent
	}

	if f.Cache.TTL == "" {
		f.Cache.TTL = def.Cache.TTL
	}
	if f.Cache.MemoryEntries == 0 {
		f.Cache.MemoryEntries = def.Cache.MemoryEntries
	}
}

// ScoringFormat converts the scoring section into a format
func (s ScoringFile) ScoringFormat() (models.ScoringFormat, error) {
	switch models.ScoringKind(s.Kind) {
	case models.KindRoto, models.KindH2HCategories, "":
		kind := models.ScoringKind(s.Kind)
		if kind == "" {
			kind = models.KindRoto
		}
		return models.CategoryScoring{Format: kind, HittingCategories: s.Hitting, PitchingCategories: s.Pitching}, nil
	case models.KindH2HPoints:
		return models.PointsScoring{HitterPoints: s.HitterPoints, PitcherPoints: s.PitcherPoints}, nil
	default:
		return nil, fmt.Errorf("unknown scoring kind %q", s.Kind)
	}
}

// DraftSettings assembles the settings a room starts with
func (f *LeagueFile) DraftSettings() (models.DraftSettings, error) {
	format, err := f.Scoring.ScoringFormat()
	if err != nil {
		return models.DraftSettings{}, err
	}
	return models.DraftSettings{League: f.League, Scoring: format, Values: f.Values}, nil
}

// CacheTTL returns the parsed cache lifetime
func (f *LeagueFile) CacheTTL() (time.Duration, error) {
	return time.ParseDuration(f.Cache.TTL)
}

// Validate validates the configuration values.
func (f *LeagueFile) Validate() error {
	if err := f.League.Validate(); err != nil {
		return err
	}
	format, err := f.Scoring.ScoringFormat()
	if err != nil {
		return err
	}
	if err := models.ValidateScoring(format); err != nil {
		return err
	}

	switch f.Values.Method {
	case models.MethodZScore, models.MethodSGP, models.MethodPoints:
	default:
		return fmt.Errorf("unknown value method %q", f.Values.Method)
	}
	switch f.Values.ReplacementLevel {
	case models.ReplacementLastDrafted, models.ReplacementFirstUndrafted, models.ReplacementBlended:
	default:
		return fmt.Errorf("unknown replacement level %q", f.Values.ReplacementLevel)
	}
	switch f.Values.SplitMode {
	case models.SplitManual, models.SplitStandard, models.SplitCalculated:
	default:
		return fmt.Errorf("unknown split mode %q", f.Values.SplitMode)
	}
	if p := f.Values.HitterBudgetPercent; p < 0 || p > 100 {
		return fmt.Errorf("hitter budget percent must be between 0 and 100, got %.1f", p)
	}

	ttl, err := f.CacheTTL()
	if err != nil {
		return fmt.Errorf("invalid cache ttl: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}
	if f.Cache.MemoryEntries < 0 {
		return fmt.Errorf("cache memory entries cannot be negative, got %d", f.Cache.MemoryEntries)
	}
	return nil
}
