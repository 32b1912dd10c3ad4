package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// ScoringKind identifies a league's scoring format
type ScoringKind string

const (
	KindRoto          ScoringKind = "roto"
	KindH2HCategories ScoringKind = "h2h-categories"
	KindH2HPoints     ScoringKind = "h2h-points"
)

// ScoringFormat is either CategoryScoring or PointsScoring.
// The unexported method keeps the set of variants closed to this package.
type ScoringFormat interface {
	Kind() ScoringKind
	isScoringFormat()
}

// CategoryScoring is a roto or head-to-head categories format; every category weighs 1
type CategoryScoring struct {
	Format             ScoringKind `json:"kind"`
	HittingCategories  []string    `json:"hittingCategories"`
	PitchingCategories []string    `json:"pitchingCategories"`
}

func (c CategoryScoring) Kind() ScoringKind {
	if c.Format == "" {
		return KindRoto
	}
	return c.Format
}

func (CategoryScoring) isScoringFormat() {}

// PointsScoring is a head-to-head points format with signed per-stat point values
type PointsScoring struct {
	HitterPoints  map[string]float64 `json:"hitterPoints"`
	PitcherPoints map[string]float64 `json:"pitcherPoints"`
}

func (PointsScoring) Kind() ScoringKind { return KindH2HPoints }

func (PointsScoring) isScoringFormat() {}

// StandardRoto returns the classic 5x5 rotisserie format
func StandardRoto() CategoryScoring {
	return CategoryScoring{
		Format:             KindRoto,
		HittingCategories:  []string{"R", "HR", "RBI", "SB", "AVG"},
		PitchingCategories: []string{"W", "SV", "SO", "ERA", "WHIP"},
	}
}

// ValidateScoring rejects formats with non-finite point weights or no categories at all
func ValidateScoring(format ScoringFormat) error {
	switch f := format.(type) {
	case CategoryScoring:
		if len(f.HittingCategories) == 0 && len(f.PitchingCategories) == 0 {
			return fmt.Errorf("category format has no categories")
		}
	case PointsScoring:
		for cat, w := range f.HitterPoints {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("hitter point weight for %s is not a number", cat)
			}
		}
		for cat, w := range f.PitcherPoints {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("pitcher point weight for %s is not a number", cat)
			}
		}
	case nil:
		return fmt.Errorf("scoring format is required")
	default:
		return fmt.Errorf("unknown scoring format %T", format)
	}
	return nil
}

// scoringEnvelope is the wire shape of a ScoringFormat
type scoringEnvelope struct {
	Kind               ScoringKind        `json:"kind"`
	HittingCategories  []string           `json:"hittingCategories,omitempty"`
	PitchingCategories []string           `json:"pitchingCategories,omitempty"`
	HitterPoints       map[string]float64 `json:"hitterPoints,omitempty"`
	PitcherPoints      map[string]float64 `json:"pitcherPoints,omitempty"`
}

// MarshalScoring encodes a ScoringFormat with an explicit kind discriminator
func MarshalScoring(format ScoringFormat) ([]byte, error) {
	var env scoringEnvelope
	switch f := format.(type) {
	case CategoryScoring:
		env = scoringEnvelope{Kind: f.Kind(), HittingCategories: f.HittingCategories, PitchingCategories: f.PitchingCategories}
	case PointsScoring:
		env = scoringEnvelope{Kind: KindH2HPoints, HitterPoints: f.HitterPoints, PitcherPoints: f.PitcherPoints}
	case nil:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("unknown scoring format %T", format)
	}
	return json.Marshal(env)
}

// UnmarshalScoring decodes the output of MarshalScoring
func UnmarshalScoring(data []byte) (ScoringFormat, error) {
	if string(data) == "null" || len(data) == 0 {
		return nil, nil
	}
	var env scoringEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode scoring format: %w", err)
	}
	switch env.Kind {
	case KindRoto, KindH2HCategories, "":
		kind := env.Kind
		if kind == "" {
			kind = KindRoto
		}
		return CategoryScoring{Format: kind, HittingCategories: env.HittingCategories, PitchingCategories: env.PitchingCategories}, nil
	case KindH2HPoints:
		return PointsScoring{HitterPoints: env.HitterPoints, PitcherPoints: env.PitcherPoints}, nil
	default:
		return nil, fmt.Errorf("unknown scoring kind %q", env.Kind)
	}
}

// DraftSettings bundles everything a valuation run is parameterized by
type DraftSettings struct {
	League  LeagueSettings           `json:"league"`
	Scoring ScoringFormat            `json:"-"`
	Values  ValueCalculationSettings `json:"values"`
}

type draftSettingsJSON struct {
	League  LeagueSettings           `json:"league"`
	Scoring json.RawMessage          `json:"scoring"`
	Values  ValueCalculationSettings `json:"values"`
}

func (s DraftSettings) MarshalJSON() ([]byte, error) {
	scoring, err := MarshalScoring(s.Scoring)
	if err != nil {
		return nil, err
	}
	return json.Marshal(draftSettingsJSON{League: s.League, Scoring: scoring, Values: s.Values})
}

func (s *DraftSettings) UnmarshalJSON(data []byte) error {
	var raw draftSettingsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	scoring, err := UnmarshalScoring(raw.Scoring)
	if err != nil {
		return err
	}
	s.League = raw.League
	s.Scoring = scoring
	s.Values = raw.Values
	return nil
}

// DefaultDraftSettings returns a 12-team, $260 standard roto league
func DefaultDraftSettings() DraftSettings {
	return DraftSettings{
		League:  StandardLeague(),
		Scoring: StandardRoto(),
		Values:  DefaultValueSettings(),
	}
}

// StandardLeague returns the common 12-team, $260 league with a six-man bench
func StandardLeague() LeagueSettings {
	return LeagueSettings{
		TeamCount:     12,
		BudgetPerTeam: 260,
		RosterSpots:   23,
		PositionRequirements: map[string]int{
			"C": 1, "1B": 1, "2B": 1, "3B": 1, "SS": 1,
			"OF": 3, "UTIL": 1, "SP": 5, "RP": 3, "BENCH": 6,
		},
	}
}
