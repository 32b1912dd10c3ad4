// Package valuation turns player projections into auction dollar values.
//
// A run rates hitters and pitchers separately (Normalize), fills the league's
// roster slots greedily (Allocate), settles each position's replacement level
// (ResolveReplacement), measures value above replacement (CalculateVAR) and
// finally spreads the league budget over that value (ConvertToDollars).
// Everything here is pure: identical inputs give identical outputs.
package valuation

import (
	"github.com/Billy-Davies-2/auction-draft-values/internal/logger"
	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

// Result is a full valuation run
type Result struct {
	Values              []models.PlayerValue              `json:"values"`
	ReplacementLevels   []models.PositionReplacementLevel `json:"replacementLevels"`
	HitterPercent       float64                           `json:"hitterPercent"`
	ScarcityMultipliers map[string]float64                `json:"scarcityMultipliers,omitempty"`
	HitterCount         int                               `json:"hitterCount"`
	PitcherCount        int                               `json:"pitcherCount"`
}

// CalculatePlayerValues returns one PlayerValue per projection, in input order
func CalculatePlayerValues(projections []models.PlayerProjection, league models.LeagueSettings, format models.ScoringFormat, settings models.ValueCalculationSettings) []models.PlayerValue {
	return Calculate(projections, league, format, settings).Values
}

// Calculate runs the whole valuation pipeline. It never fails: empty input
// gives an empty result and a league with no teams or budget prices every
// player at $1.
func Calculate(projections []models.PlayerProjection, league models.LeagueSettings, format models.ScoringFormat, settings models.ValueCalculationSettings) Result {
	if len(projections) == 0 {
		return Result{Values: []models.PlayerValue{}, ReplacementLevels: []models.PositionReplacementLevel{}}
	}

	values := newValues(projections)
	if league.TeamCount <= 0 || league.BudgetPerTeam <= 0 || format == nil {
		logger.Debug("Degenerate league settings, pricing every player at $1",
			"teams", league.TeamCount, "budget", league.BudgetPerTeam, "hasScoring", format != nil)
		for i := range values {
			values[i].OriginalValue = 1
		}
		assignRanks(values)
		return Result{Values: values, ReplacementLevels: []models.PositionReplacementLevel{}, HitterPercent: DefaultHitterPercent}
	}

	pools := BuildPools(projections, format, settings.Method)
	alloc := Allocate(pools, league)
	ResolveReplacement(settings.ReplacementLevel, &alloc, pools)
	multipliers := CalculateVAR(&alloc, settings.ApplyPositionScarcity)
	hitterPct := ResolveHitterPercent(settings, alloc.Pool)
	dollars := ConvertToDollars(alloc.Pool, league.TotalBudget(), hitterPct)

	for i, hr := range pools.HitterRatings {
		values[i].Rating = hr
	}
	for i, pr := range pools.PitcherRatings {
		if _, hitter := pools.HitterRatings[i]; !hitter {
			values[i].Rating = pr
			values[i].IsPitcher = true
		}
	}
	for i, d := range alloc.Pool {
		v := &values[d.Index]
		v.Draftable = true
		v.AssignedPosition = d.Position
		v.IsPitcher = d.IsPitcher
		v.Rating = d.Rating
		v.VAR = d.VAR
		v.OriginalValue = dollars[i]
	}

	assignRanks(values)
	if settings.ShowTiers {
		assignValueTiers(values)
	}

	logger.Debug("Valuation complete",
		"players", len(values),
		"hitters", alloc.HitterCount,
		"pitchers", alloc.PitcherCount,
		"hitterPercent", hitterPct)

	return Result{
		Values:              values,
		ReplacementLevels:   alloc.Levels(),
		HitterPercent:       hitterPct,
		ScarcityMultipliers: multipliers,
		HitterCount:         alloc.HitterCount,
		PitcherCount:        alloc.PitcherCount,
	}
}

func newValues(projections []models.PlayerProjection) []models.PlayerValue {
	ids := models.AssignPlayerIDs(projections)
	values := make([]models.PlayerValue, len(projections))
	for i, p := range projections {
		positions := make([]string, len(p.Positions))
		for j, pos := range p.Positions {
			positions[j] = NormalizePosition(pos)
		}
		values[i] = models.PlayerValue{
			ID:        ids[i],
			Name:      p.Name,
			Team:      p.Team,
			Positions: positions,
		}
	}
	return values
}
