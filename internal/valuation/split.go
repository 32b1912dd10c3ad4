package valuation

import (
	"fmt"

	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

// SplitRecommendation is a suggested hitter/pitcher budget split
type SplitRecommendation struct {
	HitterPercent  float64 `json:"hitterPercent"`
	PitcherPercent float64 `json:"pitcherPercent"`
	HitterVAR      float64 `json:"hitterVar"`
	PitcherVAR     float64 `json:"pitcherVar"`
	Reason         string  `json:"reason"`
}

func defaultSplit(reason string) SplitRecommendation {
	return SplitRecommendation{
		HitterPercent:  DefaultHitterPercent,
		PitcherPercent: 100 - DefaultHitterPercent,
		Reason:         reason,
	}
}

// RecommendSplit suggests a hitter budget percent from where value above
// replacement lives in this player pool, before any settings are committed.
// It runs its own z-score, allocation and last-drafted replacement pass, and
// falls back to 65/35 when the input cannot support a recommendation.
func RecommendSplit(projections []models.PlayerProjection, league models.LeagueSettings, format models.ScoringFormat) SplitRecommendation {
	if len(projections) == 0 {
		return defaultSplit("No projections loaded; using the standard 65/35 split")
	}
	if league.TeamCount <= 0 || league.BudgetPerTeam <= 0 {
		return defaultSplit("League has no teams or budget; using the standard 65/35 split")
	}
	if format == nil {
		return defaultSplit("No scoring format configured; using the standard 65/35 split")
	}

	pools := BuildPools(projections, format, models.MethodZScore)
	alloc := Allocate(pools, league)
	CalculateVAR(&alloc, false)
	hitterVAR, pitcherVAR := positiveVAR(alloc.Pool)

	pct, ok := calculatedSplit(hitterVAR, pitcherVAR)
	if !ok {
		return defaultSplit("No player projects above replacement; using the standard 65/35 split")
	}

	share := hitterVAR / (hitterVAR + pitcherVAR) * 100
	reason := fmt.Sprintf("Hitters hold %.1f%% of value above replacement", share)
	if share < splitMinPercent || share > splitMaxPercent {
		reason += fmt.Sprintf("; clamped to %.0f%%", pct)
	}
	return SplitRecommendation{
		HitterPercent:  pct,
		PitcherPercent: 100 - pct,
		HitterVAR:      hitterVAR,
		PitcherVAR:     pitcherVAR,
		Reason:         reason,
	}
}
