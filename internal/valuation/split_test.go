package valuation

import (
	"math"
	"strings"
	"testing"

	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

func TestRecommendSplitFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		projections []models.PlayerProjection
		league      models.LeagueSettings
		format      models.ScoringFormat
	}{
		{"no projections", nil, models.StandardLeague(), models.StandardRoto()},
		{"no teams", syntheticPool(10, 10), models.LeagueSettings{BudgetPerTeam: 260}, models.StandardRoto()},
		{"no scoring", syntheticPool(10, 10), models.StandardLeague(), nil},
		{"nobody above replacement", []models.PlayerProjection{
			player("A", "C", map[string]float64{"HR": 10}),
			player("B", "C", map[string]float64{"HR": 10}),
		}, league(1, map[string]int{"C": 2}), hittingFormat("HR")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := RecommendSplit(tt.projections, tt.league, tt.format)
			if rec.HitterPercent != 65 || rec.PitcherPercent != 35 {
				t.Errorf("split = %v/%v, want 65/35", rec.HitterPercent, rec.PitcherPercent)
			}
			if rec.Reason == "" {
				t.Error("fallback should explain itself")
			}
		})
	}
}

func TestRecommendSplitFromPool(t *testing.T) {
	rec := RecommendSplit(syntheticPool(600, 300), models.StandardLeague(), models.StandardRoto())

	if rec.HitterPercent < 40 || rec.HitterPercent > 80 {
		t.Errorf("hitter percent %v outside [40, 80]", rec.HitterPercent)
	}
	if math.Mod(rec.HitterPercent, 5) != 0 {
		t.Errorf("hitter percent %v is not a multiple of 5", rec.HitterPercent)
	}
	if rec.HitterPercent+rec.PitcherPercent != 100 {
		t.Errorf("split %v/%v does not add to 100", rec.HitterPercent, rec.PitcherPercent)
	}
	if rec.HitterVAR <= 0 || rec.PitcherVAR <= 0 {
		t.Errorf("VAR totals = %v/%v, want both positive", rec.HitterVAR, rec.PitcherVAR)
	}
	if !strings.HasPrefix(rec.Reason, "Hitters hold") {
		t.Errorf("reason = %q", rec.Reason)
	}
}

func TestRecommendSplitClamps(t *testing.T) {
	projections := []models.PlayerProjection{
		player("Star", "C", map[string]float64{"HR": 30}),
		player("Backup", "C", map[string]float64{"HR": 10}),
	}

	rec := RecommendSplit(projections, league(1, map[string]int{"C": 2}), hittingFormat("HR"))

	if rec.HitterPercent != 80 {
		t.Errorf("hitter percent = %v, want clamp at 80", rec.HitterPercent)
	}
	if !strings.Contains(rec.Reason, "clamped to 80%") {
		t.Errorf("reason = %q, want the clamp mentioned", rec.Reason)
	}
}
