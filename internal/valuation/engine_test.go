package valuation

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

func manualSettings() models.ValueCalculationSettings {
	s := models.DefaultValueSettings()
	s.SplitMode = models.SplitManual
	s.HitterBudgetPercent = 65
	return s
}

func TestCalculateEmpty(t *testing.T) {
	res := Calculate(nil, models.StandardLeague(), models.StandardRoto(), manualSettings())

	if res.Values == nil || len(res.Values) != 0 {
		t.Errorf("values = %v, want empty non-nil slice", res.Values)
	}
}

func TestCalculateDegenerateLeague(t *testing.T) {
	projections := syntheticPool(20, 10)

	tests := []struct {
		name   string
		league models.LeagueSettings
		format models.ScoringFormat
	}{
		{"no teams", models.LeagueSettings{TeamCount: 0, BudgetPerTeam: 260}, models.StandardRoto()},
		{"no budget", models.LeagueSettings{TeamCount: 12, BudgetPerTeam: 0}, models.StandardRoto()},
		{"no scoring", models.StandardLeague(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Calculate(projections, tt.league, tt.format, manualSettings())
			if len(res.Values) != len(projections) {
				t.Fatalf("values = %d, want %d", len(res.Values), len(projections))
			}
			for _, v := range res.Values {
				if v.OriginalValue != 1 {
					t.Errorf("%s value = %d, want 1", v.Name, v.OriginalValue)
				}
				if v.Rank == 0 {
					t.Errorf("%s has no rank", v.Name)
				}
			}
		})
	}
}

func TestCalculateTwelveTeamLeague(t *testing.T) {
	lg := models.StandardLeague()
	projections := syntheticPool(600, 300)

	res := Calculate(projections, lg, models.StandardRoto(), manualSettings())

	if len(res.Values) != len(projections) {
		t.Fatalf("values = %d, want %d", len(res.Values), len(projections))
	}

	total, draftable := 0, 0
	counts := map[string]int{}
	var first models.PlayerValue
	for _, v := range res.Values {
		if v.Rank == 1 {
			first = v
		}
		if !v.Draftable {
			if v.OriginalValue != 0 {
				t.Errorf("undraftable %s priced at %d", v.Name, v.OriginalValue)
			}
			continue
		}
		draftable++
		total += v.OriginalValue
		counts[v.AssignedPosition]++

		if v.VAR < 0 {
			t.Errorf("%s has negative VAR %f", v.Name, v.VAR)
		}
		if v.OriginalValue < 1 {
			t.Errorf("%s priced below $1", v.Name)
		}
		if v.Rating < VARFloorRating && (v.VAR != 0 || v.OriginalValue != 1) {
			t.Errorf("%s rated %f should sit at VAR 0 and $1, got %f and %d", v.Name, v.Rating, v.VAR, v.OriginalValue)
		}
	}

	if draftable != 276 {
		t.Errorf("draftable = %d, want 276", draftable)
	}
	budget := lg.TotalBudget()
	if diff := total - budget; diff < -draftable || diff > draftable {
		t.Errorf("sum of values = %d, want %d within %d", total, budget, draftable)
	}

	for pos, n := range lg.PositionRequirements {
		if counts[pos] > lg.TeamCount*n {
			t.Errorf("%s filled %d, capacity %d", pos, counts[pos], lg.TeamCount*n)
		}
	}

	for _, v := range res.Values {
		if !v.Draftable {
			continue
		}
		if v.OriginalValue > first.OriginalValue {
			t.Errorf("%s worth %d outranks rank 1 %s at %d", v.Name, v.OriginalValue, first.Name, first.OriginalValue)
		}
		if v.IsPitcher == first.IsPitcher && v.VAR > first.VAR && v.OriginalValue != first.OriginalValue {
			t.Errorf("%s has more VAR than rank 1 %s", v.Name, first.Name)
		}
	}
	if res.HitterCount+res.PitcherCount != draftable {
		t.Errorf("hitter+pitcher count = %d, want %d", res.HitterCount+res.PitcherCount, draftable)
	}
}

func TestCalculateTwelveTeamHitterPool(t *testing.T) {
	lg := models.StandardLeague()
	projections := syntheticPool(600, 0)

	res := Calculate(projections, lg, models.StandardRoto(), manualSettings())

	total, draftable := 0, 0
	var first, best models.PlayerValue
	for _, v := range res.Values {
		if v.Rank == 1 {
			first = v
		}
		if !v.Draftable {
			continue
		}
		draftable++
		total += v.OriginalValue
		if v.VAR > best.VAR {
			best = v
		}
	}

	if draftable == 0 {
		t.Fatal("no draftable players")
	}
	if diff := total - lg.TotalBudget(); diff < -draftable || diff > draftable {
		t.Errorf("sum of values = %d, want %d within %d", total, lg.TotalBudget(), draftable)
	}
	if first.ID != best.ID {
		t.Errorf("rank 1 is %s (VAR %f), highest VAR is %s (VAR %f)", first.Name, first.VAR, best.Name, best.VAR)
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	projections := syntheticPool(200, 100)
	settings := manualSettings()
	settings.ApplyPositionScarcity = true
	settings.ShowTiers = true
	settings.ReplacementLevel = models.ReplacementBlended

	first, err := json.Marshal(Calculate(projections, models.StandardLeague(), models.StandardRoto(), settings))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(Calculate(projections, models.StandardLeague(), models.StandardRoto(), settings))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two runs over the same input differ")
	}
}

func TestCalculateFloorsHopelessStarter(t *testing.T) {
	projections := []models.PlayerProjection{
		player("Good Catcher", "C", map[string]float64{"HR": 20}),
		player("Hopeless Catcher", "C", map[string]float64{"HR": 0}),
	}
	for i := 0; i < 10; i++ {
		projections = append(projections, player("Outfielder", "OF", map[string]float64{"HR": 20}))
	}

	res := Calculate(projections, league(1, map[string]int{"C": 2}), hittingFormat("HR"), manualSettings())

	hopeless := res.Values[1]
	if !hopeless.Draftable {
		t.Fatal("hopeless catcher must still fill the second C slot")
	}
	if hopeless.Rating >= VARFloorRating {
		t.Fatalf("fixture rating = %f, want below %f", hopeless.Rating, VARFloorRating)
	}
	if hopeless.VAR != 0 || hopeless.OriginalValue != 1 {
		t.Errorf("hopeless catcher VAR %f value %d, want 0 and 1", hopeless.VAR, hopeless.OriginalValue)
	}
	if got := res.Values[0].OriginalValue; got != 259 {
		t.Errorf("good catcher value = %d, want 259", got)
	}
}

func scarcityFixture() []models.PlayerProjection {
	var out []models.PlayerProjection
	add := func(pos string, stat string, values ...float64) {
		for i, v := range values {
			out = append(out, player(pos+string(rune('A'+i)), pos, map[string]float64{stat: v}))
		}
	}
	add("C", "HR", 40, 10, 9, 8)
	add("1B", "HR", 22, 21, 20, 19)
	add("OF", "HR", 21, 20, 19, 18)
	add("SP", "SO", 200, 190, 180)
	add("RP", "SO", 80, 75, 70)
	return out
}

func TestCalculateScarcityRaisesSteepPosition(t *testing.T) {
	projections := scarcityFixture()
	lg := league(2, map[string]int{"C": 1, "1B": 1, "OF": 1, "SP": 1, "RP": 1})
	format := models.CategoryScoring{HittingCategories: []string{"HR"}, PitchingCategories: []string{"SO"}}

	flat := Calculate(projections, lg, format, manualSettings())
	scarce := manualSettings()
	scarce.ApplyPositionScarcity = true
	steep := Calculate(projections, lg, format, scarce)

	if m := steep.ScarcityMultipliers["C"]; m <= 1 {
		t.Errorf("C multiplier = %f, want above 1", m)
	}
	if flat.ScarcityMultipliers != nil {
		t.Errorf("multipliers without scarcity = %v, want nil", flat.ScarcityMultipliers)
	}

	top := 0 // CA, the 40 homer catcher
	if steep.Values[top].OriginalValue <= flat.Values[top].OriginalValue {
		t.Errorf("top catcher value with scarcity = %d, without = %d; want higher", steep.Values[top].OriginalValue, flat.Values[top].OriginalValue)
	}
}

func TestCalculateAssignsStableIDs(t *testing.T) {
	projections := []models.PlayerProjection{
		player("Same Name", "OF", map[string]float64{"HR": 10}),
		player("Same Name", "OF", map[string]float64{"HR": 20}),
	}

	a := Calculate(projections, league(1, map[string]int{"OF": 1}), hittingFormat("HR"), manualSettings())
	b := Calculate(projections, league(1, map[string]int{"OF": 1}), hittingFormat("HR"), manualSettings())

	if a.Values[0].ID == a.Values[1].ID {
		t.Error("duplicate names must still get distinct ids")
	}
	if a.Values[0].ID != b.Values[0].ID || a.Values[1].ID != b.Values[1].ID {
		t.Error("ids should not change between runs")
	}
}
