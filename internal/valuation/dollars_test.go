package valuation

import (
	"math"
	"reflect"
	"testing"

	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func TestConvertToDollarsReconcilesBudget(t *testing.T) {
	pool := []DraftablePlayer{
		{VAR: 3}, {VAR: 2}, {VAR: 1}, {VAR: 0},
		{VAR: 2, IsPitcher: true}, {VAR: 1, IsPitcher: true},
	}

	got := ConvertToDollars(pool, 100, 65)

	want := []int{32, 21, 11, 1, 23, 12}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dollars = %v, want %v", got, want)
	}
	if sum(got) != 100 {
		t.Errorf("total = %d, want 100", sum(got))
	}
}

func TestConvertToDollarsSingleTypeScalesUp(t *testing.T) {
	pool := []DraftablePlayer{{VAR: 3}, {VAR: 1}, {VAR: 0}}

	got := ConvertToDollars(pool, 20, 65)

	want := []int{14, 5, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dollars = %v, want %v", got, want)
	}
}

func TestConvertToDollarsFloorsAtOne(t *testing.T) {
	pool := []DraftablePlayer{{VAR: 5}, {VAR: 4}, {VAR: 3}, {VAR: 2}, {VAR: 1, IsPitcher: true}}

	got := ConvertToDollars(pool, 3, 65)

	for i, v := range got {
		if v != 1 {
			t.Errorf("dollars[%d] = %d, want 1 with no distributable budget", i, v)
		}
	}
}

func TestConvertToDollarsEmpty(t *testing.T) {
	if got := ConvertToDollars(nil, 3120, 65); len(got) != 0 {
		t.Errorf("dollars = %v, want empty", got)
	}
}

func TestCalculatedSplit(t *testing.T) {
	tests := []struct {
		hitter, pitcher float64
		want            float64
		ok              bool
	}{
		{65, 35, 65, true},
		{62.4, 37.6, 60, true},
		{63, 37, 65, true},
		{90, 10, 80, true},
		{10, 90, 40, true},
		{0, 0, DefaultHitterPercent, false},
	}

	for _, tt := range tests {
		got, ok := calculatedSplit(tt.hitter, tt.pitcher)
		if got != tt.want || ok != tt.ok {
			t.Errorf("calculatedSplit(%v, %v) = %v, %v; want %v, %v", tt.hitter, tt.pitcher, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolveHitterPercent(t *testing.T) {
	pool := []DraftablePlayer{{VAR: 7}, {VAR: 3, IsPitcher: true}}

	tests := []struct {
		name     string
		settings models.ValueCalculationSettings
		want     float64
	}{
		{"manual", models.ValueCalculationSettings{SplitMode: models.SplitManual, HitterBudgetPercent: 72}, 72},
		{"manual clamped", models.ValueCalculationSettings{SplitMode: models.SplitManual, HitterBudgetPercent: 150}, 100},
		{"manual NaN", models.ValueCalculationSettings{SplitMode: models.SplitManual, HitterBudgetPercent: math.NaN()}, DefaultHitterPercent},
		{"standard pitcher heavy", models.ValueCalculationSettings{SplitMode: models.SplitStandard, SplitPreset: models.PresetPitcherHeavy}, 60},
		{"standard hitter heavy", models.ValueCalculationSettings{SplitMode: models.SplitStandard, SplitPreset: models.PresetHitterHeavy}, 70},
		{"standard unknown preset", models.ValueCalculationSettings{SplitMode: models.SplitStandard, SplitPreset: "wild"}, 65},
		{"calculated", models.ValueCalculationSettings{SplitMode: models.SplitCalculated}, 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveHitterPercent(tt.settings, pool); got != tt.want {
				t.Errorf("ResolveHitterPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssignRanks(t *testing.T) {
	values := []models.PlayerValue{
		{Name: "ten", Draftable: true, OriginalValue: 10},
		{Name: "prospect", Rating: 0.5},
		{Name: "thirty", Draftable: true, OriginalValue: 30},
		{Name: "sleeper", Rating: 1.5},
		{Name: "twenty", Draftable: true, OriginalValue: 20},
	}

	assignRanks(values)

	want := map[string]int{"thirty": 1, "twenty": 2, "ten": 3, "sleeper": 4, "prospect": 5}
	for _, v := range values {
		if v.Rank != want[v.Name] {
			t.Errorf("%s rank = %d, want %d", v.Name, v.Rank, want[v.Name])
		}
		if v.Tier != 1 {
			t.Errorf("%s tier = %d, want 1", v.Name, v.Tier)
		}
	}
}

func TestAssignRanksTiersEveryTwenty(t *testing.T) {
	values := make([]models.PlayerValue, 45)
	for i := range values {
		values[i] = models.PlayerValue{Draftable: true, OriginalValue: 100 - i}
	}

	assignRanks(values)

	if values[19].Tier != 1 || values[20].Tier != 2 || values[44].Tier != 3 {
		t.Errorf("tiers = %d, %d, %d; want 1, 2, 3", values[19].Tier, values[20].Tier, values[44].Tier)
	}
}

func TestAssignValueTiers(t *testing.T) {
	values := make([]models.PlayerValue, 0, 22)
	for i := 1; i <= 20; i++ {
		values = append(values, models.PlayerValue{Draftable: true, VAR: float64(i)})
	}
	values = append(values,
		models.PlayerValue{Draftable: true, VAR: 0},
		models.PlayerValue{Draftable: false, VAR: 0},
	)

	assignValueTiers(values)

	counts := map[models.ValueTier]int{}
	for _, v := range values {
		counts[v.ValueTier]++
	}
	want := map[models.ValueTier]int{
		models.ValueTierElite:       2,
		models.ValueTierStar:        2,
		models.ValueTierStarter:     7,
		models.ValueTierBench:       6,
		models.ValueTierReplacement: 4,
		"":                          1,
	}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("tier counts = %v, want %v", counts, want)
	}
	if values[19].ValueTier != models.ValueTierElite {
		t.Errorf("best player tier = %q, want elite", values[19].ValueTier)
	}
}

func TestPresetHitterPercent(t *testing.T) {
	if got := PresetHitterPercent(models.PresetBalanced); got != 65 {
		t.Errorf("balanced = %v, want 65", got)
	}
}
