package valuation

import (
	"math"
	"sort"

	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

// DefaultHitterPercent is the hitter share used when nothing better is known
const DefaultHitterPercent = 65.0

// Calculated splits are rounded to this step and kept inside these bounds
const (
	splitStep       = 5.0
	splitMinPercent = 40.0
	splitMaxPercent = 80.0
)

// tierSize is how many ranked players share one tier
const tierSize = 20

var presetSplits = map[models.SplitPreset]float64{
	models.PresetBalanced:     65,
	models.PresetHitterHeavy:  70,
	models.PresetPitcherHeavy: 60,
}

// PresetHitterPercent returns a standard preset's hitter share, balanced for unknown presets
func PresetHitterPercent(preset models.SplitPreset) float64 {
	if pct, ok := presetSplits[preset]; ok {
		return pct
	}
	return presetSplits[models.PresetBalanced]
}

// positiveVAR sums VAR > 0 for hitters and pitchers
func positiveVAR(pool []DraftablePlayer) (hitters, pitchers float64) {
	for _, d := range pool {
		if d.VAR <= 0 {
			continue
		}
		if d.IsPitcher {
			pitchers += d.VAR
		} else {
			hitters += d.VAR
		}
	}
	return hitters, pitchers
}

// calculatedSplit converts a positive-VAR ratio into a hitter percent on a
// five-point grid. ok is false when no player carries positive VAR.
func calculatedSplit(hitterVAR, pitcherVAR float64) (pct float64, ok bool) {
	total := hitterVAR + pitcherVAR
	if total <= 0 {
		return DefaultHitterPercent, false
	}
	pct = math.Round(hitterVAR/total*100/splitStep) * splitStep
	return math.Min(splitMaxPercent, math.Max(splitMinPercent, pct)), true
}

// ResolveHitterPercent picks the hitter share of distributable dollars
func ResolveHitterPercent(settings models.ValueCalculationSettings, pool []DraftablePlayer) float64 {
	switch settings.SplitMode {
	case models.SplitStandard:
		return PresetHitterPercent(settings.SplitPreset)
	case models.SplitCalculated:
		pct, _ := calculatedSplit(positiveVAR(pool))
		return pct
	default:
		pct := settings.HitterBudgetPercent
		if !isFinite(pct) {
			return DefaultHitterPercent
		}
		return math.Min(100, math.Max(0, pct))
	}
}

// ConvertToDollars prices every draftable player. One dollar per draftable
// player is reserved; the rest is split by hitterPercent and handed out in
// proportion to positive VAR. A single scale factor then reconciles the raw
// values to totalBudget before rounding. Players without positive VAR stay at
// the $1 floor and the scale factor is taken over everyone else, which is a
// factor of exactly 1 whenever both hitters and pitchers carry positive VAR.
func ConvertToDollars(pool []DraftablePlayer, totalBudget int, hitterPercent float64) []int {
	values := make([]int, len(pool))
	if len(pool) == 0 {
		return values
	}

	distributable := math.Max(0, float64(totalBudget-len(pool)))
	hitterDollars := distributable * hitterPercent / 100
	pitcherDollars := distributable - hitterDollars

	hitterVAR, pitcherVAR := positiveVAR(pool)
	hitterRate, pitcherRate := 0.0, 0.0
	if hitterVAR > 0 {
		hitterRate = hitterDollars / hitterVAR
	}
	if pitcherVAR > 0 {
		pitcherRate = pitcherDollars / pitcherVAR
	}

	raw := make([]float64, len(pool))
	floorCount := 0
	scaled := 0.0
	for i, d := range pool {
		raw[i] = 1
		if d.VAR <= 0 {
			floorCount++
			continue
		}
		rate := hitterRate
		if d.IsPitcher {
			rate = pitcherRate
		}
		raw[i] += d.VAR * rate
		scaled += raw[i]
	}

	scale := 1.0
	if scaled > 0 {
		scale = float64(totalBudget-floorCount) / scaled
	}
	for i, d := range pool {
		if d.VAR <= 0 {
			values[i] = 1
			continue
		}
		v := int(math.Round(raw[i] * scale))
		if v < 1 {
			v = 1
		}
		values[i] = v
	}
	return values
}

// assignRanks ranks draftable players by value, then everyone else by rating.
// Ties keep input order.
func assignRanks(values []models.PlayerValue) {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		va, vb := values[order[a]], values[order[b]]
		if va.Draftable != vb.Draftable {
			return va.Draftable
		}
		if va.Draftable {
			return va.OriginalValue > vb.OriginalValue
		}
		return va.Rating > vb.Rating
	})
	for rank, idx := range order {
		values[idx].Rank = rank + 1
		values[idx].Tier = rank/tierSize + 1
	}
}

// assignValueTiers buckets draftable players by their percentile among positive VARs
func assignValueTiers(values []models.PlayerValue) {
	var positive []float64
	for _, v := range values {
		if v.Draftable && v.VAR > 0 {
			positive = append(positive, v.VAR)
		}
	}
	sort.Float64s(positive)

	for i := range values {
		v := &values[i]
		if !v.Draftable {
			continue
		}
		if v.VAR <= 0 || len(positive) == 0 {
			v.ValueTier = models.ValueTierReplacement
			continue
		}
		// share of positive VARs at or below this one
		atOrBelow := sort.Search(len(positive), func(j int) bool { return positive[j] > v.VAR })
		v.ValueTier = valueTierFor(float64(atOrBelow*100) / float64(len(positive)))
	}
}

func valueTierFor(percentile float64) models.ValueTier {
	switch {
	case percentile >= 95:
		return models.ValueTierElite
	case percentile >= 85:
		return models.ValueTierStar
	case percentile >= 50:
		return models.ValueTierStarter
	case percentile >= 20:
		return models.ValueTierBench
	default:
		return models.ValueTierReplacement
	}
}
