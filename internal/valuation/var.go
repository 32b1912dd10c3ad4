package valuation

import "math"

// VARFloorRating is the rating below which a player earns no value above
// replacement, whatever his position's replacement level
const VARFloorRating = -1.5

// Scarcity multiplier bounds
const (
	scarcityBase  = 0.85
	scarcitySlope = 0.3
	scarcityMin   = 0.85
	scarcityMax   = 1.4
)

// CalculateVAR fills in VAR for every draftable player. Players at positions
// without a marker (the bench) are measured against the average replacement
// rating of their type. With applyScarcity, each position's VAR is scaled by
// how steep its drop-off is relative to the average position; the applied
// multipliers are returned by position.
func CalculateVAR(alloc *Allocation, applyScarcity bool) map[string]float64 {
	hitterFallback, pitcherFallback := averageReplacement(alloc)

	for i := range alloc.Pool {
		d := &alloc.Pool[i]
		if d.Rating < VARFloorRating {
			d.VAR = 0
			continue
		}
		replacement := hitterFallback
		if d.IsPitcher {
			replacement = pitcherFallback
		}
		if m, ok := alloc.Markers[d.Position]; ok {
			replacement = m.Rating
		}
		d.VAR = math.Max(0, d.Rating-replacement)
	}

	if !applyScarcity {
		return nil
	}
	multipliers := scarcityMultipliers(alloc)
	for i := range alloc.Pool {
		if mult, ok := multipliers[alloc.Pool[i].Position]; ok {
			alloc.Pool[i].VAR *= mult
		}
	}
	return multipliers
}

func averageReplacement(alloc *Allocation) (hitter, pitcher float64) {
	var hSum, pSum float64
	var hN, pN int
	for _, pos := range alloc.Order {
		m := alloc.Markers[pos]
		if m.IsPitcher {
			pSum += m.Rating
			pN++
		} else {
			hSum += m.Rating
			hN++
		}
	}
	if hN > 0 {
		hitter = hSum / float64(hN)
	}
	if pN > 0 {
		pitcher = pSum / float64(pN)
	}
	return hitter, pitcher
}

func scarcityMultipliers(alloc *Allocation) map[string]float64 {
	if len(alloc.Order) == 0 {
		return nil
	}
	dropOffs := make(map[string]float64, len(alloc.Order))
	total := 0.0
	for _, pos := range alloc.Order {
		m := alloc.Markers[pos]
		drop := m.TopRating - m.Rating
		dropOffs[pos] = drop
		total += drop
	}
	avg := total / float64(len(alloc.Order))
	if avg <= 0 {
		return nil
	}

	out := make(map[string]float64, len(dropOffs))
	for pos, drop := range dropOffs {
		mult := scarcityBase + scarcitySlope*(drop/avg)
		out[pos] = math.Min(scarcityMax, math.Max(scarcityMin, mult))
	}
	return out
}
