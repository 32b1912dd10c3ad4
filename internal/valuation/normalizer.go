package valuation

import (
	"math"
	"sort"
	"strings"

	"github.com/Billy-Davies-2/auction-draft-values/internal/logger"
	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

// PlayerType separates the hitter and pitcher rating pools
type PlayerType int

const (
	Hitter PlayerType = iota
	Pitcher
)

func (t PlayerType) String() string {
	if t == Pitcher {
		return "pitcher"
	}
	return "hitter"
}

// Rate categories and the stat used as their volume denominator
var hitterRateVolume = map[string]string{
	"AVG": "AB", "SLG": "AB", "ISO": "AB",
	"OBP": "PA", "OPS": "PA", "WOBA": "PA",
}

var pitcherRateVolume = map[string]string{
	"ERA": "IP", "WHIP": "IP", "FIP": "IP", "BAA": "IP",
	"K/9": "IP", "K9": "IP", "BB/9": "IP", "BB9": "IP", "HR/9": "IP", "K/BB": "IP",
}

var hitterLowerIsBetter = map[string]bool{
	"SO": true, "K": true, "CS": true, "GIDP": true, "E": true,
}

var pitcherLowerIsBetter = map[string]bool{
	"ERA": true, "WHIP": true, "FIP": true, "BAA": true,
	"L": true, "ER": true, "H": true, "BB": true, "HR": true,
	"HA": true, "BBA": true, "HRA": true, "BB/9": true, "BB9": true, "HR/9": true,
}

// minCategorySamples is the fewest usable values a category needs to be rated
const minCategorySamples = 2

// minVolumeRatio keeps tiny samples from being discounted to nothing
const minVolumeRatio = 0.1

type category struct {
	name          string
	weight        float64
	lowerIsBetter bool
	volumeStat    string
}

// categoriesFor lists the rated categories of format for one player type, in a fixed order
func categoriesFor(format models.ScoringFormat, t PlayerType) []category {
	rateVolume, lower := hitterRateVolume, hitterLowerIsBetter
	if t == Pitcher {
		rateVolume, lower = pitcherRateVolume, pitcherLowerIsBetter
	}

	var cats []category
	switch f := format.(type) {
	case models.CategoryScoring:
		names := f.HittingCategories
		if t == Pitcher {
			names = f.PitchingCategories
		}
		for _, n := range names {
			key := strings.ToUpper(strings.TrimSpace(n))
			cats = append(cats, category{
				name:          n,
				weight:        1,
				lowerIsBetter: lower[key],
				volumeStat:    rateVolume[key],
			})
		}
	case models.PointsScoring:
		weights := f.HitterPoints
		if t == Pitcher {
			weights = f.PitcherPoints
		}
		names := make([]string, 0, len(weights))
		for n := range weights {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			w := weights[n]
			cats = append(cats, category{
				name:          n,
				weight:        math.Abs(w),
				lowerIsBetter: w < 0,
				volumeStat:    rateVolume[strings.ToUpper(strings.TrimSpace(n))],
			})
		}
	}
	return cats
}

// statValue looks a stat up by its exact name, then upper-cased
func statValue(stats map[string]float64, name string) (float64, bool) {
	if v, ok := stats[name]; ok {
		return v, isFinite(v)
	}
	if v, ok := stats[strings.ToUpper(name)]; ok {
		return v, isFinite(v)
	}
	return 0, false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type sample struct {
	index  int
	value  float64
	volume float64
}

// Normalize rates every member projection of one player type as a
// weight-averaged z-score across the format's categories. Members missing a
// category contribute zero for it. Categories with fewer than two usable
// values or no spread are left out of the average.
func Normalize(projections []models.PlayerProjection, members []int, format models.ScoringFormat, t PlayerType) map[int]float64 {
	ratings := make(map[int]float64, len(members))
	for _, idx := range members {
		ratings[idx] = 0
	}

	totalWeight := 0.0
	for _, cat := range categoriesFor(format, t) {
		if cat.weight == 0 || !isFinite(cat.weight) {
			continue
		}

		samples := make([]sample, 0, len(members))
		for _, idx := range members {
			v, ok := statValue(projections[idx].Stats, cat.name)
			if !ok {
				continue
			}
			vol := 1.0
			if cat.volumeStat != "" {
				vol, ok = statValue(projections[idx].Stats, cat.volumeStat)
				if !ok || vol <= 0 {
					continue
				}
			}
			samples = append(samples, sample{index: idx, value: v, volume: vol})
		}
		if len(samples) < minCategorySamples {
			logger.Debug("Skipping category with too few values", "category", cat.name, "type", t.String(), "samples", len(samples))
			continue
		}

		sumVol, sumWeighted := 0.0, 0.0
		for _, s := range samples {
			sumVol += s.volume
			sumWeighted += s.value * s.volume
		}
		mean := sumWeighted / sumVol
		variance := 0.0
		for _, s := range samples {
			d := s.value - mean
			variance += s.volume * d * d
		}
		stdDev := math.Sqrt(variance / sumVol)
		if stdDev == 0 || !isFinite(stdDev) {
			logger.Debug("Skipping category with no spread", "category", cat.name, "type", t.String())
			continue
		}
		avgVol := sumVol / float64(len(samples))

		for _, s := range samples {
			z := (s.value - mean) / stdDev
			if cat.volumeStat != "" {
				z *= math.Sqrt(math.Max(minVolumeRatio, s.volume/avgVol))
			}
			if cat.lowerIsBetter {
				z = -z
			}
			ratings[s.index] += z * cat.weight
		}
		totalWeight += cat.weight
	}

	if totalWeight > 0 {
		for idx := range ratings {
			ratings[idx] /= totalWeight
		}
	}
	return ratings
}

// PointsRatings rates members by their raw projected fantasy points
func PointsRatings(projections []models.PlayerProjection, members []int, weights map[string]float64) map[int]float64 {
	names := make([]string, 0, len(weights))
	for n := range weights {
		names = append(names, n)
	}
	sort.Strings(names)

	ratings := make(map[int]float64, len(members))
	for _, idx := range members {
		total := 0.0
		for _, n := range names {
			w := weights[n]
			if !isFinite(w) {
				continue
			}
			if v, ok := statValue(projections[idx].Stats, n); ok {
				total += v * w
			}
		}
		ratings[idx] = total
	}
	return ratings
}
