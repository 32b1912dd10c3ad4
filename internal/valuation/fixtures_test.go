package valuation

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

func player(name, positions string, stats map[string]float64) models.PlayerProjection {
	return models.PlayerProjection{Name: name, Team: "TST", Positions: strings.Split(positions, ","), Stats: stats}
}

// pools builds a Pools with ratings given directly, hitters first then pitchers
func pools(hitters []ratedPlayer, pitchers []ratedPlayer) Pools {
	p := Pools{
		HitterRatings:  map[int]float64{},
		PitcherRatings: map[int]float64{},
	}
	for _, h := range hitters {
		idx := len(p.Projections)
		p.Projections = append(p.Projections, models.PlayerProjection{Name: h.name, Positions: strings.Split(h.positions, ",")})
		p.Hitters = append(p.Hitters, idx)
		p.HitterRatings[idx] = h.rating
	}
	for _, pp := range pitchers {
		idx := len(p.Projections)
		p.Projections = append(p.Projections, models.PlayerProjection{Name: pp.name, Positions: strings.Split(pp.positions, ",")})
		p.Pitchers = append(p.Pitchers, idx)
		p.PitcherRatings[idx] = pp.rating
	}
	return p
}

type ratedPlayer struct {
	name      string
	positions string
	rating    float64
}

func league(teams int, reqs map[string]int) models.LeagueSettings {
	spots := 0
	for _, n := range reqs {
		spots += n
	}
	return models.LeagueSettings{
		TeamCount:            teams,
		BudgetPerTeam:        260,
		RosterSpots:          spots,
		PositionRequirements: reqs,
	}
}

var hitterSlots = []string{"C", "1B", "2B", "3B", "SS", "OF", "OF", "OF", "2B,SS", "1B,3B", "C,1B", "OF,1B"}

// syntheticPool returns a reproducible population of hitters and pitchers
// with roughly realistic roto projections
func syntheticPool(hitters, pitchers int) []models.PlayerProjection {
	r := rand.New(rand.NewSource(42))
	out := make([]models.PlayerProjection, 0, hitters+pitchers)
	for i := 0; i < hitters; i++ {
		skill := r.NormFloat64()
		ab := math.Round(350 + 200*r.Float64())
		out = append(out, player(fmt.Sprintf("Hitter %03d", i), hitterSlots[i%len(hitterSlots)], map[string]float64{
			"AB":  ab,
			"R":   math.Round(ab * (0.13 + 0.02*skill + 0.01*r.NormFloat64())),
			"HR":  math.Max(0, math.Round(ab*(0.035+0.012*skill+0.008*r.NormFloat64()))),
			"RBI": math.Round(ab * (0.13 + 0.025*skill + 0.01*r.NormFloat64())),
			"SB":  math.Max(0, math.Round(8+6*r.NormFloat64())),
			"AVG": 0.255 + 0.018*skill + 0.01*r.NormFloat64(),
		}))
	}
	for i := 0; i < pitchers; i++ {
		skill := r.NormFloat64()
		if i%5 < 3 {
			ip := math.Round(120 + 70*r.Float64())
			out = append(out, player(fmt.Sprintf("Starter %03d", i), "SP", map[string]float64{
				"IP":   ip,
				"W":    math.Round(ip/18 + 2*skill),
				"SV":   0,
				"SO":   math.Round(ip * (0.95 + 0.12*skill)),
				"ERA":  4.1 - 0.45*skill + 0.2*r.NormFloat64(),
				"WHIP": 1.28 - 0.09*skill + 0.04*r.NormFloat64(),
			}))
			continue
		}
		ip := math.Round(50 + 25*r.Float64())
		out = append(out, player(fmt.Sprintf("Reliever %03d", i), "RP", map[string]float64{
			"IP":   ip,
			"W":    math.Round(3 + r.Float64()*3),
			"SV":   math.Max(0, math.Round(12+12*skill)),
			"SO":   math.Round(ip * (1.05 + 0.15*skill)),
			"ERA":  3.8 - 0.5*skill + 0.25*r.NormFloat64(),
			"WHIP": 1.22 - 0.1*skill + 0.05*r.NormFloat64(),
		}))
	}
	return out
}
