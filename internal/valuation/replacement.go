package valuation

import (
	"sort"

	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

// blendDepth is how many players on each side of the draft line a blended level averages
const blendDepth = 2

// ResolveReplacement rewrites each position marker according to policy.
// lastDrafted, or an unknown policy, leaves the allocation markers untouched.
func ResolveReplacement(policy models.ReplacementPolicy, alloc *Allocation, p Pools) {
	switch policy {
	case models.ReplacementFirstUndrafted:
		for _, pos := range alloc.Order {
			undrafted := p.eligible(pos, alloc.assigned)
			if len(undrafted) == 0 {
				continue
			}
			m := alloc.Markers[pos]
			m.Rating = undrafted[0].rating
			m.PlayerName = p.Projections[undrafted[0].index].Name
		}
	case models.ReplacementBlended:
		for _, pos := range alloc.Order {
			blendMarker(alloc, p, pos)
		}
	}
}

func blendMarker(alloc *Allocation, p Pools, pos string) {
	var drafted []float64
	for _, d := range alloc.Pool {
		if d.Position == pos {
			drafted = append(drafted, d.Rating)
		}
	}
	sort.Float64s(drafted)
	if len(drafted) > blendDepth {
		drafted = drafted[:blendDepth]
	}

	undrafted := p.eligible(pos, alloc.assigned)
	if len(undrafted) > blendDepth {
		undrafted = undrafted[:blendDepth]
	}

	n := len(drafted) + len(undrafted)
	if n == 0 {
		return
	}
	sum := 0.0
	for _, r := range drafted {
		sum += r
	}
	for _, c := range undrafted {
		sum += c.rating
	}
	alloc.Markers[pos].Rating = sum / float64(n)
}
