package valuation

import (
	"sort"

	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

// Bench slots go 60% to hitters (rounded up) and the rest to pitchers
const benchHitterTenths = 6

// Pools holds the rated hitter and pitcher populations of one valuation run.
// Members are projection indices in input order; a two-way player appears in both.
type Pools struct {
	Projections    []models.PlayerProjection
	Hitters        []int
	Pitchers       []int
	HitterRatings  map[int]float64
	PitcherRatings map[int]float64
}

// BuildPools splits projections by player type and rates each side
func BuildPools(projections []models.PlayerProjection, format models.ScoringFormat, method models.ValueMethod) Pools {
	p := Pools{Projections: projections}
	for i, proj := range projections {
		if isHitter(proj.Positions) {
			p.Hitters = append(p.Hitters, i)
		}
		if isPitcher(proj.Positions) {
			p.Pitchers = append(p.Pitchers, i)
		}
	}

	if pts, ok := format.(models.PointsScoring); ok && method == models.MethodPoints {
		p.HitterRatings = PointsRatings(projections, p.Hitters, pts.HitterPoints)
		p.PitcherRatings = PointsRatings(projections, p.Pitchers, pts.PitcherPoints)
		return p
	}
	p.HitterRatings = Normalize(projections, p.Hitters, format, Hitter)
	p.PitcherRatings = Normalize(projections, p.Pitchers, format, Pitcher)
	return p
}

type candidate struct {
	index  int
	rating float64
}

// eligible returns the players who can fill slot and are not excluded,
// best rating first with ties kept in input order
func (p Pools) eligible(slot string, exclude map[int]bool) []candidate {
	members, ratings := p.Hitters, p.HitterRatings
	if IsPitcherSlot(slot) {
		members, ratings = p.Pitchers, p.PitcherRatings
	}

	out := make([]candidate, 0, len(members))
	for _, idx := range members {
		if exclude[idx] {
			continue
		}
		if !EligibleFor(slot, p.Projections[idx].Positions) {
			continue
		}
		out = append(out, candidate{index: idx, rating: ratings[idx]})
	}
	sortCandidates(out)
	return out
}

func (p Pools) benchCandidates(pitchers bool, exclude map[int]bool) []candidate {
	members, ratings := p.Hitters, p.HitterRatings
	if pitchers {
		members, ratings = p.Pitchers, p.PitcherRatings
	}
	out := make([]candidate, 0, len(members))
	for _, idx := range members {
		if exclude[idx] {
			continue
		}
		out = append(out, candidate{index: idx, rating: ratings[idx]})
	}
	sortCandidates(out)
	return out
}

func sortCandidates(c []candidate) {
	sort.SliceStable(c, func(i, j int) bool {
		return c[i].rating > c[j].rating
	})
}

// DraftablePlayer is a projection that fills a roster slot in this run
type DraftablePlayer struct {
	Index     int
	Position  string
	IsPitcher bool
	Rating    float64
	VAR       float64
}

// Marker is a position's replacement level plus the rating of its best assignee
type Marker struct {
	models.PositionReplacementLevel
	TopRating float64
	IsPitcher bool
}

// Allocation is the outcome of filling every roster slot
type Allocation struct {
	Pool         []DraftablePlayer
	Markers      map[string]*Marker
	Order        []string
	HitterCount  int
	PitcherCount int
	assigned     map[int]bool
}

// IsDraftable reports whether projection idx landed in the draftable pool
func (a *Allocation) IsDraftable(idx int) bool {
	return a.assigned[idx]
}

// Levels returns the replacement markers in processing order
func (a *Allocation) Levels() []models.PositionReplacementLevel {
	out := make([]models.PositionReplacementLevel, 0, len(a.Order))
	for _, pos := range a.Order {
		out = append(out, a.Markers[pos].PositionReplacementLevel)
	}
	return out
}

// Allocate greedily fills league slots in PositionOrder, best rating first.
// Each position's lowest assignee becomes its initial (last drafted) replacement marker.
func Allocate(p Pools, league models.LeagueSettings) Allocation {
	reqs := normalizeRequirements(league.PositionRequirements)
	alloc := Allocation{
		Markers:  make(map[string]*Marker),
		assigned: make(map[int]bool),
	}

	for _, slot := range PositionOrder {
		required := league.TeamCount * reqs[slot]
		if required <= 0 {
			continue
		}
		if slot == PosBENCH {
			alloc.fillBench(p, required)
			continue
		}

		pitcherSlot := IsPitcherSlot(slot)
		candidates := p.eligible(slot, alloc.assigned)
		n := required
		if n > len(candidates) {
			n = len(candidates)
		}
		if n == 0 {
			continue
		}

		for _, c := range candidates[:n] {
			alloc.take(c, slot, pitcherSlot)
		}
		last := candidates[n-1]
		alloc.Markers[slot] = &Marker{
			PositionReplacementLevel: models.PositionReplacementLevel{
				Position:   slot,
				Rating:     last.rating,
				PlayerName: p.Projections[last.index].Name,
				Count:      n,
			},
			TopRating: candidates[0].rating,
			IsPitcher: pitcherSlot,
		}
		alloc.Order = append(alloc.Order, slot)
	}
	return alloc
}

func (a *Allocation) take(c candidate, slot string, pitcher bool) {
	a.assigned[c.index] = true
	a.Pool = append(a.Pool, DraftablePlayer{
		Index:     c.index,
		Position:  slot,
		IsPitcher: pitcher,
		Rating:    c.rating,
	})
	if pitcher {
		a.PitcherCount++
	} else {
		a.HitterCount++
	}
}

// fillBench splits bench slots 60/40 between the best remaining hitters and pitchers
func (a *Allocation) fillBench(p Pools, slots int) {
	hitterSlots := (slots*benchHitterTenths + 9) / 10
	pitcherSlots := slots - hitterSlots

	hitters := p.benchCandidates(false, a.assigned)
	for i := 0; i < hitterSlots && i < len(hitters); i++ {
		a.take(hitters[i], PosBENCH, false)
	}
	pitchers := p.benchCandidates(true, a.assigned)
	for i := 0; i < pitcherSlots && i < len(pitchers); i++ {
		a.take(pitchers[i], PosBENCH, true)
	}
}
