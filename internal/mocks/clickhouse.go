package mocks

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/Billy-Davies-2/auction-draft-values/internal/logger"
	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

// MockProjectionSource stands in for the ClickHouse projection warehouse
// during local development. It generates a deterministic pool deep enough
// for a standard 12-team league.
type MockProjectionSource struct {
	Hitters  int
	Pitchers int
	Seed     int64
	// Err, when set, is returned by FetchProjections
	Err error
}

// NewMockProjectionSource creates a mock source with 240 hitters and 170 pitchers
func NewMockProjectionSource() *MockProjectionSource {
	logger.Info("Using MOCK projection source for local development")
	return &MockProjectionSource{Hitters: 240, Pitchers: 170, Seed: 2025}
}

func (m *MockProjectionSource) Name() string {
	return "mock"
}

// FetchProjections returns the generated pool; the same seed yields the same pool
func (m *MockProjectionSource) FetchProjections(ctx context.Context) ([]models.PlayerProjection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}

	rng := rand.New(rand.NewSource(m.Seed))
	out := make([]models.PlayerProjection, 0, m.Hitters+m.Pitchers)
	for i := 0; i < m.Hitters; i++ {
		out = append(out, mockHitter(rng, i, m.Hitters))
	}
	for i := 0; i < m.Pitchers; i++ {
		out = append(out, mockPitcher(rng, i, m.Pitchers, m.Hitters+i))
	}
	logger.Debug("Mock projection source generated pool", "hitters", m.Hitters, "pitchers", m.Pitchers)
	return out, nil
}

var (
	firstNames = []string{
		"Aaron", "Bo", "Cody", "Dante", "Eli", "Felix", "Gus", "Hank", "Ivan", "Jace",
		"Kai", "Luis", "Milo", "Nate", "Owen", "Pete", "Quinn", "Rafa", "Sal", "Theo",
	}
	lastNames = []string{
		"Abreu", "Bishop", "Castro", "Delgado", "Ellis", "Flores", "Garver", "Hayes", "Iglesias", "Jansen",
		"Kepler", "Lowe", "Moreno", "Nunez", "Olson", "Pena", "Quintana", "Rojas", "Santos", "Torres",
		"Urias", "Vargas", "Walker",
	}
	teams = []string{
		"ARI", "ATL", "BAL", "BOS", "CHC", "CWS", "CIN", "CLE", "COL", "DET",
		"HOU", "KC", "LAA", "LAD", "MIA", "MIL", "MIN", "NYM", "NYY", "OAK",
		"PHI", "PIT", "SD", "SEA", "SF", "STL", "TB", "TEX", "TOR", "WSH",
	}
	hitterPositions = [][]string{
		{"C"}, {"1B"}, {"2B"}, {"3B"}, {"SS"}, {"OF"}, {"OF"}, {"OF"},
		{"2B", "SS"}, {"1B", "OF"}, {"3B", "1B"}, {"OF"}, {"C", "1B"}, {"SS"},
	}
)

// mockName is unique for the first len(firstNames)*len(lastNames) players
func mockName(i int) string {
	return firstNames[i%len(firstNames)] + " " + lastNames[(i/len(firstNames))%len(lastNames)]
}

// quality falls from 1 for the best player toward 0 for the last
func quality(i, n int) float64 {
	if n <= 1 {
		return 1
	}
	return 1 - float64(i)/float64(n-1)
}

// jitter varies a base value by up to ±10%
func jitter(rng *rand.Rand, v float64) float64 {
	return v * (0.9 + 0.2*rng.Float64())
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func mockHitter(rng *rand.Rand, i, n int) models.PlayerProjection {
	q := quality(i, n)
	positions := hitterPositions[i%len(hitterPositions)]
	if positions[0] == "C" {
		q *= 0.8
	}
	speed := 4.0
	switch positions[0] {
	case "2B", "SS", "OF":
		speed = 18
	}

	return models.PlayerProjection{
		Name:      mockName(i),
		Team:      teams[i%len(teams)],
		Positions: positions,
		Stats: map[string]float64{
			"AB":  math.Round(jitter(rng, 430+170*q)),
			"R":   math.Round(jitter(rng, 48+52*q)),
			"HR":  math.Round(jitter(rng, 7+28*q)),
			"RBI": math.Round(jitter(rng, 44+54*q)),
			"SB":  math.Round(jitter(rng, speed*(0.3+q))),
			"AVG": round(0.228+0.062*q+0.01*(rng.Float64()-0.5), 3),
		},
	}
}

func mockPitcher(rng *rand.Rand, i, n, nameIdx int) models.PlayerProjection {
	q := quality(i, n)
	// Three starters for every two relievers
	if i%5 < 3 {
		return models.PlayerProjection{
			Name:      mockName(nameIdx),
			Team:      teams[(i+7)%len(teams)],
			Positions: []string{"SP"},
			Stats: map[string]float64{
				"IP":   math.Round(jitter(rng, 120+80*q)),
				"W":    math.Round(jitter(rng, 5+11*q)),
				"SV":   0,
				"SO":   math.Round(jitter(rng, 105+130*q)),
				"ERA":  round(4.70-1.50*q+0.2*(rng.Float64()-0.5), 2),
				"WHIP": round(1.38-0.32*q+0.04*(rng.Float64()-0.5), 2),
			},
		}
	}

	saves := 2.0
	if q > 0.6 {
		saves = jitter(rng, 12+28*q)
	}
	return models.PlayerProjection{
		Name:      mockName(nameIdx),
		Team:      teams[(i+13)%len(teams)],
		Positions: []string{"RP"},
		Stats: map[string]float64{
			"IP":   math.Round(jitter(rng, 52+18*q)),
			"W":    math.Round(jitter(rng, 2+4*q)),
			"SV":   math.Round(saves),
			"SO":   math.Round(jitter(rng, 50+42*q)),
			"ERA":  round(4.30-1.60*q+0.2*(rng.Float64()-0.5), 2),
			"WHIP": round(1.34-0.34*q+0.04*(rng.Float64()-0.5), 2),
		},
	}
}

// String describes the source for startup logs
func (m *MockProjectionSource) String() string {
	return fmt.Sprintf("mock(%d hitters, %d pitchers, seed %d)", m.Hitters, m.Pitchers, m.Seed)
}
