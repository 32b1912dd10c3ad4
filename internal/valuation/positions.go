package valuation

import "strings"

// Roster slot codes
const (
	PosC     = "C"
	Pos1B    = "1B"
	Pos2B    = "2B"
	Pos3B    = "3B"
	PosSS    = "SS"
	PosOF    = "OF"
	PosMI    = "MI"
	PosCI    = "CI"
	PosUTIL  = "UTIL"
	PosSP    = "SP"
	PosRP    = "RP"
	PosP     = "P"
	PosBENCH = "BENCH"
)

// PositionOrder is the order slots are filled in. Earlier slots win players
// eligible at several positions; the order is not scarcity driven.
var PositionOrder = []string{
	PosC, Pos1B, Pos2B, Pos3B, PosSS, PosOF, PosMI, PosCI, PosUTIL,
	PosSP, PosRP, PosP,
	PosBENCH,
}

var hitterPositions = map[string]bool{
	PosC: true, Pos1B: true, Pos2B: true, Pos3B: true, PosSS: true,
	PosOF: true, "LF": true, "CF": true, "RF": true, "DH": true,
	PosMI: true, PosCI: true, PosUTIL: true,
}

var pitcherPositions = map[string]bool{
	PosSP: true, PosRP: true, PosP: true,
}

var slotAliases = map[string]string{
	"UT":    PosUTIL,
	"U":     PosUTIL,
	"BN":    PosBENCH,
	"BE":    PosBENCH,
	"BENCH": PosBENCH,
}

// NormalizePosition upper-cases a position code and resolves common aliases
func NormalizePosition(pos string) string {
	p := strings.ToUpper(strings.TrimSpace(pos))
	if alias, ok := slotAliases[p]; ok {
		return alias
	}
	return p
}

// IsHitterPosition reports whether a listed position makes a player a hitter
func IsHitterPosition(pos string) bool {
	return hitterPositions[NormalizePosition(pos)]
}

// IsPitcherPosition reports whether a listed position makes a player a pitcher
func IsPitcherPosition(pos string) bool {
	return pitcherPositions[NormalizePosition(pos)]
}

// IsPitcherSlot reports whether a roster slot is filled from the pitcher pool
func IsPitcherSlot(slot string) bool {
	return pitcherPositions[slot]
}

func hasAny(positions []string, want ...string) bool {
	for _, p := range positions {
		np := NormalizePosition(p)
		for _, w := range want {
			if np == w {
				return true
			}
		}
	}
	return false
}

// EligibleFor reports whether a player listed at positions can fill slot.
// Flex slots: MI takes 2B or SS, CI takes 1B or 3B, UTIL takes any hitter,
// P takes SP or RP. LF, CF and RF all count as OF.
func EligibleFor(slot string, positions []string) bool {
	switch slot {
	case PosMI:
		return hasAny(positions, PosMI, Pos2B, PosSS)
	case PosCI:
		return hasAny(positions, PosCI, Pos1B, Pos3B)
	case PosUTIL:
		for _, p := range positions {
			if IsHitterPosition(p) {
				return true
			}
		}
		return false
	case PosP:
		return hasAny(positions, PosP, PosSP, PosRP)
	case PosOF:
		return hasAny(positions, PosOF, "LF", "CF", "RF")
	default:
		return hasAny(positions, slot)
	}
}

func isHitter(positions []string) bool {
	for _, p := range positions {
		if IsHitterPosition(p) {
			return true
		}
	}
	return false
}

func isPitcher(positions []string) bool {
	for _, p := range positions {
		if IsPitcherPosition(p) {
			return true
		}
	}
	return false
}

// normalizeRequirements folds requirement keys onto canonical slot codes
func normalizeRequirements(reqs map[string]int) map[string]int {
	out := make(map[string]int, len(reqs))
	for pos, n := range reqs {
		if n < 0 {
			n = 0
		}
		out[NormalizePosition(pos)] += n
	}
	return out
}
