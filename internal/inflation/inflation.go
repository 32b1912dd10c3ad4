// Package inflation keeps base auction values in line with the money actually
// left in a draft. It holds no state: callers re-run Calculate whenever picks,
// pending bids or settings change.
package inflation

import (
	"math"

	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

// Result is the live view of a draft in progress
type Result struct {
	InflationRate   float64              `json:"inflationRate"`
	AdjustedValues  []models.PlayerValue `json:"adjustedValues"`
	TotalSpent      int                  `json:"totalSpent"`
	RemainingBudget int                  `json:"remainingBudget"`
	RemainingValue  int                  `json:"remainingValue"`
}

// Calculate applies confirmed picks and pending bids to base values.
//
// Money committed by picks and pending bids is gone from the league budget,
// and the players they cover no longer compete for what is left. Everyone
// else is scaled by remainingBudget / remainingValue. With nothing drafted and
// nothing bid, the rate is zero and adjusted values equal base values.
func Calculate(values []models.PlayerValue, picks []models.DraftPick, league models.LeagueSettings, pending []models.PendingBid) Result {
	// A repeated player id counts once; the last entry wins.
	drafted := make(map[string]models.DraftPick, len(picks))
	for _, p := range picks {
		drafted[p.PlayerID] = p
	}
	bids := make(map[string]models.PendingBid, len(pending))
	for _, b := range pending {
		if _, ok := drafted[b.PlayerID]; ok {
			continue
		}
		bids[b.PlayerID] = b
	}

	spent := 0
	for _, p := range drafted {
		spent += p.Price
	}
	for _, b := range bids {
		spent += b.Price
	}

	remainingValue := 0
	for _, v := range values {
		if _, ok := drafted[v.ID]; ok {
			continue
		}
		if _, ok := bids[v.ID]; ok {
			continue
		}
		remainingValue += v.OriginalValue
	}

	res := Result{
		TotalSpent:      spent,
		RemainingBudget: league.TotalBudget() - spent,
		RemainingValue:  remainingValue,
		AdjustedValues:  make([]models.PlayerValue, len(values)),
	}
	inflating := (len(drafted) > 0 || len(bids) > 0) && res.RemainingValue > 0 && res.RemainingBudget > 0
	if inflating {
		res.InflationRate = float64(res.RemainingBudget)/float64(res.RemainingValue) - 1
	}

	for i, v := range values {
		out := v
		out.IsDrafted, out.DraftPrice, out.DraftedBy = false, 0, ""
		out.HasPendingBid, out.PendingBidIsMine, out.PendingBidPrice = false, false, 0

		if pick, ok := drafted[v.ID]; ok {
			out.AdjustedValue = v.OriginalValue
			out.IsDrafted = true
			out.DraftPrice = pick.Price
			out.DraftedBy = pick.DraftedBy
		} else if bid, ok := bids[v.ID]; ok {
			out.AdjustedValue = bid.Price
			out.HasPendingBid = true
			out.PendingBidIsMine = bid.IsMyBid
			out.PendingBidPrice = bid.Price
		} else {
			out.AdjustedValue = adjust(v.OriginalValue, res.InflationRate, inflating)
		}
		res.AdjustedValues[i] = out
	}
	return res
}

// adjust scales a base value by the inflation rate. While inflation is in
// effect every undrafted player is worth at least $1, unpriced ones included.
func adjust(base int, rate float64, inflating bool) int {
	if !inflating {
		return base
	}
	return max(1, int(math.Round(float64(base)*(1+rate))))
}
