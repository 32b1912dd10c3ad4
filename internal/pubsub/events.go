package pubsub

import (
	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

// Event represents a pubsub event
type Event struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Event types published by the draft room
const (
	EventValuesUpdated       = "values:updated"
	EventPickRecorded        = "draft:pick"
	EventPickUndone          = "draft:undo"
	EventPickCorrected       = "draft:pick-updated"
	EventPickDeleted         = "draft:pick-deleted"
	EventDraftReset          = "draft:reset"
	EventBidPlaced           = "bid:placed"
	EventBidCleared          = "bid:cleared"
	EventProjectionsImported = "projections:imported"
	EventSettingsUpdated     = "settings:updated"
)

// Payload values are restricted to types structpb and JSON both carry, so
// timestamps travel as unix milliseconds.

// ValuesUpdated announces a fresh inflation pass
func ValuesUpdated(inflationRate float64, totalSpent, remainingBudget, remainingValue int) Event {
	return Event{
		Type: EventValuesUpdated,
		Payload: map[string]interface{}{
			"inflationRate":   inflationRate,
			"totalSpent":      totalSpent,
			"remainingBudget": remainingBudget,
			"remainingValue":  remainingValue,
		},
	}
}

// PickEvent carries a confirmed pick under one of the draft:* pick types
func PickEvent(eventType string, pick models.DraftPick) Event {
	return Event{
		Type: eventType,
		Payload: map[string]interface{}{
			"playerId":   pick.PlayerID,
			"price":      pick.Price,
			"isMyBid":    pick.IsMyBid,
			"draftedBy":  pick.DraftedBy,
			"pickNumber": pick.PickNumber,
			"timestamp":  pick.Timestamp.UnixMilli(),
		},
	}
}

func PickDeleted(playerID string) Event {
	return Event{Type: EventPickDeleted, Payload: map[string]interface{}{"playerId": playerID}}
}

func DraftReset() Event {
	return Event{Type: EventDraftReset}
}

func BidPlaced(bid models.PendingBid) Event {
	return Event{
		Type: EventBidPlaced,
		Payload: map[string]interface{}{
			"playerId": bid.PlayerID,
			"price":    bid.Price,
			"isMyBid":  bid.IsMyBid,
			"bidder":   bid.Bidder,
		},
	}
}

func BidCleared(playerID string) Event {
	return Event{Type: EventBidCleared, Payload: map[string]interface{}{"playerId": playerID}}
}

// ProjectionsImported reports a replaced player pool
func ProjectionsImported(source string, count int) Event {
	return Event{
		Type: EventProjectionsImported,
		Payload: map[string]interface{}{
			"source": source,
			"count":  count,
		},
	}
}

// SettingsUpdated summarizes new draft settings
func SettingsUpdated(settings models.DraftSettings) Event {
	payload := map[string]interface{}{
		"teamCount":           settings.League.TeamCount,
		"budgetPerTeam":       settings.League.BudgetPerTeam,
		"method":              string(settings.Values.Method),
		"replacementLevel":    string(settings.Values.ReplacementLevel),
		"splitMode":           string(settings.Values.SplitMode),
		"hitterBudgetPercent": settings.Values.HitterBudgetPercent,
	}
	if settings.Scoring != nil {
		payload["scoring"] = string(settings.Scoring.Kind())
	}
	return Event{Type: EventSettingsUpdated, Payload: payload}
}
