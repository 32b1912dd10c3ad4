package dal

import (
	"errors"

	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

var (
	// ErrPlayerNotFound means the player id is not in the loaded projections
	ErrPlayerNotFound = errors.New("player not found")
	// ErrAlreadyDrafted means the player already has a confirmed pick
	ErrAlreadyDrafted = errors.New("player already drafted")
	// ErrPickNotFound means there is no confirmed pick to change or remove
	ErrPickNotFound = errors.New("pick not found")
)

// DraftDAL defines the interface for data access layer
type DraftDAL interface {
	GetState() (*models.DraftState, error)
	// Reset clears picks and pending bids, keeping projections and settings
	Reset() error
	// SetProjections replaces the player pool and clears the draft
	SetProjections(projections []models.PlayerProjection) error
	SaveSettings(settings models.DraftSettings) error
	AddPick(pick models.DraftPick) (*models.DraftPick, error)
	UpdatePick(playerID string, price int, draftedBy string) (*models.DraftPick, error)
	DeletePick(playerID string) error
	UndoLastPick() (*models.DraftPick, error)
	SetPendingBid(bid models.PendingBid) error
	ClearPendingBid(playerID string) error
}

// withIDs returns a copy of projections where every player carries its stable id
func withIDs(projections []models.PlayerProjection) []models.PlayerProjection {
	ids := models.AssignPlayerIDs(projections)
	out := make([]models.PlayerProjection, len(projections))
	for i, p := range projections {
		p.ID = ids[i]
		out[i] = p
	}
	return out
}
