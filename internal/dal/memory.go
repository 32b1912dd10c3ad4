package dal

import (
	"sync"
	"time"

	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

// MemoryDAL implements DraftDAL using in-memory storage
type MemoryDAL struct {
	mu          sync.RWMutex
	settings    models.DraftSettings
	projections []models.PlayerProjection
	index       map[string]bool
	picks       []models.DraftPick
	bids        []models.PendingBid
}

// NewMemoryDAL creates a new in-memory data access layer
func NewMemoryDAL() *MemoryDAL {
	return &MemoryDAL{
		settings: models.DefaultDraftSettings(),
		index:    make(map[string]bool),
	}
}

func (m *MemoryDAL) GetState() (*models.DraftState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Create copies to avoid race conditions
	state := &models.DraftState{
		Settings:    m.settings,
		Projections: make([]models.PlayerProjection, len(m.projections)),
		Picks:       make([]models.DraftPick, len(m.picks)),
		PendingBids: make([]models.PendingBid, len(m.bids)),
	}

	copy(state.Projections, m.projections)
	copy(state.Picks, m.picks)
	copy(state.PendingBids, m.bids)

	return state, nil
}

func (m *MemoryDAL) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.picks = nil
	m.bids = nil
	return nil
}

func (m *MemoryDAL) SetProjections(projections []models.PlayerProjection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.projections = withIDs(projections)
	m.index = make(map[string]bool, len(m.projections))
	for _, p := range m.projections {
		m.index[p.ID] = true
	}
	m.picks = nil
	m.bids = nil
	return nil
}

func (m *MemoryDAL) SaveSettings(settings models.DraftSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = settings
	return nil
}

func (m *MemoryDAL) AddPick(pick models.DraftPick) (*models.DraftPick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.index[pick.PlayerID] {
		return nil, ErrPlayerNotFound
	}
	next := 1
	for _, p := range m.picks {
		if p.PlayerID == pick.PlayerID {
			return nil, ErrAlreadyDrafted
		}
		if p.PickNumber >= next {
			next = p.PickNumber + 1
		}
	}

	pick.PickNumber = next
	if pick.Timestamp.IsZero() {
		pick.Timestamp = time.Now().UTC()
	}
	m.picks = append(m.picks, pick)
	m.clearBidUnsafe(pick.PlayerID)
	return &pick, nil
}

func (m *MemoryDAL) UpdatePick(playerID string, price int, draftedBy string) (*models.DraftPick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.picks {
		if m.picks[i].PlayerID == playerID {
			m.picks[i].Price = price
			m.picks[i].DraftedBy = draftedBy
			p := m.picks[i]
			return &p, nil
		}
	}
	return nil, ErrPickNotFound
}

func (m *MemoryDAL) DeletePick(playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.picks {
		if m.picks[i].PlayerID == playerID {
			m.picks = append(m.picks[:i], m.picks[i+1:]...)
			return nil
		}
	}
	return ErrPickNotFound
}

func (m *MemoryDAL) UndoLastPick() (*models.DraftPick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.picks) == 0 {
		return nil, ErrPickNotFound
	}
	last := 0
	for i := range m.picks {
		if m.picks[i].PickNumber > m.picks[last].PickNumber {
			last = i
		}
	}
	p := m.picks[last]
	m.picks = append(m.picks[:last], m.picks[last+1:]...)
	return &p, nil
}

func (m *MemoryDAL) SetPendingBid(bid models.PendingBid) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.index[bid.PlayerID] {
		return ErrPlayerNotFound
	}
	for _, p := range m.picks {
		if p.PlayerID == bid.PlayerID {
			return ErrAlreadyDrafted
		}
	}
	for i := range m.bids {
		if m.bids[i].PlayerID == bid.PlayerID {
			m.bids[i] = bid
			return nil
		}
	}
	m.bids = append(m.bids, bid)
	return nil
}

func (m *MemoryDAL) ClearPendingBid(playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearBidUnsafe(playerID)
	return nil
}

func (m *MemoryDAL) clearBidUnsafe(playerID string) {
	for i := range m.bids {
		if m.bids[i].PlayerID == playerID {
			m.bids = append(m.bids[:i], m.bids[i+1:]...)
			return
		}
	}
}
