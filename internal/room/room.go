// Package room runs a live auction draft: it owns the persisted draft state,
// values the player pool, re-prices the remaining players after every pick
// and announces each change on the event bus.
package room

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Billy-Davies-2/auction-draft-values/internal/cache"
	"github.com/Billy-Davies-2/auction-draft-values/internal/dal"
	"github.com/Billy-Davies-2/auction-draft-values/internal/inflation"
	"github.com/Billy-Davies-2/auction-draft-values/internal/logger"
	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
	"github.com/Billy-Davies-2/auction-draft-values/internal/pubsub"
	"github.com/Billy-Davies-2/auction-draft-values/internal/valuation"
)

// ErrInvalid marks a request the room refuses before touching state
var ErrInvalid = errors.New("invalid request")

// ProjectionSource supplies a full player pool
type ProjectionSource interface {
	Name() string
	FetchProjections(ctx context.Context) ([]models.PlayerProjection, error)
}

// Room serializes draft mutations so events go out in the order the
// mutations were applied
type Room struct {
	mu     sync.Mutex
	store  dal.DraftDAL
	cache  cache.ValueCache
	events pubsub.Publisher
	log    *slog.Logger
}

type discard struct{}

func (discard) Publish(pubsub.Event) {}

// New creates a room. A nil cache gets an in-process cache and nil events
// are dropped.
func New(store dal.DraftDAL, valueCache cache.ValueCache, events pubsub.Publisher) *Room {
	if valueCache == nil {
		valueCache = cache.NewMemoryCache(cache.DefaultMemoryEntries)
	}
	if events == nil {
		events = discard{}
	}
	return &Room{
		store:  store,
		cache:  valueCache,
		events: events,
		log:    logger.With("room"),
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// State returns the persisted draft state
func (r *Room) State(ctx context.Context) (*models.DraftState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.GetState()
}

// ValuationKey hashes everything a base valuation depends on. JSON object
// keys are emitted sorted, so equal inputs always hash equally.
func ValuationKey(projections []models.PlayerProjection, settings models.DraftSettings) (string, error) {
	data, err := json.Marshal(struct {
		Projections []models.PlayerProjection `json:"projections"`
		Settings    models.DraftSettings      `json:"settings"`
	}{projections, settings})
	if err != nil {
		return "", fmt.Errorf("encoding valuation inputs: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// BaseValues returns pre-draft values for the loaded pool and settings
func (r *Room) BaseValues(ctx context.Context) ([]models.PlayerValue, error) {
	state, err := r.State(ctx)
	if err != nil {
		return nil, err
	}
	return r.baseValues(ctx, state)
}

func (r *Room) baseValues(ctx context.Context, state *models.DraftState) ([]models.PlayerValue, error) {
	key, err := ValuationKey(state.Projections, state.Settings)
	if err != nil {
		return nil, err
	}

	values, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.log.Warn("Value cache read failed, recalculating", "error", err)
	} else if ok {
		return values, nil
	}

	s := state.Settings
	values = valuation.CalculatePlayerValues(state.Projections, s.League, s.Scoring, s.Values)
	if err := r.cache.Set(ctx, key, values); err != nil {
		r.log.Warn("Value cache write failed", "error", err)
	}
	r.log.Debug("Calculated base values", "players", len(values), "key", key[:12])
	return values, nil
}

// LiveValues returns base values re-priced for the picks and bids so far
func (r *Room) LiveValues(ctx context.Context) (inflation.Result, error) {
	state, err := r.State(ctx)
	if err != nil {
		return inflation.Result{}, err
	}
	return r.liveValues(ctx, state)
}

func (r *Room) liveValues(ctx context.Context, state *models.DraftState) (inflation.Result, error) {
	base, err := r.baseValues(ctx, state)
	if err != nil {
		return inflation.Result{}, err
	}
	return inflation.Calculate(base, state.Picks, state.Settings.League, state.PendingBids), nil
}

// RecommendSplit suggests a hitter/pitcher budget split for the loaded pool
func (r *Room) RecommendSplit(ctx context.Context) (valuation.SplitRecommendation, error) {
	state, err := r.State(ctx)
	if err != nil {
		return valuation.SplitRecommendation{}, err
	}
	s := state.Settings
	return valuation.RecommendSplit(state.Projections, s.League, s.Scoring), nil
}

// publishValues announces the inflation pass that follows a mutation. The
// mutation has already been applied, so failures here are only logged.
func (r *Room) publishValues(ctx context.Context) {
	state, err := r.store.GetState()
	if err != nil {
		r.log.Error("Failed to reload state after mutation", "error", err)
		return
	}
	live, err := r.liveValues(ctx, state)
	if err != nil {
		r.log.Error("Failed to recalculate live values", "error", err)
		return
	}
	r.events.Publish(pubsub.ValuesUpdated(live.InflationRate, live.TotalSpent, live.RemainingBudget, live.RemainingValue))
}

func (r *Room) announce(ctx context.Context, event pubsub.Event) {
	r.events.Publish(event)
	r.publishValues(ctx)
}

func validateProjections(projections []models.PlayerProjection) error {
	if len(projections) == 0 {
		return invalid("no projections supplied")
	}
	for i, p := range projections {
		if strings.TrimSpace(p.Name) == "" {
			return invalid("projection %d has no name", i)
		}
	}
	return nil
}

// SetProjections replaces the player pool, which also clears the draft
func (r *Room) SetProjections(ctx context.Context, source string, projections []models.PlayerProjection) error {
	if err := validateProjections(projections); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.SetProjections(projections); err != nil {
		return fmt.Errorf("storing projections: %w", err)
	}
	r.log.Info("Projections loaded", "source", source, "players", len(projections))
	r.announce(ctx, pubsub.ProjectionsImported(source, len(projections)))
	return nil
}

// ImportProjections pulls a fresh pool from source and loads it
func (r *Room) ImportProjections(ctx context.Context, source ProjectionSource) (int, error) {
	projections, err := source.FetchProjections(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching projections from %s: %w", source.Name(), err)
	}
	if err := r.SetProjections(ctx, source.Name(), projections); err != nil {
		return 0, err
	}
	return len(projections), nil
}

// League size limits accepted by the room
const (
	MaxTeams         = 100
	MaxBudgetPerTeam = 100000
	MaxPositionSlots = 50
)

// ValidateSettings reports settings the room would refuse
func ValidateSettings(settings models.DraftSettings) error {
	league := settings.League
	if err := league.Validate(); err != nil {
		return invalid("%v", err)
	}
	if league.TeamCount > MaxTeams {
		return invalid("team count %d exceeds %d", league.TeamCount, MaxTeams)
	}
	if league.BudgetPerTeam > MaxBudgetPerTeam {
		return invalid("budget per team %d exceeds %d", league.BudgetPerTeam, MaxBudgetPerTeam)
	}
	for pos, n := range league.PositionRequirements {
		if n > MaxPositionSlots {
			return invalid("position %s has %d slots, limit is %d", pos, n, MaxPositionSlots)
		}
	}
	if league.RosterSpots < 0 || league.RosterSpots > MaxPositionSlots*len(models.StandardLeague().PositionRequirements) {
		return invalid("roster spots %d out of range", league.RosterSpots)
	}
	if err := models.ValidateScoring(settings.Scoring); err != nil {
		return invalid("%v", err)
	}
	switch settings.Values.Method {
	case models.MethodZScore, models.MethodSGP, models.MethodPoints:
	default:
		return invalid("unknown value method %q", settings.Values.Method)
	}
	if p := settings.Values.HitterBudgetPercent; settings.Values.SplitMode == models.SplitManual && (p < 0 || p > 100) {
		return invalid("hitter budget percent %.1f outside 0-100", p)
	}
	return nil
}

// UpdateSettings validates and stores new draft settings
func (r *Room) UpdateSettings(ctx context.Context, settings models.DraftSettings) error {
	if err := ValidateSettings(settings); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.SaveSettings(settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	r.announce(ctx, pubsub.SettingsUpdated(settings))
	return nil
}

// RecordPick confirms an auction result
func (r *Room) RecordPick(ctx context.Context, pick models.DraftPick) (*models.DraftPick, error) {
	if pick.PlayerID == "" {
		return nil, invalid("player id is required")
	}
	if pick.Price < 1 {
		return nil, invalid("price must be at least $1, got %d", pick.Price)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	saved, err := r.store.AddPick(pick)
	if err != nil {
		return nil, err
	}
	r.log.Info("Pick recorded", "player_id", saved.PlayerID, "price", saved.Price, "pick", saved.PickNumber)
	r.announce(ctx, pubsub.PickEvent(pubsub.EventPickRecorded, *saved))
	return saved, nil
}

// CorrectPick fixes the price or winner of a confirmed pick
func (r *Room) CorrectPick(ctx context.Context, playerID string, price int, draftedBy string) (*models.DraftPick, error) {
	if price < 1 {
		return nil, invalid("price must be at least $1, got %d", price)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	saved, err := r.store.UpdatePick(playerID, price, draftedBy)
	if err != nil {
		return nil, err
	}
	r.announce(ctx, pubsub.PickEvent(pubsub.EventPickCorrected, *saved))
	return saved, nil
}

// DeletePick removes a confirmed pick wherever it sits in the order
func (r *Room) DeletePick(ctx context.Context, playerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.DeletePick(playerID); err != nil {
		return err
	}
	r.announce(ctx, pubsub.PickDeleted(playerID))
	return nil
}

// UndoPick removes the most recent pick
func (r *Room) UndoPick(ctx context.Context) (*models.DraftPick, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	undone, err := r.store.UndoLastPick()
	if err != nil {
		return nil, err
	}
	r.log.Info("Pick undone", "player_id", undone.PlayerID, "pick", undone.PickNumber)
	r.announce(ctx, pubsub.PickEvent(pubsub.EventPickUndone, *undone))
	return undone, nil
}

// Reset clears picks and bids but keeps the pool and settings
func (r *Room) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Reset(); err != nil {
		return err
	}
	r.announce(ctx, pubsub.DraftReset())
	return nil
}

// PlaceBid records or replaces the in-progress bid on a player
func (r *Room) PlaceBid(ctx context.Context, bid models.PendingBid) error {
	if bid.PlayerID == "" {
		return invalid("player id is required")
	}
	if bid.Price < 1 {
		return invalid("bid must be at least $1, got %d", bid.Price)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.SetPendingBid(bid); err != nil {
		return err
	}
	r.announce(ctx, pubsub.BidPlaced(bid))
	return nil
}

// ClearBid drops the in-progress bid on a player, if any
func (r *Room) ClearBid(ctx context.Context, playerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.ClearPendingBid(playerID); err != nil {
		return err
	}
	r.announce(ctx, pubsub.BidCleared(playerID))
	return nil
}
