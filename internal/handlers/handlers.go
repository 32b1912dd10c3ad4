package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/Billy-Davies-2/auction-draft-values/internal/dal"
	"github.com/Billy-Davies-2/auction-draft-values/internal/logger"
	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
	"github.com/Billy-Davies-2/auction-draft-values/internal/pubsub"
	"github.com/Billy-Davies-2/auction-draft-values/internal/room"
)

// maxBodyBytes bounds request bodies; a full projection upload is well under it
const maxBodyBytes = 16 << 20

// Subscriber is the receiving side of the event bus
type Subscriber interface {
	Subscribe() chan pubsub.Event
	Unsubscribe(chan pubsub.Event)
}

// APIHandlers contains all API handler methods
type APIHandlers struct {
	room      *room.Room
	events    Subscriber
	source    room.ProjectionSource
	checks    map[string]Check
	keepalive time.Duration
	imports   *rate.Limiter
}

// NewAPIHandlers creates a new API handlers instance. source may be nil,
// in which case imports are refused.
func NewAPIHandlers(rm *room.Room, events Subscriber, source room.ProjectionSource) *APIHandlers {
	return &APIHandlers{
		room:      rm,
		events:    events,
		source:    source,
		checks:    make(map[string]Check),
		keepalive: 30 * time.Second,
		imports:   rate.NewLimiter(rate.Every(10*time.Second), 2),
	}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		if status >= http.StatusInternalServerError {
			logger.Error(message, "error", err)
		} else {
			logger.Warn(message, "error", err)
		}
		message = fmt.Sprintf("%s: %v", message, err)
	}
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// statusFor maps room and DAL errors onto HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, room.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, dal.ErrPlayerNotFound), errors.Is(err, dal.ErrPickNotFound):
		return http.StatusNotFound
	case errors.Is(err, dal.ErrAlreadyDrafted):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func fail(w http.ResponseWriter, message string, err error) {
	respondError(w, statusFor(err), message, err)
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// GetValues returns pre-draft values
func (h *APIHandlers) GetValues(w http.ResponseWriter, r *http.Request) {
	values, err := h.room.BaseValues(r.Context())
	if err != nil {
		fail(w, "Failed to calculate values", err)
		return
	}
	respondJSON(w, http.StatusOK, values)
}

// GetLiveValues returns values adjusted for the draft so far
func (h *APIHandlers) GetLiveValues(w http.ResponseWriter, r *http.Request) {
	live, err := h.room.LiveValues(r.Context())
	if err != nil {
		fail(w, "Failed to calculate live values", err)
		return
	}
	respondJSON(w, http.StatusOK, live)
}

// RecommendSplit suggests a hitter/pitcher budget split
func (h *APIHandlers) RecommendSplit(w http.ResponseWriter, r *http.Request) {
	rec, err := h.room.RecommendSplit(r.Context())
	if err != nil {
		fail(w, "Failed to recommend split", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// GetSettings returns the current draft settings
func (h *APIHandlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	state, err := h.room.State(r.Context())
	if err != nil {
		fail(w, "Failed to load settings", err)
		return
	}
	respondJSON(w, http.StatusOK, state.Settings)
}

// UpdateSettings replaces the draft settings
func (h *APIHandlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.DraftSettings
	if !decode(w, r, &settings) {
		return
	}
	if err := h.room.UpdateSettings(r.Context(), settings); err != nil {
		fail(w, "Failed to update settings", err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

type importResponse struct {
	Source   string `json:"source"`
	Imported int    `json:"imported"`
}

// UploadProjections replaces the pool with projections from the request body
func (h *APIHandlers) UploadProjections(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source      string                    `json:"source"`
		Projections []models.PlayerProjection `json:"projections"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Source == "" {
		req.Source = "upload"
	}

	if err := h.room.SetProjections(r.Context(), req.Source, req.Projections); err != nil {
		fail(w, "Failed to load projections", err)
		return
	}
	respondJSON(w, http.StatusOK, importResponse{Source: req.Source, Imported: len(req.Projections)})
}

// ImportProjections replaces the pool from the configured projection source
func (h *APIHandlers) ImportProjections(w http.ResponseWriter, r *http.Request) {
	if h.source == nil {
		respondError(w, http.StatusServiceUnavailable, "No projection source configured", nil)
		return
	}
	if !h.imports.Allow() {
		respondError(w, http.StatusTooManyRequests, "Projection import already ran recently", nil)
		return
	}
	n, err := h.room.ImportProjections(r.Context(), h.source)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		respondError(w, status, "Failed to import projections", err)
		return
	}
	respondJSON(w, http.StatusOK, importResponse{Source: h.source.Name(), Imported: n})
}

// GetDraftState returns the current draft state
func (h *APIHandlers) GetDraftState(w http.ResponseWriter, r *http.Request) {
	state, err := h.room.State(r.Context())
	if err != nil {
		fail(w, "Failed to get draft state", err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// RecordPick confirms an auction result
func (h *APIHandlers) RecordPick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID  string `json:"playerId"`
		Price     int    `json:"price"`
		IsMyBid   bool   `json:"isMyBid"`
		DraftedBy string `json:"draftedBy"`
	}
	if !decode(w, r, &req) {
		return
	}

	pick, err := h.room.RecordPick(r.Context(), models.DraftPick{
		PlayerID:  req.PlayerID,
		Price:     req.Price,
		IsMyBid:   req.IsMyBid,
		DraftedBy: req.DraftedBy,
	})
	if err != nil {
		fail(w, "Failed to record pick", err)
		return
	}
	respondJSON(w, http.StatusCreated, pick)
}

// CorrectPick changes the price or winner of a pick
func (h *APIHandlers) CorrectPick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Price     int    `json:"price"`
		DraftedBy string `json:"draftedBy"`
	}
	if !decode(w, r, &req) {
		return
	}

	pick, err := h.room.CorrectPick(r.Context(), chi.URLParam(r, "playerID"), req.Price, req.DraftedBy)
	if err != nil {
		fail(w, "Failed to update pick", err)
		return
	}
	respondJSON(w, http.StatusOK, pick)
}

// DeletePick removes a pick
func (h *APIHandlers) DeletePick(w http.ResponseWriter, r *http.Request) {
	if err := h.room.DeletePick(r.Context(), chi.URLParam(r, "playerID")); err != nil {
		fail(w, "Failed to delete pick", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// UndoPick removes the most recent pick
func (h *APIHandlers) UndoPick(w http.ResponseWriter, r *http.Request) {
	pick, err := h.room.UndoPick(r.Context())
	if err != nil {
		fail(w, "Failed to undo pick", err)
		return
	}
	respondJSON(w, http.StatusOK, pick)
}

// ResetDraft clears picks and bids
func (h *APIHandlers) ResetDraft(w http.ResponseWriter, r *http.Request) {
	logger.Info("Resetting draft")
	if err := h.room.Reset(r.Context()); err != nil {
		fail(w, "Failed to reset draft", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// PlaceBid records the in-progress bid on a player
func (h *APIHandlers) PlaceBid(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Price   int    `json:"price"`
		IsMyBid bool   `json:"isMyBid"`
		Bidder  string `json:"bidder"`
	}
	if !decode(w, r, &req) {
		return
	}

	bid := models.PendingBid{
		PlayerID: chi.URLParam(r, "playerID"),
		Price:    req.Price,
		IsMyBid:  req.IsMyBid,
		Bidder:   req.Bidder,
	}
	if err := h.room.PlaceBid(r.Context(), bid); err != nil {
		fail(w, "Failed to place bid", err)
		return
	}
	respondJSON(w, http.StatusOK, bid)
}

// ClearBid drops the in-progress bid on a player
func (h *APIHandlers) ClearBid(w http.ResponseWriter, r *http.Request) {
	if err := h.room.ClearBid(r.Context(), chi.URLParam(r, "playerID")); err != nil {
		fail(w, "Failed to clear bid", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
