package handlers

import (
	"context"
	"net/http"
	"time"
)

// Check probes one dependency
type Check func(ctx context.Context) error

// WithCheck adds a dependency to /api/health
func (h *APIHandlers) WithCheck(name string, check Check) *APIHandlers {
	h.checks[name] = check
	return h
}

// Health reports every dependency's status
func (h *APIHandlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ok"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if _, err := h.room.State(ctx); err != nil {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
		checks["database"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
	} else {
		checks["database"] = map[string]interface{}{"status": "healthy"}
	}

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks[name] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
			continue
		}
		checks[name] = map[string]interface{}{"status": "healthy"}
	}

	respondJSON(w, httpStatus, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}

// Liveness handles Kubernetes liveness probes
// Returns 200 if the application is running (doesn't check dependencies)
func (h *APIHandlers) Liveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

// Readiness handles Kubernetes readiness probes
// Returns 200 if the draft state can be loaded
func (h *APIHandlers) Readiness(w http.ResponseWriter, r *http.Request) {
	if _, err := h.room.State(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "not_ready",
			"reason":    "database_unavailable",
			"timestamp": time.Now().Unix(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}
