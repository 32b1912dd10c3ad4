package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Billy-Davies-2/auction-draft-values/internal/logger"
)

// Router wires every endpoint. The event stream sits outside the request
// timeout so it can stay open.
func (h *APIHandlers) Router(corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Liveness)
	r.Get("/readyz", h.Readiness)
	r.Get("/api/events", h.EventsSSE)

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(30 * time.Second))

		r.Get("/api/health", h.Health)

		r.Get("/api/values", h.GetValues)
		r.Get("/api/values/live", h.GetLiveValues)
		r.Get("/api/split/recommend", h.RecommendSplit)

		r.Get("/api/settings", h.GetSettings)
		r.Put("/api/settings", h.UpdateSettings)

		r.Post("/api/projections", h.UploadProjections)
		r.Post("/api/projections/import", h.ImportProjections)

		r.Route("/api/draft", func(r chi.Router) {
			r.Get("/state", h.GetDraftState)
			r.Post("/picks", h.RecordPick)
			r.Put("/picks/{playerID}", h.CorrectPick)
			r.Delete("/picks/{playerID}", h.DeletePick)
			r.Post("/undo", h.UndoPick)
			r.Post("/reset", h.ResetDraft)
		})

		r.Put("/api/bids/{playerID}", h.PlaceBid)
		r.Delete("/api/bids/{playerID}", h.ClearBid)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
