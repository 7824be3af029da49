// Package webapi exposes the dashboard's REST endpoints over the prediction
// store. Every handler degrades to an empty-but-valid response when no runs
// have been committed yet.
package webapi

import (
	"encoding/json"
	"net/http"

	"github.com/blizzardhq/blizzard/internal/models"
	"github.com/blizzardhq/blizzard/internal/statistics"
)

// Version is set at build time or defaults to dev.
var Version = "0.3.0"

// Handlers holds the HTTP handler methods for the web API.
type Handlers struct {
	store       PredictionStore
	environment string
}

// NewHandlers creates a new Handlers with the given store.
func NewHandlers(store PredictionStore, environment string) *Handlers {
	return &Handlers{store: store, environment: environment}
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Version:     Version,
		Environment: h.environment,
	})
}

// HandleCurrent returns the latest committed run snapshot.
func (h *Handlers) HandleCurrent(w http.ResponseWriter, _ *http.Request) {
	run, ok := h.store.CurrentRun()
	if !ok {
		writeJSON(w, http.StatusOK, CurrentResponse{Available: false})
		return
	}
	writeJSON(w, http.StatusOK, CurrentResponse{Available: true, Run: run})
}

// HandleHistory returns the historical prediction log, newest first.
func (h *Handlers) HandleHistory(w http.ResponseWriter, _ *http.Request) {
	preds := h.store.ListHistory()
	if preds == nil {
		preds = []models.PredictionRecord{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{
		Count:       len(preds),
		Predictions: preds,
	})
}

// HandleStats returns accuracy metrics over the prediction log.
func (h *Handlers) HandleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatsResponse{
		Stats: statistics.ComputeAccuracy(h.store.ListHistory()),
	})
}

// RegisterRoutes registers all web API routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, store PredictionStore, environment string) {
	h := NewHandlers(store, environment)
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("GET /api/current", h.HandleCurrent)
	mux.HandleFunc("GET /api/history", h.HandleHistory)
	mux.HandleFunc("GET /api/stats", h.HandleStats)
	mux.HandleFunc("/api/", func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "unknown endpoint")
	})
}

// CORSMiddleware wraps a handler with CORS headers.
// If allowedOrigins is empty, no CORS header is set (same-origin only).
// Otherwise, the request Origin is checked against the allowed list.
func CORSMiddleware(next http.Handler, allowedOrigins ...string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if len(allowedOrigins) > 0 && origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
