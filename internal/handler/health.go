package handler

import (
	"net/http"

	"github.com/mazraati/assistant-platform/internal/events"
	"github.com/mazraati/assistant-platform/internal/store"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db         *store.DB
	natsClient *events.Client
}

// NewHealthHandler creates a new health handler. natsClient may be nil when
// the event bus is disabled.
func NewHealthHandler(db *store.DB, natsClient *events.Client) *HealthHandler {
	return &HealthHandler{db: db, natsClient: natsClient}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "datastore unreachable",
		})
		return
	}

	if h.natsClient != nil && !h.natsClient.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "NATS not connected",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
