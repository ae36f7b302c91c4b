package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mazraati/assistant-platform/internal/middleware"
	"github.com/mazraati/assistant-platform/internal/service"
	"github.com/mazraati/assistant-platform/internal/store"
	"github.com/mazraati/assistant-platform/pkg/logger"
)

// SessionHandler exposes conversation history.
type SessionHandler struct {
	sessions     *service.SessionService
	historyLimit int
	logger       *logger.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessions *service.SessionService, historyLimit int, log *logger.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, historyLimit: historyLimit, logger: log}
}

// Messages handles GET /api/v1/assistant/sessions/{id}/messages
func (h *SessionHandler) Messages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := h.historyLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= h.historyLimit {
			limit = parsed
		}
	}

	resp, err := h.sessions.History(ctx, sessionID, limit)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		h.logger.Error("failed to load history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Deactivate handles DELETE /api/v1/assistant/sessions/{id}
func (h *SessionHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.sessions.Deactivate(ctx, sessionID); err != nil {
		h.logger.Error("failed to deactivate session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to deactivate session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
