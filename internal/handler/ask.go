package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mazraati/assistant-platform/internal/engine"
	"github.com/mazraati/assistant-platform/internal/middleware"
	"github.com/mazraati/assistant-platform/internal/model"
	"github.com/mazraati/assistant-platform/pkg/logger"
)

// AskHandler handles the assistant question endpoint.
type AskHandler struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(eng *engine.Engine, log *logger.Logger) *AskHandler {
	return &AskHandler{engine: eng, logger: log}
}

// Ask handles POST /api/v1/assistant/ask
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateQuestion(req.Question); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidatePage(req.CurrentPage); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SessionID != "" {
		if err := middleware.ValidateSessionID(req.SessionID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	req.CallerID = middleware.GetUserID(ctx)
	req.Audience = middleware.GetAudience(ctx)
	if req.ClientContext.UserAgent == "" {
		req.ClientContext.UserAgent = r.UserAgent()
	}

	// Resolve never fails: the engine degrades to the fallback response.
	resp := h.engine.Resolve(ctx, &req)
	writeJSON(w, http.StatusOK, resp)
}
