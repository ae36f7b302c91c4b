package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mazraati/assistant-platform/internal/middleware"
	"github.com/mazraati/assistant-platform/internal/model"
	"github.com/mazraati/assistant-platform/internal/service"
	"github.com/mazraati/assistant-platform/internal/store"
	"github.com/mazraati/assistant-platform/pkg/logger"
)

// FeedbackHandler handles helpfulness feedback on assistant messages.
type FeedbackHandler struct {
	feedback *service.FeedbackService
	logger   *logger.Logger
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(feedback *service.FeedbackService, log *logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, logger: log}
}

// Submit handles POST /api/v1/assistant/messages/{id}/feedback
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	messageID := chi.URLParam(r, "id")

	if err := middleware.ValidateMessageID(messageID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.feedback.Submit(ctx, messageID, req.WasHelpful, req.Comment); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "message not found")
			return
		}
		h.logger.Error("failed to record feedback", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to record feedback")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
