package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mazraati/assistant-platform/internal/model"
	"github.com/mazraati/assistant-platform/internal/service"
	"github.com/mazraati/assistant-platform/pkg/logger"
)

// SuggestedHandler serves starter questions for the assistant widget.
type SuggestedHandler struct {
	suggested *service.SuggestedService
	logger    *logger.Logger
}

// NewSuggestedHandler creates a new suggested-questions handler.
func NewSuggestedHandler(suggested *service.SuggestedService, log *logger.Logger) *SuggestedHandler {
	return &SuggestedHandler{suggested: suggested, logger: log}
}

// Questions handles GET /api/v1/assistant/suggested-questions
func (h *SuggestedHandler) Questions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.suggested.Questions(r.Context())
	if err != nil {
		// Degrade to the static list rather than surfacing a failure.
		h.logger.Warn("failed to load suggested questions", zap.Error(err))
		questions = service.StarterQuestions
	}

	writeJSON(w, http.StatusOK, model.SuggestedQuestionsResponse{Questions: questions})
}
