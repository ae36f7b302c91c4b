package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mazraati/assistant-platform/internal/store"
	"github.com/mazraati/assistant-platform/pkg/logger"
)

// FeedbackService records per-turn helpfulness signal.
type FeedbackService struct {
	messages *store.MessageRepository
	answers  *store.AnswerRepository
	logger   *logger.Logger
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(messages *store.MessageRepository, answers *store.AnswerRepository, log *logger.Logger) *FeedbackService {
	return &FeedbackService{
		messages: messages,
		answers:  answers,
		logger:   log,
	}
}

// Submit sets a message's helpfulness flag. When the turn was helpful and
// the message carries a matched answer, that answer's helpful counter is
// bumped as a non-blocking side effect: the feedback write succeeds or fails
// on its own.
func (s *FeedbackService) Submit(ctx context.Context, messageID string, wasHelpful bool, comment string) error {
	msg, err := s.messages.Get(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to load message: %w", err)
	}

	if err := s.messages.SetFeedback(ctx, messageID, wasHelpful, comment); err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}

	if wasHelpful && msg.MatchedAnswerID != nil {
		if err := s.answers.IncrementHelpful(ctx, *msg.MatchedAnswerID); err != nil {
			s.logger.Warn("best-effort helpful counter failed",
				zap.String("answer_id", *msg.MatchedAnswerID),
				zap.Error(err),
			)
		}
	}

	return nil
}
