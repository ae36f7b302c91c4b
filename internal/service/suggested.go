package service

import (
	"context"
	"fmt"

	"github.com/mazraati/assistant-platform/internal/store"
)

// StarterQuestions is the static default shown when the corpus has no
// active+approved answers yet. The list is user-visible product content and
// must be reproduced verbatim.
var StarterQuestions = []string{
	"كيف أبدأ الاستثمار الزراعي؟",
	"ما هي الحصة الزراعية؟",
	"كيف يتم توزيع الأرباح؟",
	"هل استثماري مضمون؟",
	"ما هي مدة دورة الإنتاج؟",
	"كيف أتابع مزرعتي؟",
}

// SuggestedService surfaces starter questions for the assistant widget.
type SuggestedService struct {
	answers *store.AnswerRepository
	limit   int
}

// NewSuggestedService creates a new suggested-questions service.
func NewSuggestedService(answers *store.AnswerRepository, limit int) *SuggestedService {
	if limit <= 0 {
		limit = len(StarterQuestions)
	}
	return &SuggestedService{answers: answers, limit: limit}
}

// Questions returns up to limit question texts of the most-used eligible
// answers, or the static starter list when the corpus is empty.
func (s *SuggestedService) Questions(ctx context.Context) ([]string, error) {
	top, err := s.answers.TopUsed(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top answers: %w", err)
	}

	if len(top) == 0 {
		return StarterQuestions, nil
	}

	questions := make([]string, 0, len(top))
	for i := range top {
		questions = append(questions, top[i].Question)
	}
	return questions, nil
}
