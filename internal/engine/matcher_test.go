package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazraati/assistant-platform/internal/model"
	"github.com/mazraati/assistant-platform/internal/store"
)

func newTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedAnswer(t *testing.T, repo *store.AnswerRepository, a model.Answer) model.Answer {
	t.Helper()
	if a.Audience == "" {
		a.Audience = model.AudienceAll
	}
	a.Active = true
	a.Approved = true
	require.NoError(t, repo.Create(context.Background(), &a))
	return a
}

func TestCorpusScoringThresholdBoundary(t *testing.T) {
	db := newTestDB(t)
	answers := store.NewAnswerRepository(db)
	m := NewMatcher(answers, DefaultMatchConfig())
	ctx := context.Background()

	// Three overlapping words, phrase broken up: score exactly 3.
	seedAnswer(t, answers, model.Answer{
		Question: "alpha one beta two gamma",
		Answer:   "scores three",
	})

	candidates, err := m.Match(ctx, "alpha beta gamma", MatchContext{Audience: model.AudienceVisitor, Page: "home"})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, 3, candidates[0].Score)

	// A score equal to the threshold must be rejected.
	_, ok := m.Accept(candidates)
	assert.False(t, ok)

	// Four overlapping words: score 4, accepted, confidence 0.4.
	seedAnswer(t, answers, model.Answer{
		Question: "alpha one beta two gamma three delta",
		Answer:   "scores four",
	})

	candidates, err = m.Match(ctx, "alpha beta gamma delta", MatchContext{Audience: model.AudienceVisitor, Page: "home"})
	require.NoError(t, err)
	best, ok := m.Accept(candidates)
	require.True(t, ok)
	assert.Equal(t, 4, best.Score)
	assert.InDelta(t, 0.4, m.Confidence(best.Score), 1e-9)
}

func TestCorpusPhraseBonus(t *testing.T) {
	db := newTestDB(t)
	answers := store.NewAnswerRepository(db)
	m := NewMatcher(answers, DefaultMatchConfig())

	seedAnswer(t, answers, model.Answer{
		Question: "how are profits distributed to investors",
		Answer:   "quarterly",
	})

	candidates, err := m.Match(context.Background(), "profits distributed", MatchContext{Audience: model.AudienceVisitor})
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	// Full-phrase substring bonus plus one point per word.
	assert.Equal(t, 12, candidates[0].Score)
	assert.Equal(t, 1.0, m.Confidence(candidates[0].Score))
}

func TestContextScopedPreferredOverHigherCorpusScore(t *testing.T) {
	db := newTestDB(t)
	answers := store.NewAnswerRepository(db)
	m := NewMatcher(answers, DefaultMatchConfig())
	ctx := context.Background()

	corpus := seedAnswer(t, answers, model.Answer{
		Question: "what is the harvest schedule",
		Answer:   "corpus answer",
	})
	curated := seedAnswer(t, answers, model.Answer{
		Question:     "completely unrelated wording",
		Answer:       "curated page answer",
		PageContexts: []string{"farm-details"},
	})

	candidates, err := m.Match(ctx, "what is the harvest schedule", MatchContext{
		Audience: model.AudienceVisitor,
		Page:     "farm-details",
	})
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	// The page-scoped answer wins even though the corpus answer would score
	// an exact-phrase match.
	assert.Equal(t, curated.ID, candidates[0].Answer.ID)
	assert.Equal(t, model.SourceContext, candidates[0].Source)
	assert.NotEqual(t, corpus.ID, candidates[0].Answer.ID)

	best, ok := m.Accept(candidates)
	require.True(t, ok)
	assert.Equal(t, 1.0, m.Confidence(best.Score))
}

func TestContextScopeFiltersAudience(t *testing.T) {
	db := newTestDB(t)
	answers := store.NewAnswerRepository(db)
	m := NewMatcher(answers, DefaultMatchConfig())
	ctx := context.Background()

	investorOnly := seedAnswer(t, answers, model.Answer{
		Question:     "investor payout details",
		Answer:       "for investors",
		Audience:     model.AudienceInvestor,
		PageContexts: []string{"portfolio"},
	})

	// A visitor on the same page must not see the investor-scoped answer.
	candidates, err := m.Match(ctx, "zzz qqq", MatchContext{Audience: model.AudienceVisitor, Page: "portfolio"})
	require.NoError(t, err)
	assert.Empty(t, candidates)

	candidates, err = m.Match(ctx, "zzz qqq", MatchContext{Audience: model.AudienceInvestor, Page: "portfolio"})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, investorOnly.ID, candidates[0].Answer.ID)
}

func TestScoringDeterministic(t *testing.T) {
	db := newTestDB(t)
	answers := store.NewAnswerRepository(db)
	m := NewMatcher(answers, DefaultMatchConfig())
	ctx := context.Background()

	for _, q := range []string{
		"alpha beta shared words one",
		"alpha beta shared words two",
		"alpha beta shared words three",
	} {
		seedAnswer(t, answers, model.Answer{Question: q, Answer: "x"})
	}

	first, err := m.Match(ctx, "alpha beta shared words", MatchContext{Audience: model.AudienceVisitor})
	require.NoError(t, err)
	second, err := m.Match(ctx, "alpha beta shared words", MatchContext{Audience: model.AudienceVisitor})
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Answer.ID, second[i].Answer.ID)
		assert.Equal(t, first[i].Score, second[i].Score)
	}
}

func TestCorpusTopFiveCut(t *testing.T) {
	db := newTestDB(t)
	answers := store.NewAnswerRepository(db)
	m := NewMatcher(answers, DefaultMatchConfig())

	for i := 0; i < 8; i++ {
		seedAnswer(t, answers, model.Answer{
			Question: "common keyword variant",
			Answer:   "x",
		})
	}

	candidates, err := m.Match(context.Background(), "common keyword", MatchContext{Audience: model.AudienceVisitor})
	require.NoError(t, err)
	assert.Len(t, candidates, 5)
}

func TestIneligibleAnswersExcluded(t *testing.T) {
	db := newTestDB(t)
	answers := store.NewAnswerRepository(db)
	m := NewMatcher(answers, DefaultMatchConfig())
	ctx := context.Background()

	unapproved := model.Answer{
		Question: "pending editorial review question",
		Answer:   "x",
		Audience: model.AudienceAll,
		Active:   true,
		Approved: false,
	}
	require.NoError(t, answers.Create(ctx, &unapproved))

	inactive := model.Answer{
		Question: "retired question text",
		Answer:   "x",
		Audience: model.AudienceAll,
		Active:   false,
		Approved: true,
	}
	require.NoError(t, answers.Create(ctx, &inactive))

	candidates, err := m.Match(ctx, "pending editorial review question", MatchContext{Audience: model.AudienceVisitor})
	require.NoError(t, err)
	assert.Empty(t, candidates)

	candidates, err = m.Match(ctx, "retired question text", MatchContext{Audience: model.AudienceVisitor})
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
