package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazraati/assistant-platform/internal/model"
	"github.com/mazraati/assistant-platform/internal/store"
	"github.com/mazraati/assistant-platform/pkg/logger"
)

func newTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetOrCreateNewAnonymousSession(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(store.NewSessionRepository(db), store.NewMessageRepository(db))
	ctx := context.Background()

	sess, err := svc.GetOrCreate(ctx, SessionParams{
		Fingerprint: "anon-abc",
		Audience:    model.AudienceVisitor,
		CurrentPage: "home",
		Language:    "ar",
	})
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, "anon-abc", sess.Fingerprint)
	assert.Empty(t, sess.UserID)
	assert.True(t, sess.Active)

	// Same fingerprint resolves to the same session.
	again, err := svc.GetOrCreate(ctx, SessionParams{
		Fingerprint: "anon-abc",
		Audience:    model.AudienceVisitor,
		CurrentPage: "farms",
	})
	require.NoError(t, err)
	assert.Equal(t, sess.ID, again.ID)
	assert.Equal(t, "farms", again.CurrentPage)
}

func TestGetOrCreateReusesSuppliedID(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(store.NewSessionRepository(db), store.NewMessageRepository(db))
	ctx := context.Background()

	sess, err := svc.GetOrCreate(ctx, SessionParams{
		UserID:   "user-1",
		Audience: model.AudienceInvestor,
	})
	require.NoError(t, err)

	got, err := svc.GetOrCreate(ctx, SessionParams{
		SessionID: sess.ID,
		UserID:    "user-1",
		Audience:  model.AudienceInvestor,
	})
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
}

func TestGetOrCreateIgnoresDeactivatedID(t *testing.T) {
	db := newTestDB(t)
	sessions := store.NewSessionRepository(db)
	svc := NewSessionService(sessions, store.NewMessageRepository(db))
	ctx := context.Background()

	sess, err := svc.GetOrCreate(ctx, SessionParams{
		Fingerprint: "anon-x",
		Audience:    model.AudienceVisitor,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(ctx, sess.ID))

	// A deactivated id falls through to identity lookup, which finds nothing
	// active, so a fresh session is created.
	got, err := svc.GetOrCreate(ctx, SessionParams{
		SessionID:   sess.ID,
		Fingerprint: "anon-x",
		Audience:    model.AudienceVisitor,
	})
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID, got.ID)
	assert.True(t, got.Active)
}

func TestHistoryUnknownSession(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(store.NewSessionRepository(db), store.NewMessageRepository(db))

	_, err := svc.History(context.Background(), "missing-id", 10)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestHistoryReturnsAppendOrder(t *testing.T) {
	db := newTestDB(t)
	messages := store.NewMessageRepository(db)
	svc := NewSessionService(store.NewSessionRepository(db), messages)
	ctx := context.Background()

	sess, err := svc.GetOrCreate(ctx, SessionParams{Fingerprint: "anon-h", Audience: model.AudienceVisitor})
	require.NoError(t, err)

	require.NoError(t, messages.Append(ctx, &model.Message{SessionID: sess.ID, Role: model.RoleUser, Content: "سؤال"}))
	require.NoError(t, messages.Append(ctx, &model.Message{SessionID: sess.ID, Role: model.RoleAssistant, Content: "إجابة"}))

	history, err := svc.History(ctx, sess.ID, 10)
	require.NoError(t, err)
	require.Equal(t, 2, history.Total)
	assert.Equal(t, model.RoleUser, history.Messages[0].Role)
	assert.Equal(t, model.RoleAssistant, history.Messages[1].Role)
}

func TestHistoryTotalCountsBeyondWindow(t *testing.T) {
	db := newTestDB(t)
	messages := store.NewMessageRepository(db)
	svc := NewSessionService(store.NewSessionRepository(db), messages)
	ctx := context.Background()

	sess, err := svc.GetOrCreate(ctx, SessionParams{Fingerprint: "anon-w", Audience: model.AudienceVisitor})
	require.NoError(t, err)

	for _, content := range []string{"أول", "ثان", "ثالث"} {
		require.NoError(t, messages.Append(ctx, &model.Message{
			SessionID: sess.ID, Role: model.RoleUser, Content: content,
		}))
	}

	// The window trims the returned slice; Total reports the whole session.
	history, err := svc.History(ctx, sess.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, history.Total)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "ثان", history.Messages[0].Content)
	assert.Equal(t, "ثالث", history.Messages[1].Content)
}

func TestSuggestedQuestionsStaticWhenCorpusEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewSuggestedService(store.NewAnswerRepository(db), 6)

	questions, err := svc.Questions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StarterQuestions, questions)
}

func TestSuggestedQuestionsUsageOrdered(t *testing.T) {
	db := newTestDB(t)
	answers := store.NewAnswerRepository(db)
	svc := NewSuggestedService(answers, 2)
	ctx := context.Background()

	popular := &model.Answer{
		Question: "السؤال الأكثر شيوعاً", Answer: "x",
		Audience: model.AudienceAll, Active: true, Approved: true, UsageCount: 9,
	}
	require.NoError(t, answers.Create(ctx, popular))
	for _, q := range []string{"سؤال ثان", "سؤال ثالث"} {
		require.NoError(t, answers.Create(ctx, &model.Answer{
			Question: q, Answer: "x",
			Audience: model.AudienceAll, Active: true, Approved: true,
		}))
	}

	questions, err := svc.Questions(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "السؤال الأكثر شيوعاً", questions[0])
}

func TestFeedbackSubmitBumpsHelpfulCounter(t *testing.T) {
	db := newTestDB(t)
	sessions := store.NewSessionRepository(db)
	messages := store.NewMessageRepository(db)
	answers := store.NewAnswerRepository(db)
	svc := NewFeedbackService(messages, answers, logger.NewNop())
	ctx := context.Background()

	answer := &model.Answer{
		Question: "q", Answer: "a",
		Audience: model.AudienceAll, Active: true, Approved: true,
	}
	require.NoError(t, answers.Create(ctx, answer))

	sess := &model.Session{Fingerprint: "anon-f", Audience: model.AudienceVisitor}
	require.NoError(t, sessions.Create(ctx, sess))

	msg := &model.Message{
		SessionID:       sess.ID,
		Role:            model.RoleAssistant,
		Content:         "a",
		MatchedAnswerID: &answer.ID,
	}
	require.NoError(t, messages.Append(ctx, msg))

	require.NoError(t, svc.Submit(ctx, msg.ID, true, "نافع جداً"))

	stored, err := answers.Get(ctx, answer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.HelpfulCount)

	got, err := messages.Get(ctx, msg.ID)
	require.NoError(t, err)
	require.NotNil(t, got.WasHelpful)
	assert.True(t, *got.WasHelpful)
}

func TestFeedbackSubmitUnhelpfulLeavesCounter(t *testing.T) {
	db := newTestDB(t)
	sessions := store.NewSessionRepository(db)
	messages := store.NewMessageRepository(db)
	answers := store.NewAnswerRepository(db)
	svc := NewFeedbackService(messages, answers, logger.NewNop())
	ctx := context.Background()

	answer := &model.Answer{
		Question: "q", Answer: "a",
		Audience: model.AudienceAll, Active: true, Approved: true,
	}
	require.NoError(t, answers.Create(ctx, answer))

	sess := &model.Session{Fingerprint: "anon-g", Audience: model.AudienceVisitor}
	require.NoError(t, sessions.Create(ctx, sess))

	msg := &model.Message{
		SessionID:       sess.ID,
		Role:            model.RoleAssistant,
		Content:         "a",
		MatchedAnswerID: &answer.ID,
	}
	require.NoError(t, messages.Append(ctx, msg))

	require.NoError(t, svc.Submit(ctx, msg.ID, false, ""))

	stored, err := answers.Get(ctx, answer.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.HelpfulCount)
}

func TestFeedbackSubmitUnknownMessage(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedbackService(store.NewMessageRepository(db), store.NewAnswerRepository(db), logger.NewNop())

	err := svc.Submit(context.Background(), "missing-id", true, "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
