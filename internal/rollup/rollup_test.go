package rollup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazraati/assistant-platform/internal/model"
	"github.com/mazraati/assistant-platform/internal/store"
	"github.com/mazraati/assistant-platform/pkg/logger"
)

type fixture struct {
	agg        *Aggregator
	metrics    *store.MetricRepository
	sessions   *store.SessionRepository
	messages   *store.MessageRepository
	answers    *store.AnswerRepository
	unanswered *store.UnansweredRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	metricRepo := store.NewMetricRepository(db)
	answerRepo := store.NewAnswerRepository(db)
	unansweredRepo := store.NewUnansweredRepository(db)

	return &fixture{
		agg:        NewAggregator(metricRepo, answerRepo, unansweredRepo, logger.NewNop()),
		metrics:    metricRepo,
		sessions:   store.NewSessionRepository(db),
		messages:   store.NewMessageRepository(db),
		answers:    answerRepo,
		unanswered: unansweredRepo,
	}
}

func (f *fixture) addTurn(t *testing.T, sessionID string, matchedAnswerID string, confidence float64, helpful *bool) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, f.messages.Append(ctx, &model.Message{
		SessionID: sessionID,
		Role:      model.RoleUser,
		Content:   "question",
	}))

	latency := int64(10)
	m := &model.Message{
		SessionID:  sessionID,
		Role:       model.RoleAssistant,
		Content:    "answer",
		Confidence: &confidence,
		LatencyMs:  &latency,
	}
	if matchedAnswerID != "" {
		m.MatchedAnswerID = &matchedAnswerID
	}
	require.NoError(t, f.messages.Append(ctx, m))
	if helpful != nil {
		require.NoError(t, f.messages.SetFeedback(ctx, m.ID, *helpful, ""))
	}
}

func TestComputeDayAggregatesOutcomes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := time.Now().UTC().Format("2006-01-02")

	sess := &model.Session{Fingerprint: "anon-1", Audience: model.AudienceVisitor}
	require.NoError(t, f.sessions.Create(ctx, sess))

	yes, no := true, false
	f.addTurn(t, sess.ID, "answer-1", 1.0, &yes)  // accepted match
	f.addTurn(t, sess.ID, "answer-2", 0.6, &no)   // accepted match, unhelpful
	f.addTurn(t, sess.ID, "", 1.0, nil)           // escalation
	f.addTurn(t, sess.ID, "", 0, nil)             // fallback

	require.NoError(t, f.unanswered.Record(ctx, "unmatched question", model.AudienceVisitor, ""))

	m, err := f.agg.ComputeDay(ctx, today)
	require.NoError(t, err)

	assert.Equal(t, int64(2), m.AnsweredCount)
	assert.Equal(t, int64(1), m.EscalatedCount)
	assert.Equal(t, int64(1), m.UnansweredCount)
	assert.Equal(t, int64(1), m.ConversationCount)
	assert.Equal(t, int64(1), m.UniqueAskers)
	assert.Equal(t, int64(1), m.HelpfulCount)
	assert.Equal(t, int64(1), m.UnhelpfulCount)
	assert.Equal(t, 0.5, m.SatisfactionRate)
	assert.Equal(t, int64(1), m.NewTopicCount)
}

func TestComputeDayIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := time.Now().UTC().Format("2006-01-02")

	sess := &model.Session{Fingerprint: "anon-2", Audience: model.AudienceVisitor}
	require.NoError(t, f.sessions.Create(ctx, sess))
	f.addTurn(t, sess.ID, "answer-1", 1.0, nil)

	first, err := f.agg.ComputeDay(ctx, today)
	require.NoError(t, err)

	// New activity between runs is picked up, not double-counted.
	f.addTurn(t, sess.ID, "answer-2", 1.0, nil)

	second, err := f.agg.ComputeDay(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, first.AnsweredCount+1, second.AnsweredCount)

	stored, err := f.metrics.Get(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, second.AnsweredCount, stored.AnsweredCount)
}

func TestComputeDayEmpty(t *testing.T) {
	f := newFixture(t)

	m, err := f.agg.ComputeDay(context.Background(), "2020-01-01")
	require.NoError(t, err)
	assert.Zero(t, m.ConversationCount)
	assert.Zero(t, m.AnsweredCount)
	assert.Zero(t, m.SatisfactionRate)
}

func TestRunnerTriggerComputesDay(t *testing.T) {
	f := newFixture(t)
	runner := NewRunner(f.agg, 1, time.Hour, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runner.Run(ctx)

	today := time.Now().UTC().Format("2006-01-02")
	runner.Trigger(today)

	require.Eventually(t, func() bool {
		_, err := f.metrics.Get(context.Background(), today)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}
