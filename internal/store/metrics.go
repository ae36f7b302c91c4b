package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mazraati/assistant-platform/internal/model"
)

// MetricRepository handles the daily rollup rows.
type MetricRepository struct {
	db *DB
}

// NewMetricRepository creates a new metric repository.
func NewMetricRepository(db *DB) *MetricRepository {
	return &MetricRepository{db: db}
}

// Upsert writes a day's rollup, replacing any previous computation for that
// date. daily_metrics has a natural primary key so the upsert is safe.
func (r *MetricRepository) Upsert(ctx context.Context, m *model.DailyMetric) error {
	if m.ComputedAt.IsZero() {
		m.ComputedAt = time.Now().UTC()
	}
	m.ComputedAt = m.ComputedAt.UTC().Truncate(time.Second)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO daily_metrics (date, conversation_count, answered_count, unanswered_count, escalated_count,
			avg_confidence, avg_latency_ms, helpful_count, unhelpful_count, satisfaction_rate,
			new_answer_count, new_topic_count, unique_askers, returning_askers, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			conversation_count = excluded.conversation_count,
			answered_count = excluded.answered_count,
			unanswered_count = excluded.unanswered_count,
			escalated_count = excluded.escalated_count,
			avg_confidence = excluded.avg_confidence,
			avg_latency_ms = excluded.avg_latency_ms,
			helpful_count = excluded.helpful_count,
			unhelpful_count = excluded.unhelpful_count,
			satisfaction_rate = excluded.satisfaction_rate,
			new_answer_count = excluded.new_answer_count,
			new_topic_count = excluded.new_topic_count,
			unique_askers = excluded.unique_askers,
			returning_askers = excluded.returning_askers,
			computed_at = excluded.computed_at
	`, m.Date, m.ConversationCount, m.AnsweredCount, m.UnansweredCount, m.EscalatedCount,
		m.AvgConfidence, m.AvgLatencyMs, m.HelpfulCount, m.UnhelpfulCount, m.SatisfactionRate,
		m.NewAnswerCount, m.NewTopicCount, m.UniqueAskers, m.ReturningAskers, bindTime(m.ComputedAt))
	return err
}

// Get retrieves a day's rollup.
func (r *MetricRepository) Get(ctx context.Context, date string) (*model.DailyMetric, error) {
	m := &model.DailyMetric{}
	err := r.db.QueryRowContext(ctx, `
		SELECT date, conversation_count, answered_count, unanswered_count, escalated_count,
			avg_confidence, avg_latency_ms, helpful_count, unhelpful_count, satisfaction_rate,
			new_answer_count, new_topic_count, unique_askers, returning_askers, computed_at
		FROM daily_metrics WHERE date = ?
	`, date).Scan(&m.Date, &m.ConversationCount, &m.AnsweredCount, &m.UnansweredCount,
		&m.EscalatedCount, &m.AvgConfidence, &m.AvgLatencyMs, &m.HelpfulCount,
		&m.UnhelpfulCount, &m.SatisfactionRate, &m.NewAnswerCount, &m.NewTopicCount,
		&m.UniqueAskers, &m.ReturningAskers, &m.ComputedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// TurnStats aggregates assistant-message outcomes for one day.
type TurnStats struct {
	Answered      int64
	Escalated     int64
	Fallback      int64
	AvgConfidence float64
	AvgLatencyMs  float64
	Helpful       int64
	Unhelpful     int64
}

// TurnStatsFor computes per-outcome counts and averages over a day's
// assistant messages. Outcomes are derived from the resolution metadata:
// confidence 1 with no matched answer is an escalation, a matched answer is
// an accepted match, and the rest are fallbacks.
func (r *MetricRepository) TurnStatsFor(ctx context.Context, date string) (*TurnStats, error) {
	s := &TurnStats{}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN matched_answer_id IS NOT NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN matched_answer_id IS NULL AND confidence >= 1.0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN matched_answer_id IS NULL AND (confidence IS NULL OR confidence < 1.0) THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(confidence), 0),
			COALESCE(AVG(latency_ms), 0),
			COALESCE(SUM(CASE WHEN was_helpful = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN was_helpful = 0 THEN 1 ELSE 0 END), 0)
		FROM messages
		WHERE role = 'assistant' AND date(created_at) = ?
	`, date).Scan(&s.Answered, &s.Escalated, &s.Fallback, &s.AvgConfidence,
		&s.AvgLatencyMs, &s.Helpful, &s.Unhelpful)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SessionStatsFor computes session activity for one day: sessions active that
// day, sessions started that day (unique askers), and sessions started
// earlier but active that day (returning askers).
func (r *MetricRepository) SessionStatsFor(ctx context.Context, date string) (conversations, unique, returning int64, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN date(started_at) = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN date(started_at) < ? THEN 1 ELSE 0 END), 0)
		FROM sessions
		WHERE id IN (SELECT DISTINCT session_id FROM messages WHERE date(created_at) = ?)
	`, date, date, date).Scan(&conversations, &unique, &returning)
	return conversations, unique, returning, err
}
