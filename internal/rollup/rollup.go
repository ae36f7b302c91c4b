// Package rollup computes the daily quality metrics off the request path.
package rollup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mazraati/assistant-platform/internal/model"
	"github.com/mazraati/assistant-platform/internal/store"
	"github.com/mazraati/assistant-platform/pkg/logger"
	"github.com/mazraati/assistant-platform/pkg/metrics"
)

// Aggregator computes one day's DailyMetric row from the message log,
// session table, and answer corpus. Recomputing a day overwrites its row.
type Aggregator struct {
	metrics    *store.MetricRepository
	answers    *store.AnswerRepository
	unanswered *store.UnansweredRepository
	logger     *logger.Logger
}

// NewAggregator creates a new rollup aggregator.
func NewAggregator(
	metricRepo *store.MetricRepository,
	answers *store.AnswerRepository,
	unanswered *store.UnansweredRepository,
	log *logger.Logger,
) *Aggregator {
	return &Aggregator{
		metrics:    metricRepo,
		answers:    answers,
		unanswered: unanswered,
		logger:     log,
	}
}

// ComputeDay aggregates and upserts metrics for one date (YYYY-MM-DD).
// Idempotent: calling it twice for the same day yields the same single row.
func (a *Aggregator) ComputeDay(ctx context.Context, date string) (*model.DailyMetric, error) {
	start := time.Now()

	turns, err := a.metrics.TurnStatsFor(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate turn stats: %w", err)
	}

	conversations, unique, returning, err := a.metrics.SessionStatsFor(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate session stats: %w", err)
	}

	newAnswers, err := a.answers.CountCreatedOn(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to count new answers: %w", err)
	}

	newTopics, err := a.unanswered.CountCreatedOn(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to count new topics: %w", err)
	}

	m := &model.DailyMetric{
		Date:              date,
		ConversationCount: conversations,
		AnsweredCount:     turns.Answered,
		UnansweredCount:   turns.Fallback,
		EscalatedCount:    turns.Escalated,
		AvgConfidence:     turns.AvgConfidence,
		AvgLatencyMs:      turns.AvgLatencyMs,
		HelpfulCount:      turns.Helpful,
		UnhelpfulCount:    turns.Unhelpful,
		NewAnswerCount:    newAnswers,
		NewTopicCount:     newTopics,
		UniqueAskers:      unique,
		ReturningAskers:   returning,
		ComputedAt:        time.Now().UTC(),
	}
	if rated := turns.Helpful + turns.Unhelpful; rated > 0 {
		m.SatisfactionRate = float64(turns.Helpful) / float64(rated)
	}

	if err := a.metrics.Upsert(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to store daily metric: %w", err)
	}

	metrics.RollupDuration.Observe(time.Since(start).Seconds())
	a.logger.Info("daily metrics computed",
		zap.String("date", date),
		zap.Int64("conversations", m.ConversationCount),
		zap.Int64("answered", m.AnsweredCount),
		zap.Int64("unanswered", m.UnansweredCount),
	)
	return m, nil
}

// Runner schedules the aggregator: once per day after the configured UTC
// hour, plus on-demand via Trigger (fed by the NATS rollup subject).
type Runner struct {
	agg           *Aggregator
	hourUTC       int
	checkInterval time.Duration
	logger        *logger.Logger

	trigger chan string
}

// NewRunner creates a rollup runner.
func NewRunner(agg *Aggregator, hourUTC int, checkInterval time.Duration, log *logger.Logger) *Runner {
	return &Runner{
		agg:           agg,
		hourUTC:       hourUTC,
		checkInterval: checkInterval,
		logger:        log,
		trigger:       make(chan string, 8),
	}
}

// Trigger requests recomputation of a day. An empty date means yesterday.
// Non-blocking: requests are dropped when the queue is full.
func (r *Runner) Trigger(date string) {
	select {
	case r.trigger <- date:
	default:
		r.logger.Warn("rollup trigger queue full, dropping request")
	}
}

// Run loops until ctx is cancelled. On each tick it computes yesterday's
// metrics if the scheduled hour has passed and that day was not yet computed;
// upserts make redundant recomputation harmless.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case date := <-r.trigger:
			if date == "" {
				date = yesterday()
			}
			if _, err := r.agg.ComputeDay(ctx, date); err != nil {
				r.logger.Error("triggered rollup failed", zap.String("date", date), zap.Error(err))
			}
		case <-ticker.C:
			if time.Now().UTC().Hour() < r.hourUTC {
				continue
			}
			date := yesterday()
			if _, err := r.agg.metrics.Get(ctx, date); err == nil {
				continue // already computed
			}
			if _, err := r.agg.ComputeDay(ctx, date); err != nil {
				r.logger.Error("scheduled rollup failed", zap.String("date", date), zap.Error(err))
			}
		}
	}
}

func yesterday() string {
	return time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
}
