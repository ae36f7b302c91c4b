// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// TurnsTotal tracks resolved turns by terminal outcome and audience.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_turns_total",
			Help: "Resolved turns by outcome",
		},
		[]string{"outcome", "audience"},
	)

	// TurnDuration tracks end-to-end resolution latency.
	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_turn_duration_seconds",
			Help:    "Turn resolution duration",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"outcome"},
	)

	// MatchScore tracks raw lexical match scores of accepted answers.
	MatchScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assistant_match_score",
			Help:    "Lexical score of accepted matches",
			Buckets: []float64{1, 2, 3, 4, 5, 7, 10, 12, 15, 20},
		},
	)

	// UnansweredTotal tracks backlog writes from the fallback path.
	UnansweredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_unanswered_total",
			Help: "Questions recorded into the unanswered backlog",
		},
	)

	// EscalationsTotal tracks sensitive-scenario hits by scenario name.
	EscalationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_escalations_total",
			Help: "Sensitive-scenario escalations",
		},
		[]string{"scenario"},
	)

	// SessionsCreated tracks new sessions by identity kind.
	SessionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_sessions_created_total",
			Help: "Sessions created",
		},
		[]string{"kind"},
	)

	// RollupDuration tracks the daily metrics batch job.
	RollupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assistant_rollup_duration_seconds",
			Help:    "Daily metrics rollup duration",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 60},
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordTurn records metrics for a resolved turn.
func RecordTurn(outcome, audience string, duration float64) {
	TurnsTotal.WithLabelValues(outcome, audience).Inc()
	TurnDuration.WithLabelValues(outcome).Observe(duration)
}
