package model

import (
	"time"
)

// DailyMetric is the one-row-per-date quality rollup computed off the request
// path. Recomputing a day overwrites its row.
type DailyMetric struct {
	Date              string    `json:"date"` // YYYY-MM-DD
	ConversationCount int64     `json:"conversation_count"`
	AnsweredCount     int64     `json:"answered_count"`
	UnansweredCount   int64     `json:"unanswered_count"`
	EscalatedCount    int64     `json:"escalated_count"`
	AvgConfidence     float64   `json:"avg_confidence"`
	AvgLatencyMs      float64   `json:"avg_latency_ms"`
	HelpfulCount      int64     `json:"helpful_count"`
	UnhelpfulCount    int64     `json:"unhelpful_count"`
	SatisfactionRate  float64   `json:"satisfaction_rate"`
	NewAnswerCount    int64     `json:"new_answer_count"`
	NewTopicCount     int64     `json:"new_topic_count"`
	UniqueAskers      int64     `json:"unique_askers"`
	ReturningAskers   int64     `json:"returning_askers"`
	ComputedAt        time.Time `json:"computed_at"`
}
