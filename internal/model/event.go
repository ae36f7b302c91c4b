package model

import (
	"time"
)

// EventType represents the type of an assistant event published to NATS.
type EventType string

const (
	// EventTypeEscalation notifies operators that a sensitive scenario fired.
	EventTypeEscalation EventType = "escalation"
	// EventTypeRollupTrigger requests an on-demand metrics recomputation.
	EventTypeRollupTrigger EventType = "rollup_trigger"
)

// EscalationEvent is published when a scenario with notify_operators fires.
type EscalationEvent struct {
	ID        string    `json:"id"`
	Scenario  string    `json:"scenario"`
	Keyword   string    `json:"keyword"`
	Question  string    `json:"question"`
	SessionID string    `json:"session_id,omitempty"`
	Audience  Audience  `json:"audience"`
	Page      string    `json:"page"`
	CreatedAt time.Time `json:"created_at"`
}

// RollupTriggerEvent requests recomputation of a day's metrics.
// An empty Date means "yesterday".
type RollupTriggerEvent struct {
	Date string `json:"date,omitempty"` // YYYY-MM-DD
}
