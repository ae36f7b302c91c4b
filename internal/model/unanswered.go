package model

import (
	"time"
)

// Unanswered-question statuses.
const (
	UnansweredStatusNew      = "new"
	UnansweredStatusReviewed = "reviewed"
	UnansweredStatusAnswered = "answered"
)

// UnansweredQuestion is a backlog entry for a question the engine could not
// answer. An exact string collision with an existing "new" record increments
// Frequency instead of inserting a duplicate row.
type UnansweredQuestion struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Audience  Audience  `json:"audience"`
	Context   string    `json:"context"`
	Status    string    `json:"status"`
	Frequency int64     `json:"frequency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
