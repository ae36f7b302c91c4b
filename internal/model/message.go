package model

import (
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message represents one turn record in a session. Messages are immutable
// once written except for the feedback fields.
type Message struct {
	// Identity
	ID        string `json:"id"`
	SessionID string `json:"session_id"`

	// Content
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// Resolution metadata (nullable for user/system messages)
	Intent          *string  `json:"intent,omitempty"`
	Confidence      *float64 `json:"confidence,omitempty"`
	MatchedAnswerID *string  `json:"matched_answer_id,omitempty"`
	LatencyMs       *int64   `json:"latency_ms,omitempty"`

	// Post-hoc helpfulness feedback
	WasHelpful      *bool   `json:"was_helpful,omitempty"`
	FeedbackComment *string `json:"feedback_comment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ListMessagesResponse is the response for listing session history. Total is
// the session's full message count, which can exceed len(Messages) when the
// history window limit applies.
type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
}

// FeedbackRequest is the request to record helpfulness feedback on a message.
type FeedbackRequest struct {
	WasHelpful bool   `json:"was_helpful"`
	Comment    string `json:"comment,omitempty"`
}
