// Package model defines data structures for the assistant platform.
package model

import (
	"time"
)

// Audience classifies the caller for answer scoping.
type Audience string

const (
	AudienceVisitor       Audience = "visitor"
	AudienceAuthenticated Audience = "authenticated"
	AudienceInvestor      Audience = "investor"
	AudiencePartner       Audience = "partner"
	AudienceAdmin         Audience = "admin"

	// AudienceAll is only valid on answers, never on sessions.
	AudienceAll Audience = "all"
)

// ParseAudience maps a raw role string to an Audience, defaulting to visitor.
func ParseAudience(s string) Audience {
	switch Audience(s) {
	case AudienceAuthenticated, AudienceInvestor, AudiencePartner, AudienceAdmin:
		return Audience(s)
	default:
		return AudienceVisitor
	}
}

// Session represents a conversation session. A session is keyed by either an
// authenticated user ID or an anonymous fingerprint, never both. Sessions are
// deactivated, never deleted.
type Session struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id,omitempty"`
	Fingerprint    string    `json:"fingerprint,omitempty"`
	Audience       Audience  `json:"audience"`
	CurrentPage    string    `json:"current_page"`
	Language       string    `json:"language"`
	Active         bool      `json:"active"`
	StartedAt      time.Time `json:"started_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}
