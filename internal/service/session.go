// Package service provides business logic for the assistant platform.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mazraati/assistant-platform/internal/model"
	"github.com/mazraati/assistant-platform/internal/store"
	"github.com/mazraati/assistant-platform/pkg/metrics"
)

// SessionService owns conversation-session lifecycle: lazy creation on first
// question, reuse by id, and reconciliation by user id or anonymous
// fingerprint.
type SessionService struct {
	sessions *store.SessionRepository
	messages *store.MessageRepository
}

// NewSessionService creates a new session service.
func NewSessionService(sessions *store.SessionRepository, messages *store.MessageRepository) *SessionService {
	return &SessionService{sessions: sessions, messages: messages}
}

// SessionParams describes the caller context for get-or-create.
type SessionParams struct {
	SessionID   string
	UserID      string
	Fingerprint string
	Audience    model.Audience
	CurrentPage string
	Language    string
}

// GetOrCreate reuses the supplied session id when it resolves, otherwise
// finds the caller's most recent active session by identity (user id if
// authenticated, fingerprint otherwise), and creates a fresh session when
// neither exists. The resolved session's last-activity timestamp is
// refreshed on every call.
func (s *SessionService) GetOrCreate(ctx context.Context, p SessionParams) (*model.Session, error) {
	if p.SessionID != "" {
		sess, err := s.sessions.Get(ctx, p.SessionID)
		if err == nil && sess.Active {
			if err := s.sessions.Touch(ctx, sess.ID, p.CurrentPage); err != nil {
				return nil, fmt.Errorf("failed to touch session: %w", err)
			}
			sess.CurrentPage = p.CurrentPage
			return sess, nil
		}
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		// Unknown or deactivated id: fall through to identity lookup.
	}

	var (
		sess *model.Session
		err  error
	)
	if p.UserID != "" {
		sess, err = s.sessions.FindByUser(ctx, p.UserID)
	} else {
		sess, err = s.sessions.FindByFingerprint(ctx, p.Fingerprint)
	}
	if err == nil {
		if err := s.sessions.Touch(ctx, sess.ID, p.CurrentPage); err != nil {
			return nil, fmt.Errorf("failed to touch session: %w", err)
		}
		sess.CurrentPage = p.CurrentPage
		return sess, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	sess = &model.Session{
		UserID:      p.UserID,
		Audience:    p.Audience,
		CurrentPage: p.CurrentPage,
		Language:    p.Language,
	}
	if p.UserID == "" {
		sess.Fingerprint = p.Fingerprint
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	kind := "anonymous"
	if p.UserID != "" {
		kind = "user"
	}
	metrics.SessionsCreated.WithLabelValues(kind).Inc()
	return sess, nil
}

// Touch refreshes a session's last-activity timestamp.
func (s *SessionService) Touch(ctx context.Context, id, currentPage string) error {
	return s.sessions.Touch(ctx, id, currentPage)
}

// Deactivate closes a session without deleting it.
func (s *SessionService) Deactivate(ctx context.Context, id string) error {
	return s.sessions.Deactivate(ctx, id)
}

// Get loads a session by id.
func (s *SessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	return s.sessions.Get(ctx, id)
}

// History returns the most recent limit turn records of a session, in append
// order. The message log is the source of truth for conversation history.
func (s *SessionService) History(ctx context.Context, sessionID string, limit int) (*model.ListMessagesResponse, error) {
	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	messages, err := s.messages.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	total, err := s.messages.CountBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	return &model.ListMessagesResponse{
		Messages: messages,
		Total:    total,
	}, nil
}
