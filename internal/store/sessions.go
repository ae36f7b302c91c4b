package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mazraati/assistant-platform/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// SessionRepository handles conversation-session persistence.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session.
func (r *SessionRepository) Create(ctx context.Context, s *model.Session) error {
	if s.ID == "" {
		s.ID = uuid.Must(uuid.NewV7()).String()
	}
	now := time.Now().UTC().Truncate(time.Second)
	s.StartedAt = now
	s.LastActivityAt = now
	s.Active = true

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, fingerprint, audience, current_page, language, active, started_at, last_activity_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)
	`, s.ID, nullString(s.UserID), nullString(s.Fingerprint), string(s.Audience),
		s.CurrentPage, s.Language, bindTime(s.StartedAt), bindTime(s.LastActivityAt))
	return err
}

// Get retrieves a session by ID.
func (r *SessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, fingerprint, audience, current_page, language, active, started_at, last_activity_at
		FROM sessions WHERE id = ?
	`, id)
	return scanSession(row)
}

// FindByUser returns the most recent active session for a user, or ErrNotFound.
func (r *SessionRepository) FindByUser(ctx context.Context, userID string) (*model.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, fingerprint, audience, current_page, language, active, started_at, last_activity_at
		FROM sessions WHERE user_id = ? AND active = 1
		ORDER BY last_activity_at DESC LIMIT 1
	`, userID)
	return scanSession(row)
}

// FindByFingerprint returns the most recent active session for a fingerprint,
// or ErrNotFound.
func (r *SessionRepository) FindByFingerprint(ctx context.Context, fingerprint string) (*model.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, fingerprint, audience, current_page, language, active, started_at, last_activity_at
		FROM sessions WHERE fingerprint = ? AND active = 1
		ORDER BY last_activity_at DESC LIMIT 1
	`, fingerprint)
	return scanSession(row)
}

// Touch refreshes a session's last-activity timestamp and current page.
func (r *SessionRepository) Touch(ctx context.Context, id, currentPage string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET last_activity_at = ?, current_page = ? WHERE id = ?
	`, bindTime(time.Now()), currentPage, id)
	return err
}

// Deactivate marks a session inactive. Sessions are never deleted.
func (r *SessionRepository) Deactivate(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sessions SET active = 0 WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*model.Session, error) {
	s := &model.Session{}
	var userID, fingerprint sql.NullString
	var audience string
	err := row.Scan(&s.ID, &userID, &fingerprint, &audience, &s.CurrentPage,
		&s.Language, &s.Active, &s.StartedAt, &s.LastActivityAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.UserID = userID.String
	s.Fingerprint = fingerprint.String
	s.Audience = model.Audience(audience)
	return s, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
