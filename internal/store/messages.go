package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mazraati/assistant-platform/internal/model"
)

// MessageRepository handles turn-record persistence.
type MessageRepository struct {
	db *DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append inserts a message. IDs are UUIDv7 so insertion order and id order
// agree within a session.
func (r *MessageRepository) Append(ctx context.Context, m *model.Message) error {
	if m.ID == "" {
		m.ID = uuid.Must(uuid.NewV7()).String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	m.CreatedAt = m.CreatedAt.UTC().Truncate(time.Second)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, session_id, role, content, intent, confidence, matched_answer_id, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.SessionID, string(m.Role), m.Content,
		m.Intent, m.Confidence, m.MatchedAnswerID, m.LatencyMs, bindTime(m.CreatedAt))
	return err
}

// Get retrieves a message by ID.
func (r *MessageRepository) Get(ctx context.Context, id string) (*model.Message, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, session_id, role, content, intent, confidence, matched_answer_id, latency_ms, was_helpful, feedback_comment, created_at
		FROM messages WHERE id = ?
	`, id)
	return scanMessage(row)
}

// ListBySession returns the most recent limit messages of a session in append
// order (oldest of the window first).
func (r *MessageRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, intent, confidence, matched_answer_id, latency_ms, was_helpful, feedback_comment, created_at
		FROM (
			SELECT * FROM messages WHERE session_id = ?
			ORDER BY created_at DESC, id DESC LIMIT ?
		) ORDER BY created_at ASC, id ASC
	`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

// CountBySession returns the total number of messages logged for a session,
// independent of any history window.
func (r *MessageRepository) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM messages WHERE session_id = ?
	`, sessionID).Scan(&count)
	return count, err
}

// SetFeedback records post-hoc helpfulness feedback on a message. It is the
// only mutation messages allow.
func (r *MessageRepository) SetFeedback(ctx context.Context, id string, wasHelpful bool, comment string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE messages SET was_helpful = ?, feedback_comment = ? WHERE id = ?
	`, wasHelpful, nullString(comment), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMessage(row rowScanner) (*model.Message, error) {
	m := &model.Message{}
	var role string
	var intent, matchedAnswerID, feedbackComment sql.NullString
	var confidence sql.NullFloat64
	var latencyMs sql.NullInt64
	var wasHelpful sql.NullBool

	err := row.Scan(&m.ID, &m.SessionID, &role, &m.Content, &intent,
		&confidence, &matchedAnswerID, &latencyMs, &wasHelpful,
		&feedbackComment, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	m.Role = model.Role(role)
	if intent.Valid {
		m.Intent = &intent.String
	}
	if confidence.Valid {
		m.Confidence = &confidence.Float64
	}
	if matchedAnswerID.Valid {
		m.MatchedAnswerID = &matchedAnswerID.String
	}
	if latencyMs.Valid {
		m.LatencyMs = &latencyMs.Int64
	}
	if wasHelpful.Valid {
		m.WasHelpful = &wasHelpful.Bool
	}
	if feedbackComment.Valid {
		m.FeedbackComment = &feedbackComment.String
	}
	return m, nil
}
