package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mazraati/assistant-platform/internal/model"
)

// UnansweredRepository maintains the deduplicated unanswered-question backlog.
type UnansweredRepository struct {
	db *DB
}

// NewUnansweredRepository creates a new unanswered-question repository.
func NewUnansweredRepository(db *DB) *UnansweredRepository {
	return &UnansweredRepository{db: db}
}

// Record performs the find-or-increment dedup: an exact string match against
// an existing 'new' record increments its frequency and refreshes its
// timestamp; otherwise a fresh row is inserted with frequency 1.
//
// This is a read-then-write sequence with no locking. Under concurrent
// identical questions a rare duplicate row is accepted behavior.
func (r *UnansweredRepository) Record(ctx context.Context, question string, audience model.Audience, pageContext string) error {
	var id string
	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM unanswered_questions
		WHERE question = ? AND status = ?
		ORDER BY created_at ASC LIMIT 1
	`, question, model.UnansweredStatusNew).Scan(&id)

	now := bindTime(time.Now())

	if err == nil {
		_, err = r.db.ExecContext(ctx, `
			UPDATE unanswered_questions SET frequency = frequency + 1, updated_at = ? WHERE id = ?
		`, now, id)
		return err
	}
	if !isNoRows(err) {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO unanswered_questions (id, question, audience, context, status, frequency, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?, ?)
	`, uuid.Must(uuid.NewV7()).String(), question, string(audience), pageContext,
		model.UnansweredStatusNew, now, now)
	return err
}

// ListByStatus returns backlog entries with the given status, most frequent
// first, for operator triage.
func (r *UnansweredRepository) ListByStatus(ctx context.Context, status string, limit int) ([]model.UnansweredQuestion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, question, audience, context, status, frequency, created_at, updated_at
		FROM unanswered_questions WHERE status = ?
		ORDER BY frequency DESC, updated_at DESC LIMIT ?
	`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.UnansweredQuestion
	for rows.Next() {
		var q model.UnansweredQuestion
		var audience string
		if err := rows.Scan(&q.ID, &q.Question, &audience, &q.Context,
			&q.Status, &q.Frequency, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		q.Audience = model.Audience(audience)
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CountCreatedOn counts backlog topics first recorded on a given day
// (YYYY-MM-DD). Frequency bumps on existing topics do not count.
func (r *UnansweredRepository) CountCreatedOn(ctx context.Context, date string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM unanswered_questions WHERE date(created_at) = ?
	`, date).Scan(&count)
	return count, err
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
