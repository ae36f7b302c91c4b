package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mazraati/assistant-platform/internal/model"
)

// AnswerRepository handles the curated FAQ corpus. The engine is a read-mostly
// consumer; authoring happens in an external curation process.
type AnswerRepository struct {
	db *DB
}

// NewAnswerRepository creates a new answer repository.
func NewAnswerRepository(db *DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// Create inserts an answer. Used by seeding and tests; curation is external.
func (r *AnswerRepository) Create(ctx context.Context, a *model.Answer) error {
	if a.ID == "" {
		a.ID = uuid.Must(uuid.NewV7()).String()
	}
	now := time.Now().UTC().Truncate(time.Second)
	a.CreatedAt = now
	a.UpdatedAt = now

	tags, _ := json.Marshal(a.IntentTags)
	pages, _ := json.Marshal(a.PageContexts)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO answers (id, question, answer, intent_tags, audience, page_contexts, approved, active, usage_count, helpful_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Question, a.Answer, string(tags), string(a.Audience), string(pages),
		a.Approved, a.Active, a.UsageCount, a.HelpfulCount, bindTime(a.CreatedAt), bindTime(a.UpdatedAt))
	return err
}

// Get retrieves an answer by ID.
func (r *AnswerRepository) Get(ctx context.Context, id string) (*model.Answer, error) {
	row := r.db.QueryRowContext(ctx, answerColumns+` WHERE id = ?`, id)
	return scanAnswer(row)
}

// ListEligible returns all active and approved answers.
func (r *AnswerRepository) ListEligible(ctx context.Context) ([]model.Answer, error) {
	rows, err := r.db.QueryContext(ctx, answerColumns+` WHERE active = 1 AND approved = 1`)
	if err != nil {
		return nil, err
	}
	return collectAnswers(rows)
}

// TopUsed returns up to limit eligible answers ordered by usage count.
func (r *AnswerRepository) TopUsed(ctx context.Context, limit int) ([]model.Answer, error) {
	rows, err := r.db.QueryContext(ctx, answerColumns+`
		WHERE active = 1 AND approved = 1
		ORDER BY usage_count DESC, id ASC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	return collectAnswers(rows)
}

// IncrementUsage bumps an answer's usage counter.
func (r *AnswerRepository) IncrementUsage(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE answers SET usage_count = usage_count + 1, updated_at = ? WHERE id = ?
	`, bindTime(time.Now()), id)
	return err
}

// IncrementHelpful bumps an answer's helpful counter.
func (r *AnswerRepository) IncrementHelpful(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE answers SET helpful_count = helpful_count + 1, updated_at = ? WHERE id = ?
	`, bindTime(time.Now()), id)
	return err
}

// CountCreatedOn counts answers authored on a given day (YYYY-MM-DD).
func (r *AnswerRepository) CountCreatedOn(ctx context.Context, date string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM answers WHERE date(created_at) = ?
	`, date).Scan(&count)
	return count, err
}

const answerColumns = `
	SELECT id, question, answer, intent_tags, audience, page_contexts, approved, active, usage_count, helpful_count, created_at, updated_at
	FROM answers`

func collectAnswers(rows *sql.Rows) ([]model.Answer, error) {
	defer rows.Close()
	var answers []model.Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		answers = append(answers, *a)
	}
	return answers, rows.Err()
}

func scanAnswer(row rowScanner) (*model.Answer, error) {
	a := &model.Answer{}
	var audience string
	var tags, pages sql.NullString

	err := row.Scan(&a.ID, &a.Question, &a.Answer, &tags, &audience, &pages,
		&a.Approved, &a.Active, &a.UsageCount, &a.HelpfulCount, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	a.Audience = model.Audience(audience)
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &a.IntentTags); err != nil {
			return nil, fmt.Errorf("failed to decode intent tags for answer %s: %w", a.ID, err)
		}
	}
	if pages.Valid && pages.String != "" {
		if err := json.Unmarshal([]byte(pages.String), &a.PageContexts); err != nil {
			return nil, fmt.Errorf("failed to decode page contexts for answer %s: %w", a.ID, err)
		}
	}
	return a, nil
}
