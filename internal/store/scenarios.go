package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mazraati/assistant-platform/internal/model"
)

// ScenarioRepository handles sensitive-scenario trigger rules.
type ScenarioRepository struct {
	db *DB
}

// NewScenarioRepository creates a new scenario repository.
func NewScenarioRepository(db *DB) *ScenarioRepository {
	return &ScenarioRepository{db: db}
}

// Create inserts a scenario. Used by seeding and tests; rule authoring is
// an external admin concern.
func (r *ScenarioRepository) Create(ctx context.Context, s *model.Scenario) error {
	if s.ID == "" {
		s.ID = uuid.Must(uuid.NewV7()).String()
	}
	keywords, _ := json.Marshal(s.Keywords)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scenarios (id, name, keywords, response_template, requires_escalation, notify_operators, redirect_to_support, priority, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.Name, string(keywords), s.ResponseTemplate,
		s.RequiresEscalation, s.NotifyOperators, s.RedirectToSupport, s.Priority, s.Active)
	return err
}

// ListActive returns active scenarios ordered by descending priority.
// Evaluation order is the detection contract: first keyword hit wins.
func (r *ScenarioRepository) ListActive(ctx context.Context) ([]model.Scenario, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, keywords, response_template, requires_escalation, notify_operators, redirect_to_support, priority, active
		FROM scenarios WHERE active = 1
		ORDER BY priority DESC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenarios []model.Scenario
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, *s)
	}
	return scenarios, rows.Err()
}

func scanScenario(row rowScanner) (*model.Scenario, error) {
	s := &model.Scenario{}
	var keywords sql.NullString

	err := row.Scan(&s.ID, &s.Name, &keywords, &s.ResponseTemplate,
		&s.RequiresEscalation, &s.NotifyOperators, &s.RedirectToSupport,
		&s.Priority, &s.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if keywords.Valid && keywords.String != "" {
		if err := json.Unmarshal([]byte(keywords.String), &s.Keywords); err != nil {
			return nil, fmt.Errorf("failed to decode keywords for scenario %s: %w", s.ID, err)
		}
	}
	return s, nil
}
