// Package engine implements the conversational knowledge-resolution pipeline:
// sensitive-scenario detection, two-pass knowledge matching, and the fallback
// path that feeds the unanswered-question backlog.
package engine

import (
	"context"
	"strings"

	"github.com/mazraati/assistant-platform/internal/model"
	"github.com/mazraati/assistant-platform/internal/store"
)

// Detector intercepts questions that require escalation before any FAQ
// lookup happens. It is a hard gate, not a fallback.
type Detector struct {
	scenarios *store.ScenarioRepository
}

// NewDetector creates a new sensitive-scenario detector.
func NewDetector(scenarios *store.ScenarioRepository) *Detector {
	return &Detector{scenarios: scenarios}
}

// Detect scans active scenarios by descending priority and returns the first
// whose any trigger keyword is contained in the case-folded question.
// Containment is substring, not token-boundary aware; that precision
// trade-off is part of the contract. Returns nil when nothing triggers.
func (d *Detector) Detect(ctx context.Context, question string) (*model.ScenarioMatch, error) {
	scenarios, err := d.scenarios.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	folded := strings.ToLower(question)
	for i := range scenarios {
		s := &scenarios[i]
		for _, kw := range s.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(folded, strings.ToLower(kw)) {
				return &model.ScenarioMatch{Scenario: s, Keyword: kw}, nil
			}
		}
	}
	return nil, nil
}
