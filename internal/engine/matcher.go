package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/mazraati/assistant-platform/internal/model"
	"github.com/mazraati/assistant-platform/internal/store"
)

// MatchConfig holds the matcher's tunable weights. The defaults mirror
// observed production behavior.
type MatchConfig struct {
	PhraseBonus     int // full-phrase substring bonus
	WordPoint       int // per overlapping query word
	AcceptThreshold int // strict: score must exceed this
	MaxCandidates   int // candidates returned per pass
}

// DefaultMatchConfig returns the weights the platform shipped with.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		PhraseBonus:     10,
		WordPoint:       1,
		AcceptThreshold: 3,
		MaxCandidates:   5,
	}
}

// MatchContext scopes a lookup to the caller's audience and page.
type MatchContext struct {
	Audience model.Audience
	Page     string
}

// Matcher performs the two-pass knowledge lookup.
type Matcher struct {
	answers *store.AnswerRepository
	cfg     MatchConfig
}

// NewMatcher creates a new knowledge matcher.
func NewMatcher(answers *store.AnswerRepository, cfg MatchConfig) *Matcher {
	if cfg.MaxCandidates <= 0 {
		cfg = DefaultMatchConfig()
	}
	return &Matcher{answers: answers, cfg: cfg}
}

// Match runs the context-scoped pass and, only if it yields nothing, the
// corpus-wide lexical pass. Candidates are returned best first.
func (m *Matcher) Match(ctx context.Context, question string, mc MatchContext) ([]model.AnswerCandidate, error) {
	eligible, err := m.answers.ListEligible(ctx)
	if err != nil {
		return nil, err
	}

	if candidates := m.contextPass(eligible, mc); len(candidates) > 0 {
		return candidates, nil
	}
	return m.corpusPass(eligible, question), nil
}

// Accept reports whether the best candidate clears the acceptance threshold.
// A score equal to the threshold is rejected.
func (m *Matcher) Accept(candidates []model.AnswerCandidate) (*model.AnswerCandidate, bool) {
	if len(candidates) == 0 {
		return nil, false
	}
	best := candidates[0]
	if best.Score <= m.cfg.AcceptThreshold {
		return nil, false
	}
	return &best, true
}

// Confidence normalizes a score into [0, 1].
func (m *Matcher) Confidence(score int) float64 {
	c := float64(score) / float64(m.cfg.PhraseBonus)
	if c > 1 {
		return 1
	}
	return c
}

// contextPass filters for curated page answers. Page-scoped answers are
// presumed curated exactly for their slot, so they carry the full phrase
// bonus as their score and need no ranking beyond the filter.
func (m *Matcher) contextPass(eligible []model.Answer, mc MatchContext) []model.AnswerCandidate {
	var candidates []model.AnswerCandidate
	for i := range eligible {
		a := &eligible[i]
		if a.Audience != model.AudienceAll && a.Audience != mc.Audience {
			continue
		}
		if !containsString(a.PageContexts, mc.Page) {
			continue
		}
		candidates = append(candidates, model.AnswerCandidate{
			Answer: a,
			Score:  m.cfg.PhraseBonus,
			Source: model.SourceContext,
		})
		if len(candidates) == m.cfg.MaxCandidates {
			break
		}
	}
	return candidates
}

// corpusPass scores every eligible answer lexically: the phrase bonus when
// the whole lowercased question is a substring of the candidate question,
// plus a point per whitespace-delimited query word contained in it. Only
// positive scores survive; ties break by answer id so ranking stays
// deterministic for identical (question, corpus) pairs.
func (m *Matcher) corpusPass(eligible []model.Answer, question string) []model.AnswerCandidate {
	query := strings.ToLower(strings.TrimSpace(question))
	words := strings.Fields(query)

	var candidates []model.AnswerCandidate
	for i := range eligible {
		a := &eligible[i]
		target := strings.ToLower(a.Question)

		score := 0
		if query != "" && strings.Contains(target, query) {
			score += m.cfg.PhraseBonus
		}
		for _, w := range words {
			if strings.Contains(target, w) {
				score += m.cfg.WordPoint
			}
		}
		if score > 0 {
			candidates = append(candidates, model.AnswerCandidate{
				Answer: a,
				Score:  score,
				Source: model.SourceCorpus,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Answer.ID < candidates[j].Answer.ID
	})

	if len(candidates) > m.cfg.MaxCandidates {
		candidates = candidates[:m.cfg.MaxCandidates]
	}
	return candidates
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
