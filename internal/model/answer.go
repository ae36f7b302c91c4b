package model

import (
	"time"
)

// Answer is a curated question/answer pair in the knowledge corpus.
// An answer is eligible for matching only when both Active and Approved.
type Answer struct {
	ID           string    `json:"id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	IntentTags   []string  `json:"intent_tags,omitempty"`
	Audience     Audience  `json:"audience"`
	PageContexts []string  `json:"page_contexts,omitempty"`
	Approved     bool      `json:"approved"`
	Active       bool      `json:"active"`
	UsageCount   int64     `json:"usage_count"`
	HelpfulCount int64     `json:"helpful_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Category returns the answer's primary intent tag, if any.
func (a *Answer) Category() string {
	if len(a.IntentTags) == 0 {
		return ""
	}
	return a.IntentTags[0]
}

// CandidateSource identifies which lookup pass produced a candidate.
type CandidateSource string

const (
	SourceContext CandidateSource = "context"
	SourceCorpus  CandidateSource = "corpus"
)

// AnswerCandidate is a ranked match produced by the knowledge matcher.
type AnswerCandidate struct {
	Answer *Answer
	Score  int
	Source CandidateSource
}
