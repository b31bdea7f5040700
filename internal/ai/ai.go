// Package ai refines the top of a deterministic ranking with an external
// reasoning model. Any failure of the stage leaves the input order untouched.
package ai

import (
	"context"

	"github.com/spigell/staffmatch/internal/candidate"
)

// ReasoningClient sends a prompt to a model and returns its raw text reply.
type ReasoningClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Assessment is the model's verdict for one candidate.
type Assessment struct {
	CandidateID string  `json:"candidate_id"`
	Score       float64 `json:"score"`
	Reason      string  `json:"reason"`
}

// Assessments maps candidate ids to their assessment.
type Assessments map[string]Assessment

// Entry is one shortlisted candidate as handed to the reranker.
type Entry struct {
	Candidate  *candidate.Profile
	DistanceKm *float64
	Score      float64

	AIScore     *float64
	MatchReason string
}

// Outcome is the result of a rerank attempt. When Applied is false, Entries
// is the input shortlist in its original order and Failure names the cause.
type Outcome struct {
	Entries []Entry
	Applied bool
	Failure string
}
