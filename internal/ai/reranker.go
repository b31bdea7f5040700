package ai

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/logger"
	"github.com/spigell/staffmatch/internal/utils"
	"go.uber.org/zap"
)

const (
	DefaultTimeout      = 30 * time.Second
	defaultMaxLogLength = 200

	stage = "ai_rerank"
)

// Reranker orders a shortlist by the scores of a reasoning model.
type Reranker struct {
	client   ReasoningClient
	provider string
	logger   *zap.Logger

	Timeout     time.Duration
	MaxLogLen   int
	DocMaxRunes int
}

func NewReranker(client ReasoningClient, provider string, log *zap.Logger) *Reranker {
	model := ""
	if client != nil {
		model = client.Model()
	}

	return &Reranker{
		client:    client,
		provider:  provider,
		logger:    logger.WithCommonFields(log, provider, model),
		Timeout:   DefaultTimeout,
		MaxLogLen: defaultMaxLogLength,
	}
}

// Rerank asks the model to score the shortlist. On success the entries are
// stably sorted by AI score descending; on any failure they are returned in
// their input order without AI fields.
func (r *Reranker) Rerank(ctx context.Context, requestID string, target *candidate.Target, shortlist []Entry, docs map[string]string) Outcome {
	original := append([]Entry(nil), shortlist...)
	fail := func(reason string, fields ...zap.Field) Outcome {
		r.log().Warn("ai rerank failed, keeping deterministic order",
			append([]zap.Field{
				zap.String("request_id", requestID),
				zap.String("stage", stage),
				zap.String("reason", reason),
			}, fields...)...,
		)
		return Outcome{Entries: original, Failure: reason}
	}

	if r == nil || r.client == nil {
		return Outcome{Entries: original, Failure: "ai client is not configured"}
	}
	if len(shortlist) == 0 {
		return Outcome{Entries: original, Applied: true}
	}

	prompt := BuildPrompt(target, shortlist, docs, r.DocMaxRunes)
	promptFields := []zap.Field{
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, r.maxLogLen())),
	}
	r.log().Debug("ai generate content request",
		append([]zap.Field{zap.String("request_id", requestID), zap.Int("shortlist", len(shortlist))}, promptFields...)...,
	)

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	raw, err := r.client.GenerateContent(callCtx, prompt)
	elapsed := time.Since(started)
	if err != nil {
		reason := fmt.Sprintf("generate content: %v", err)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			reason = fmt.Sprintf("generate content: timed out after %s", timeout)
		}
		return fail(reason, append(promptFields, zap.Duration("elapsed", elapsed), zap.Error(err))...)
	}

	responseFields := []zap.Field{
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen())),
	}
	r.log().Debug("ai generate content response",
		append([]zap.Field{zap.String("request_id", requestID), zap.Duration("elapsed", elapsed)}, responseFields...)...,
	)

	parsed := ParseRanking(raw)
	if !parsed.OK {
		return fail(parsed.Failure, append(promptFields, responseFields...)...)
	}

	entries := Merge(original, parsed.Assessments)
	r.log().Info("ai rerank applied",
		zap.String("request_id", requestID),
		zap.Int("shortlist", len(entries)),
		zap.Int("assessed", len(parsed.Assessments)),
		zap.Duration("elapsed", elapsed),
	)
	return Outcome{Entries: entries, Applied: true}
}

// Merge attaches assessments to the shortlist by candidate id and sorts it by
// AI score descending. Candidates the model skipped get score 0 and a default
// reason. Ties keep their input order.
func Merge(shortlist []Entry, assessments Assessments) []Entry {
	merged := make([]Entry, len(shortlist))
	for i, e := range shortlist {
		score := float64(MinScore)
		reason := MissingReason
		if e.Candidate != nil {
			if a, ok := assessments[e.Candidate.ID]; ok {
				score = a.Score
				reason = a.Reason
			}
		}
		e.AIScore = &score
		e.MatchReason = reason
		merged[i] = e
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return *merged[i].AIScore > *merged[j].AIScore
	})
	return merged
}

func (r *Reranker) log() *zap.Logger {
	if r == nil || r.logger == nil {
		return zap.NewNop()
	}
	return r.logger
}

func (r *Reranker) maxLogLen() int {
	if r.MaxLogLen <= 0 {
		return defaultMaxLogLength
	}
	return r.MaxLogLen
}
