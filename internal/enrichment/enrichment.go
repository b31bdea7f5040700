// Package enrichment fetches profile documents of shortlisted candidates and
// keeps a bounded prefix of their text as extra context for the AI stage.
package enrichment

import (
	"context"
	"strings"
	"time"

	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/utils"
	"github.com/spigell/staffmatch/internal/workpool"
	"go.uber.org/zap"
)

const (
	DefaultTimeout  = 8 * time.Second
	DefaultMaxChars = 2000

	stage = "enrichment"
)

// DocumentTextExtractor turns a document reference into plain text.
type DocumentTextExtractor interface {
	Extract(ctx context.Context, rawURL string) (string, error)
}

type Enricher struct {
	extractor DocumentTextExtractor
	logger    *zap.Logger

	Timeout  time.Duration
	MaxChars int
}

func New(extractor DocumentTextExtractor, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		extractor: extractor,
		logger:    logger,
		Timeout:   DefaultTimeout,
		MaxChars:  DefaultMaxChars,
	}
}

// Enrich returns document text keyed by candidate id. Candidates without a
// document, or whose fetch failed, are absent from the map.
func (e *Enricher) Enrich(ctx context.Context, shortlist []*candidate.Profile) map[string]string {
	docs := make(map[string]string)
	if e == nil || e.extractor == nil || len(shortlist) == 0 {
		return docs
	}

	// One slot per candidate; workers never share a slot.
	texts := make([]string, len(shortlist))
	fetch := 0
	for _, c := range shortlist {
		if c != nil && c.HasDocument() {
			fetch++
		}
	}
	if fetch == 0 {
		return docs
	}

	err := workpool.Run(ctx, len(shortlist), len(shortlist), func(ctx context.Context, idx int) {
		c := shortlist[idx]
		if c == nil || !c.HasDocument() {
			return
		}
		texts[idx] = e.fetch(ctx, c)
	})
	if err != nil {
		e.logger.Warn("document enrichment interrupted",
			zap.String("stage", stage),
			zap.Error(err),
		)
	}

	for i, c := range shortlist {
		if texts[i] != "" {
			docs[c.ID] = texts[i]
		}
	}

	e.logger.Debug("document enrichment finished",
		zap.String("stage", stage),
		zap.Int("requested", fetch),
		zap.Int("enriched", len(docs)),
	)
	return docs
}

func (e *Enricher) fetch(ctx context.Context, c *candidate.Profile) string {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	text, err := e.extractor.Extract(ctx, c.DocumentURL)
	if err != nil {
		e.logger.Warn("document enrichment failed",
			zap.String("stage", stage),
			zap.String("candidate_id", c.ID),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err),
		)
		return ""
	}

	maxChars := e.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return utils.Truncate(strings.TrimSpace(text), maxChars)
}
