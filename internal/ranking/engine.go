// Package ranking turns a target and a candidate pool into an ordered,
// explainable candidate list.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/spigell/staffmatch/internal/ai"
	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/filtering"
	"github.com/spigell/staffmatch/internal/geo"
	"github.com/spigell/staffmatch/internal/logger"
	"github.com/spigell/staffmatch/internal/scoring"
	"github.com/spigell/staffmatch/internal/workpool"
)

// Scope selects the candidate pool a repository returns.
type Scope struct {
	UnitID string
	Owner  string
}

// CandidateRepository returns the candidates visible in a scope.
type CandidateRepository interface {
	Candidates(ctx context.Context, scope Scope) ([]*candidate.Profile, error)
}

// TargetRepository resolves a target id. Unknown ids yield a NotFoundError.
type TargetRepository interface {
	Target(ctx context.Context, id string) (*candidate.Target, error)
}

// Enricher loads document text for shortlisted candidates.
type Enricher interface {
	Enrich(ctx context.Context, shortlist []*candidate.Profile) map[string]string
}

// Reranker refines a shortlist. It must return the input order on failure.
type Reranker interface {
	Rerank(ctx context.Context, requestID string, target *candidate.Target, shortlist []ai.Entry, docs map[string]string) ai.Outcome
}

// Request is one matching call. Target wins over TargetID; Pool wins over the
// candidate repository.
type Request struct {
	Target   *candidate.Target
	TargetID string
	Pool     []*candidate.Profile
	Scope    Scope
	Mode     Mode
	Options  Options
}

type Engine struct {
	candidates CandidateRepository
	targets    TargetRepository
	enricher   Enricher
	reranker   Reranker
	probe      filtering.DocumentProbe
	locale     language.Tag
	logger     *zap.Logger
	newID      func() string
}

type EngineOption func(*Engine)

func WithEnricher(e Enricher) EngineOption {
	return func(engine *Engine) { engine.enricher = e }
}

func WithReranker(r Reranker) EngineOption {
	return func(engine *Engine) { engine.reranker = r }
}

// WithDocumentProbe checks document availability when documents are required.
func WithDocumentProbe(p filtering.DocumentProbe) EngineOption {
	return func(engine *Engine) { engine.probe = p }
}

// WithLocale sets the collation used for the name tie-break.
func WithLocale(tag language.Tag) EngineOption {
	return func(engine *Engine) { engine.locale = tag }
}

func NewEngine(candidates CandidateRepository, targets TargetRepository, log *zap.Logger, opts ...EngineOption) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		candidates: candidates,
		targets:    targets,
		locale:     language.German,
		logger:     log,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Match ranks the eligible pool for the request target. Validation and lookup
// problems are returned as errors before any scoring. Failures of the
// document and AI stages only degrade the result. Once the deterministic
// ranking exists, cancellation returns it instead of an error.
func (e *Engine) Match(ctx context.Context, req Request) (*Result, error) {
	if req.Mode == "" {
		req.Mode = ModePoints
	}
	if !req.Mode.Valid() {
		return nil, invalid("mode", "unknown mode %q", req.Mode)
	}

	opts := req.Options.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	requestID := e.newID()
	started := time.Now()

	target, err := e.resolveTarget(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := validateTarget(target, req.Mode); err != nil {
		return nil, err
	}

	profile, err := opts.weightProfile(target)
	if err != nil {
		return nil, err
	}

	log := logger.WithFields(e.logger, logger.RequestFields(requestID, target.ID, string(req.Mode))...)
	log = log.With(zap.String("profile", profile.Name))

	pool, err := e.loadPool(ctx, req, target)
	if err != nil {
		return nil, err
	}

	cfg := &filtering.Config{
		Requester:       opts.Requester,
		SelfID:          opts.SelfID,
		RequireDocument: opts.RequireDocument,
		ApplyCriteria:   opts.ApplyCriteria,
	}
	steps := filtering.Default(cfg)
	eligible, err := filtering.Run(ctx, cfg, filtering.Deps{Logger: log, Target: target, Probe: e.probe}, steps, pool)
	if err != nil {
		return nil, fmt.Errorf("filter candidate pool: %w", err)
	}
	// An empty pool skips scoring, so a deadline hit while filtering shows up here.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Debug("filter chain", zap.Any("steps", filtering.Describe(steps)))

	ranked, err := e.score(ctx, req.Mode, profile, target, eligible.Items, opts.ParallelThreshold)
	if err != nil {
		return nil, err
	}
	Sort(ranked, keysFor(req.Mode, profile.PrimaryKey, e.locale)...)

	result := &Result{
		RequestID:  requestID,
		TargetID:   target.ID,
		Mode:       req.Mode,
		Profile:    profile.Name,
		Eligible:   len(ranked),
		Candidates: ranked,
	}

	if req.Mode == ModeAI {
		e.rerank(ctx, log, requestID, target, opts.ShortlistSize, result)
	}

	if opts.Limit > 0 && len(result.Candidates) > opts.Limit {
		result.Candidates = result.Candidates[:opts.Limit]
	}

	log.Info("match finished",
		zap.Int("pool", pool.Len()),
		zap.Int("eligible", result.Eligible),
		zap.Int("returned", len(result.Candidates)),
		zap.Bool("ai_applied", result.AIApplied),
		zap.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

func (e *Engine) resolveTarget(ctx context.Context, req Request) (*candidate.Target, error) {
	if req.Target != nil {
		t := *req.Target
		return &t, nil
	}
	if req.TargetID == "" {
		return nil, invalid("target", "target or target id is required")
	}
	if e.targets == nil {
		return nil, &NotFoundError{Kind: "target", ID: req.TargetID}
	}

	t, err := e.targets.Target(ctx, req.TargetID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve target %s: %w", req.TargetID, err)
	}
	if t == nil {
		return nil, &NotFoundError{Kind: "target", ID: req.TargetID}
	}
	return t, nil
}

func (e *Engine) loadPool(ctx context.Context, req Request, target *candidate.Target) (*candidate.Pool, error) {
	if req.Pool != nil {
		return candidate.NewPool(req.Pool), nil
	}
	if e.candidates == nil {
		return nil, &NotFoundError{Kind: "candidate pool", ID: req.Scope.UnitID}
	}

	scope := req.Scope
	if scope.UnitID == "" {
		scope.UnitID = target.UnitID
	}
	items, err := e.candidates.Candidates(ctx, scope)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}
	return candidate.NewPool(items), nil
}

// score computes distance and breakdown per candidate. Each slot is written
// by exactly one worker.
func (e *Engine) score(ctx context.Context, mode Mode, profile scoring.Profile, target *candidate.Target, items []*candidate.Profile, threshold int) ([]RankedCandidate, error) {
	origin := target.Location.Point()
	slots := make([]RankedCandidate, len(items))
	keep := make([]bool, len(items))

	compute := func(_ context.Context, idx int) {
		c := items[idx]
		var d scoring.Distance
		if km, ok := geo.Between(origin, c.Location.Point()); ok {
			d = scoring.Known(km)
		}
		b := scoring.Score(profile, c, target, d)
		if mode != ModeDistanceOnly && profile.Excludes(target, b) {
			return
		}
		slots[idx] = newRanked(c, d, b)
		keep[idx] = true
	}

	if len(items) > threshold {
		if err := workpool.Run(ctx, runtime.GOMAXPROCS(0), len(items), compute); err != nil {
			return nil, err
		}
	} else {
		for i := range items {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			compute(ctx, i)
		}
	}

	ranked := make([]RankedCandidate, 0, len(items))
	for i, ok := range keep {
		if ok {
			ranked = append(ranked, slots[i])
		}
	}
	return ranked, nil
}

// rerank replaces the head of result.Candidates with the AI order when the
// stage succeeds. Any failure leaves result untouched apart from AIFailure.
func (e *Engine) rerank(ctx context.Context, log *zap.Logger, requestID string, target *candidate.Target, size int, result *Result) {
	if e.reranker == nil {
		result.AIFailure = "ai reranker is not configured"
		log.Warn("ai mode requested without a reranker", zap.String("stage", "ai_rerank"))
		return
	}
	if len(result.Candidates) == 0 {
		return
	}
	if err := ctx.Err(); err != nil {
		result.AIFailure = fmt.Sprintf("request cancelled before ai stage: %v", err)
		log.Warn("skipping ai stage", zap.String("stage", "ai_rerank"), zap.Error(err))
		return
	}

	size = min(size, len(result.Candidates))
	head := result.Candidates[:size]

	profiles := make([]*candidate.Profile, len(head))
	entries := make([]ai.Entry, len(head))
	byID := make(map[string]RankedCandidate, len(head))
	for i, rc := range head {
		profiles[i] = rc.Profile
		entries[i] = ai.Entry{Candidate: rc.Profile, DistanceKm: rc.DistanceKm, Score: rc.Score}
		byID[rc.ID] = rc
	}

	var docs map[string]string
	if e.enricher != nil {
		docs = e.enricher.Enrich(ctx, profiles)
	}

	outcome := e.reranker.Rerank(ctx, requestID, target, entries, docs)
	if !outcome.Applied {
		result.AIFailure = outcome.Failure
		return
	}
	if len(outcome.Entries) != len(head) {
		result.AIFailure = fmt.Sprintf("reranker returned %d of %d candidates", len(outcome.Entries), len(head))
		log.Warn("discarding ai order", zap.String("stage", "ai_rerank"), zap.String("reason", result.AIFailure))
		return
	}

	reordered := make([]RankedCandidate, 0, len(result.Candidates))
	for _, entry := range outcome.Entries {
		if entry.Candidate == nil {
			result.AIFailure = "reranker returned an empty entry"
			return
		}
		rc, ok := byID[entry.Candidate.ID]
		if !ok {
			result.AIFailure = fmt.Sprintf("reranker returned unknown candidate %s", entry.Candidate.ID)
			return
		}
		delete(byID, entry.Candidate.ID)
		rc.AIScore = entry.AIScore
		rc.MatchReason = entry.MatchReason
		reordered = append(reordered, rc)
	}
	reordered = append(reordered, result.Candidates[size:]...)

	result.Candidates = reordered
	result.AIApplied = true
}

func validateTarget(t *candidate.Target, mode Mode) error {
	loc := t.Location
	if (loc.Lat == nil) != (loc.Lon == nil) {
		return invalid("target.location", "latitude and longitude must be set together")
	}
	if loc.Lat != nil && (math.IsNaN(*loc.Lat) || *loc.Lat < -90 || *loc.Lat > 90) {
		return invalid("target.location.lat", "out of range: %v", *loc.Lat)
	}
	if loc.Lon != nil && (math.IsNaN(*loc.Lon) || *loc.Lon < -180 || *loc.Lon > 180) {
		return invalid("target.location.lon", "out of range: %v", *loc.Lon)
	}
	if t.RadiusKm < 0 || math.IsNaN(t.RadiusKm) {
		return invalid("target.radius_km", "must not be negative")
	}
	if mode == ModeDistanceOnly && !loc.Point().Valid() {
		return invalid("target.location", "coordinates are required for distance ranking")
	}
	if !t.HasRole() && !loc.Point().Valid() {
		return invalid("target", "a role or a location is required")
	}
	if t.MinQuality != "" && t.MinQuality.Normalized() == "" {
		return invalid("target.min_quality", "unknown quality %q", t.MinQuality)
	}
	if t.MinExperience != "" && t.MinExperience.Normalized() == candidate.ExperienceUnset {
		return invalid("target.min_experience", "unknown experience %q", t.MinExperience)
	}
	if t.DrivingLicense != "" && !t.DrivingLicense.Valid() {
		return invalid("target.driving_license", "unknown license %q", t.DrivingLicense)
	}
	return nil
}
