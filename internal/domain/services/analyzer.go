package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"jobguard/internal/domain/models"
	"jobguard/internal/infrastructure/cache"
	"jobguard/pkg/logger"
)

// ErrEmptyInput is returned when a listing contains no text after
// normalization. It is a normal outcome, not a system fault: no score is
// computed and the explanation cache is never touched.
var ErrEmptyInput = errors.New("no text detected")

// ExplanationSource generates a risk explanation for a scored listing
type ExplanationSource interface {
	Explain(ctx context.Context, excerpt string, tier models.RiskTier, reasons []string) (string, error)
}

// AnalysisStore persists screening results; may be absent at runtime
type AnalysisStore interface {
	Create(ctx context.Context, a *models.JobAnalysis) error
}

// JobAnalyzer runs the screening pipeline: normalize, score, classify,
// fingerprint, then fetch-or-generate the explanation
type JobAnalyzer struct {
	catalog   *Catalog
	scorer    *Scorer
	explainer ExplanationSource
	cache     *cache.ExplanationCache
	store     AnalysisStore
	logger    *logger.Logger
}

// NewJobAnalyzer creates a new JobAnalyzer. store may be nil; results are
// then not persisted.
func NewJobAnalyzer(catalog *Catalog, scorer *Scorer, explainer ExplanationSource, c *cache.ExplanationCache, store AnalysisStore, log *logger.Logger) *JobAnalyzer {
	return &JobAnalyzer{
		catalog:   catalog,
		scorer:    scorer,
		explainer: explainer,
		cache:     c,
		store:     store,
		logger:    log.WithComponent("job-analyzer"),
	}
}

// Analyze screens one job listing. Raw text is normalized first; empty
// normalized text returns ErrEmptyInput with nothing computed.
//
// When explanation generation fails, the scored analysis is still returned
// alongside the error so callers can render a degraded response; the cache
// key stays unpopulated and the next request retries.
func (a *JobAnalyzer) Analyze(ctx context.Context, rawText string) (*models.JobAnalysis, error) {
	normalized := NormalizeText(rawText)
	if normalized == "" {
		return nil, ErrEmptyInput
	}

	score := a.scorer.Score(normalized)
	tier := models.TierForMatchCount(score.MatchCount)
	display := tier.Display()

	excerpt := Excerpt(normalized)
	fingerprint := Fingerprint(normalized)

	analysis := &models.JobAnalysis{
		ID:          uuid.New(),
		Fingerprint: fingerprint,
		Tier:        tier,
		RiskLabel:   tier.Label(),
		MatchCount:  score.MatchCount,
		Reasons:     score.Matched,
		Tips:        a.catalog.TipsFor(score.Matched),
		Meter:       display.Meter,
		Trust:       display.Trust,
		Class:       display.Class,
		AnalyzedAt:  time.Now().UTC(),
	}

	explanation, cached, err := a.cache.GetOrCreate(ctx, fingerprint, func(ctx context.Context) (string, error) {
		return a.explainer.Explain(ctx, excerpt, tier, score.Matched)
	})
	if err != nil {
		a.logger.Warn().Err(err).
			Str("fingerprint", fingerprint).
			Str("tier", string(tier)).
			Msg("explanation unavailable, returning degraded result")
		a.persist(ctx, analysis)
		return analysis, err
	}

	analysis.Explanation = explanation
	analysis.CacheHit = cached

	a.logger.Info().
		Str("fingerprint", fingerprint).
		Str("tier", string(tier)).
		Int("match_count", score.MatchCount).
		Bool("cache_hit", cached).
		Msg("listing analyzed")

	a.persist(ctx, analysis)
	return analysis, nil
}

// persist is best-effort: history is an audit trail, not part of the
// screening contract
func (a *JobAnalyzer) persist(ctx context.Context, analysis *models.JobAnalysis) {
	if a.store == nil {
		return
	}
	if err := a.store.Create(ctx, analysis); err != nil {
		a.logger.Warn().Err(err).Str("fingerprint", analysis.Fingerprint).Msg("failed to persist analysis")
	}
}
