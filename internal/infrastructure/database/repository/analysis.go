package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobguard/internal/domain/models"
)

// AnalysisRepository persists screening results
type AnalysisRepository struct {
	pool *pgxpool.Pool
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(pool *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{pool: pool}
}

// Create inserts one screening record
func (r *AnalysisRepository) Create(ctx context.Context, a *models.JobAnalysis) error {
	const query = `
		INSERT INTO job_analyses (id, fingerprint, tier, match_count, matched_phrases, cache_hit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	createdAt := a.AnalyzedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.Fingerprint, string(a.Tier), a.MatchCount, a.Reasons, a.CacheHit, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// ListRecent returns the most recent screenings, newest first
func (r *AnalysisRepository) ListRecent(ctx context.Context, limit int) ([]models.JobAnalysis, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	const query = `
		SELECT id, fingerprint, tier, match_count, matched_phrases, cache_hit, created_at
		FROM job_analyses
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var results []models.JobAnalysis
	for rows.Next() {
		var a models.JobAnalysis
		var tier string
		if err := rows.Scan(&a.ID, &a.Fingerprint, &tier, &a.MatchCount, &a.Reasons, &a.CacheHit, &a.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		a.Tier = models.RiskTier(tier)
		a.RiskLabel = a.Tier.Label()
		display := a.Tier.Display()
		a.Meter = display.Meter
		a.Trust = display.Trust
		a.Class = display.Class
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read analyses: %w", err)
	}

	return results, nil
}

// Stats returns aggregate screening statistics
func (r *AnalysisRepository) Stats(ctx context.Context) (*models.AnalysisStats, error) {
	stats := &models.AnalysisStats{
		ByTier: make(map[string]int64),
	}

	const totalsQuery = `
		SELECT count(*),
		       count(*) FILTER (WHERE cache_hit),
		       count(*) FILTER (WHERE created_at > now() - interval '24 hours')
		FROM job_analyses`

	if err := r.pool.QueryRow(ctx, totalsQuery).Scan(&stats.TotalAnalyzed, &stats.CacheHits, &stats.Last24Hours); err != nil {
		return nil, fmt.Errorf("failed to query analysis totals: %w", err)
	}

	const tierQuery = `SELECT tier, count(*) FROM job_analyses GROUP BY tier`

	rows, err := r.pool.Query(ctx, tierQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query tier counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tier string
		var count int64
		if err := rows.Scan(&tier, &count); err != nil {
			return nil, fmt.Errorf("failed to scan tier count: %w", err)
		}
		stats.ByTier[tier] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tier counts: %w", err)
	}

	return stats, nil
}
