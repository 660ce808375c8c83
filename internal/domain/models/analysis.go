package models

import (
	"time"

	"github.com/google/uuid"
)

// RiskTier is the discrete risk bucket for a job listing
type RiskTier string

const (
	RiskTierLow    RiskTier = "LOW"
	RiskTierMedium RiskTier = "MEDIUM"
	RiskTierHigh   RiskTier = "HIGH"
)

// TierForMatchCount maps a phrase-match count to a risk tier.
// Total over all non-negative counts: 0 is LOW, 1-2 MEDIUM, 3+ HIGH.
func TierForMatchCount(count int) RiskTier {
	switch {
	case count <= 0:
		return RiskTierLow
	case count <= 2:
		return RiskTierMedium
	default:
		return RiskTierHigh
	}
}

// TierDisplay holds the fixed display constants for a tier. These are a
// pure function of the tier, never of the score magnitude behind it.
type TierDisplay struct {
	Meter int    `json:"meter"`
	Trust int    `json:"trust"`
	Class string `json:"class"`
}

// Display returns the display constants for the tier
func (t RiskTier) Display() TierDisplay {
	switch t {
	case RiskTierMedium:
		return TierDisplay{Meter: 60, Trust: 55, Class: "medium"}
	case RiskTierHigh:
		return TierDisplay{Meter: 90, Trust: 20, Class: "high"}
	default:
		return TierDisplay{Meter: 20, Trust: 85, Class: "low"}
	}
}

// Label returns the user-facing tier label
func (t RiskTier) Label() string {
	return string(t) + " RISK"
}

// ScoreResult is the outcome of matching a text against the phrase catalog.
// Matched preserves catalog order with duplicates suppressed to the first
// occurrence per phrase.
type ScoreResult struct {
	MatchCount int      `json:"match_count"`
	Matched    []string `json:"matched"`
}

// JobAnalysis is the assembled result of screening one job listing
type JobAnalysis struct {
	ID          uuid.UUID         `json:"id"`
	Fingerprint string            `json:"fingerprint"`
	Tier        RiskTier          `json:"tier"`
	RiskLabel   string            `json:"risk_label"`
	MatchCount  int               `json:"match_count"`
	Reasons     []string          `json:"reasons"`
	Tips        map[string]string `json:"tips,omitempty"`
	Meter       int               `json:"meter"`
	Trust       int               `json:"trust"`
	Class       string            `json:"class"`
	Explanation string            `json:"explanation,omitempty"`
	CacheHit    bool              `json:"cache_hit"`
	AnalyzedAt  time.Time         `json:"analyzed_at"`
}

// AnalysisStats holds aggregate screening statistics
type AnalysisStats struct {
	TotalAnalyzed int64            `json:"total_analyzed"`
	ByTier        map[string]int64 `json:"by_tier"`
	CacheHits     int64            `json:"cache_hits"`
	Last24Hours   int64            `json:"last_24_hours"`
}
