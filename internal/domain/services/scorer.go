package services

import (
	"strings"

	"jobguard/internal/domain/models"
	"jobguard/pkg/logger"
)

// Scorer scans normalized listing text for suspicious-phrase matches
type Scorer struct {
	catalog *Catalog
	logger  *logger.Logger
}

// NewScorer creates a new Scorer
func NewScorer(catalog *Catalog, log *logger.Logger) *Scorer {
	return &Scorer{
		catalog: catalog,
		logger:  log.WithComponent("scorer"),
	}
}

// Score tests each catalog phrase for substring containment in the
// normalized text, in catalog order. The matched list preserves that order
// and suppresses duplicate catalog entries to their first occurrence.
// Deterministic: depends only on the text and the catalog.
func (s *Scorer) Score(normalized string) models.ScoreResult {
	result := models.ScoreResult{Matched: []string{}}
	if normalized == "" {
		return result
	}

	seen := make(map[string]struct{}, len(s.catalog.phrases))
	for _, phrase := range s.catalog.phrases {
		if _, dup := seen[phrase]; dup {
			continue
		}
		if strings.Contains(normalized, phrase) {
			seen[phrase] = struct{}{}
			result.MatchCount++
			result.Matched = append(result.Matched, phrase)
		}
	}

	return result
}
