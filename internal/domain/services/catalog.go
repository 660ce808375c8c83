package services

import (
	"strings"

	"jobguard/internal/config"
)

// Catalog is the immutable suspicious-phrase catalog plus the partial
// phrase->tip table. Built once at startup from configuration; read-only
// afterwards, so it is safe for concurrent use.
type Catalog struct {
	phrases []string
	tips    map[string]string
}

// NewCatalog builds a catalog from configuration. Phrases are lowercased
// (matching runs against normalized text) and kept in configured order.
func NewCatalog(cfg config.CatalogConfig) *Catalog {
	phrases := make([]string, 0, len(cfg.Phrases))
	for _, p := range cfg.Phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			phrases = append(phrases, p)
		}
	}

	tips := make(map[string]string, len(cfg.Tips))
	for phrase, tip := range cfg.Tips {
		tips[strings.ToLower(strings.TrimSpace(phrase))] = tip
	}

	return &Catalog{phrases: phrases, tips: tips}
}

// Phrases returns the ordered phrase list
func (c *Catalog) Phrases() []string {
	out := make([]string, len(c.phrases))
	copy(out, c.phrases)
	return out
}

// Tips returns the full phrase->tip table
func (c *Catalog) Tips() map[string]string {
	out := make(map[string]string, len(c.tips))
	for k, v := range c.tips {
		out[k] = v
	}
	return out
}

// TipsFor returns the tips covering the given matched phrases. Not every
// phrase carries a tip; uncovered phrases are simply absent.
func (c *Catalog) TipsFor(matched []string) map[string]string {
	out := make(map[string]string)
	for _, phrase := range matched {
		if tip, ok := c.tips[phrase]; ok {
			out[phrase] = tip
		}
	}
	return out
}

// Len returns the number of catalog phrases
func (c *Catalog) Len() int {
	return len(c.phrases)
}
