package services

import (
	"crypto/sha256"
	"encoding/hex"
)

// ExcerptLimit is the number of characters of normalized text that feed the
// fingerprint and the explanation prompt. Truncation happens before hashing:
// inputs that agree on this prefix are indistinguishable downstream.
const ExcerptLimit = 120

// Excerpt returns the first ExcerptLimit characters of normalized text
// (fewer if the text is shorter). Counted in runes, not bytes, so
// multi-byte input is never split mid-character.
func Excerpt(normalized string) string {
	runes := []rune(normalized)
	if len(runes) <= ExcerptLimit {
		return normalized
	}
	return string(runes[:ExcerptLimit])
}

// Fingerprint derives the stable cache key for a normalized text: SHA-256
// over the UTF-8 bytes of the excerpt, rendered as lowercase hex. Same
// excerpt, same key; inputs differing only beyond the excerpt share a key
// by design.
func Fingerprint(normalized string) string {
	sum := sha256.Sum256([]byte(Excerpt(normalized)))
	return hex.EncodeToString(sum[:])
}
