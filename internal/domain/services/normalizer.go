package services

import (
	"strings"
)

// NormalizeText canonicalizes raw listing text before any downstream use:
// leading/trailing whitespace removed, all characters case-folded to
// lowercase. Empty input yields empty output. Every consumer of listing
// text (scorer, fingerprint, explanation excerpt) operates on this form.
func NormalizeText(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
