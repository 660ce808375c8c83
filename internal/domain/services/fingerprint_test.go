package services

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "", Excerpt(""))
	assert.Equal(t, "short text", Excerpt("short text"))

	long := strings.Repeat("a", 300)
	assert.Len(t, Excerpt(long), ExcerptLimit)

	// Counted in runes: 200 two-byte characters truncate to 120 characters,
	// not 120 bytes
	multibyte := strings.Repeat("é", 200)
	assert.Equal(t, ExcerptLimit, len([]rune(Excerpt(multibyte))))
}

func TestFingerprint(t *testing.T) {
	key := Fingerprint("urgent hiring, apply immediately")
	assert.Len(t, key, 64)
	assert.Equal(t, strings.ToLower(key), key)

	sum := sha256.Sum256([]byte("urgent hiring, apply immediately"))
	assert.Equal(t, hex.EncodeToString(sum[:]), key)
}

func TestFingerprintDeterminism(t *testing.T) {
	text := "work from home, no interview needed"
	assert.Equal(t, Fingerprint(text), Fingerprint(text))
}

func TestFingerprintPrefixEquivalence(t *testing.T) {
	prefix := strings.Repeat("x", ExcerptLimit)

	// Inputs that agree on the 120-character prefix share a key by design
	assert.Equal(t, Fingerprint(prefix+"suffix one"), Fingerprint(prefix+"entirely different tail"))
	assert.Equal(t, Fingerprint(prefix), Fingerprint(prefix+"anything"))

	// A difference inside the prefix changes the key
	short := strings.Repeat("x", ExcerptLimit-1)
	assert.NotEqual(t, Fingerprint(short+"a"), Fingerprint(short+"b"))
	assert.NotEqual(t, Fingerprint("whatsapp"), Fingerprint("telegram"))
}
