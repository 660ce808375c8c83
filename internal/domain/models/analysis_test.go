package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierForMatchCount(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  RiskTier
	}{
		{"zero matches", 0, RiskTierLow},
		{"one match", 1, RiskTierMedium},
		{"two matches", 2, RiskTierMedium},
		{"three matches", 3, RiskTierHigh},
		{"many matches", 13, RiskTierHigh},
		{"negative treated as zero", -1, RiskTierLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TierForMatchCount(tt.count))
		})
	}
}

func TestTierDisplay(t *testing.T) {
	tests := []struct {
		tier  RiskTier
		meter int
		trust int
		class string
	}{
		{RiskTierLow, 20, 85, "low"},
		{RiskTierMedium, 60, 55, "medium"},
		{RiskTierHigh, 90, 20, "high"},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			d := tt.tier.Display()
			assert.Equal(t, tt.meter, d.Meter)
			assert.Equal(t, tt.trust, d.Trust)
			assert.Equal(t, tt.class, d.Class)
		})
	}
}

func TestTierLabel(t *testing.T) {
	assert.Equal(t, "LOW RISK", RiskTierLow.Label())
	assert.Equal(t, "MEDIUM RISK", RiskTierMedium.Label())
	assert.Equal(t, "HIGH RISK", RiskTierHigh.Label())
}
