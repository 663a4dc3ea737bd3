package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		value string
		low   *float64
		high  *float64
		want  *string
	}{
		{"within range", "5", f(2), f(10), strPtr(StatusNormal)},
		{"above high", "12", f(2), f(10), strPtr(StatusHigh)},
		{"below low", "1", f(2), f(10), strPtr(StatusLow)},
		{"missing low bound", "5", nil, f(10), nil},
		{"missing high bound", "5", f(2), nil, nil},
		{"equal to high is normal", "10", f(2), f(10), strPtr(StatusNormal)},
		{"equal to low is normal", "2", f(2), f(10), strPtr(StatusNormal)},
		{"qualitative value", "阴性", f(2), f(10), nil},
		{"empty value", "", f(2), f(10), nil},
		{"decimal value", "10.5", f(2), f(10), strPtr(StatusHigh)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.value, tt.low, tt.high)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				assert.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestEffectiveRange(t *testing.T) {
	t.Run("record overrides per bound", func(t *testing.T) {
		low, high := EffectiveRange(f(3), nil, f(1), f(10))
		assert.Equal(t, 3.0, *low)
		assert.Equal(t, 10.0, *high)
	})

	t.Run("falls back to indicator baseline", func(t *testing.T) {
		low, high := EffectiveRange(nil, nil, f(1), f(10))
		assert.Equal(t, 1.0, *low)
		assert.Equal(t, 10.0, *high)
	})

	t.Run("nothing to fall back to", func(t *testing.T) {
		low, high := EffectiveRange(nil, nil, nil, nil)
		assert.Nil(t, low)
		assert.Nil(t, high)
	})
}

func TestRangePrecedenceInStatus(t *testing.T) {
	// ref_low=3 on the record beats reference_min=1 on the indicator.
	low, high := EffectiveRange(f(3), nil, f(1), f(10))
	got := DeriveStatus("2", low, high)
	assert.NotNil(t, got)
	assert.Equal(t, StatusLow, *got)
}

func strPtr(s string) *string { return &s }
