package services

import "strconv"

// Derived record statuses.
const (
	StatusHigh   = "high"
	StatusLow    = "low"
	StatusNormal = "normal"
)

// EffectiveRange resolves the reference range for one record: each bound
// falls back to the indicator baseline independently, so a record may
// override only the low bound and keep the catalog high bound.
func EffectiveRange(recLow, recHigh, indMin, indMax *float64) (low, high *float64) {
	low, high = recLow, recHigh
	if low == nil {
		low = indMin
	}
	if high == nil {
		high = indMax
	}
	return low, high
}

// DeriveStatus classifies a raw value against a resolved range. It returns
// nil when either bound is missing or the value is not numeric; qualitative
// results carry no status. Comparison is strict, so a value sitting exactly
// on a bound counts as normal.
func DeriveStatus(value string, low, high *float64) *string {
	if low == nil || high == nil {
		return nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	s := StatusNormal
	switch {
	case v > *high:
		s = StatusHigh
	case v < *low:
		s = StatusLow
	}
	return &s
}
