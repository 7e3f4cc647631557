// Package signal holds the pure statistical primitives the pipeline is built
// on. Every function returns a finite number or a neutral 0, never NaN/Inf.
package signal

import "math"

// DefaultZThreshold classifies most indicators; the trade indicator uses the
// finer TradeZThreshold.
const (
	DefaultZThreshold = 0.75
	TradeZThreshold   = 0.5
)

// PercentChange returns (a-b)/|b|*100, or 0 when either input is non-finite
// or b is zero.
func PercentChange(a, b float64) float64 {
	if !isFinite(a) || !isFinite(b) || b == 0 {
		return 0
	}
	pct := (a - b) / math.Abs(b) * 100
	if !isFinite(pct) {
		return 0
	}
	return pct
}

// Round1 rounds to one decimal place, the precision quoted for percent moves.
func Round1(x float64) float64 {
	if !isFinite(x) {
		return 0
	}
	return math.Round(x*10) / 10
}

// Round rounds to the nearest integer, with the same finite-or-zero contract.
func Round(x float64) float64 {
	if !isFinite(x) {
		return 0
	}
	return math.Round(x)
}

// BasisPoints converts a yield change from percentage points to rounded
// basis points.
func BasisPoints(curr, prev float64) float64 {
	if !isFinite(curr) || !isFinite(prev) {
		return 0
	}
	return math.Round((curr - prev) * 100)
}

// ZScore measures how far latest lies from the mean of window in sample
// standard deviations. Non-finite window values are filtered first. Returns
// 0 for an empty or all-non-finite window, and substitutes a unit deviation
// when the window has no spread.
func ZScore(latest float64, window []float64) float64 {
	if !isFinite(latest) {
		return 0
	}

	finite := make([]float64, 0, len(window))
	for _, v := range window {
		if isFinite(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return 0
	}

	var sum float64
	for _, v := range finite {
		sum += v
	}
	mean := sum / float64(len(finite))

	var sq float64
	for _, v := range finite {
		d := v - mean
		sq += d * d
	}
	variance := sq / math.Max(1, float64(len(finite)-1))

	sd := math.Sqrt(variance)
	if sd == 0 {
		sd = 1
	}

	z := (latest - mean) / sd
	if !isFinite(z) {
		return 0
	}
	return z
}

// EMA smooths series with alpha = 2/(span+1), seeded from the first value.
// Returns a series of the same length.
func EMA(series []float64, span int) []float64 {
	if len(series) == 0 {
		return nil
	}
	alpha := 2.0 / (float64(span) + 1)

	out := make([]float64, len(series))
	out[0] = series[0]
	for i := 1; i < len(series); i++ {
		out[i] = alpha*series[i] + (1-alpha)*out[i-1]
	}
	return out
}

// ClassifyLabel maps a z-score to a risk label. The boundary is inclusive:
// z at exactly +threshold is High, exactly -threshold is Low.
func ClassifyLabel(z, threshold float64) string {
	switch {
	case z >= threshold:
		return "High"
	case z <= -threshold:
		return "Low"
	default:
		return "Medium"
	}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
