package models

// Indicator keys for the four risk pulse dimensions.
const (
	PulsePolicy      = "policy"
	PulseRegulatory  = "regulatory"
	PulseTrade       = "trade"
	PulseGeopolitics = "geopolitics"
)

// Risk labels.
const (
	LabelLow    = "Low"
	LabelMedium = "Medium"
	LabelHigh   = "High"
)

// TimeSeriesPoint is one observation of an indicator series. Immutable once
// parsed.
type TimeSeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// RiskPulseItem is one indicator's classified snapshot. Every field is
// finite; classification substitutes neutral fallbacks rather than carrying
// NaN or Inf forward.
type RiskPulseItem struct {
	Key        string  `json:"key"`
	Title      string  `json:"title"`
	Label      string  `json:"label"`
	DeltaPct   float64 `json:"deltaPct"`
	Value      float64 `json:"value"`
	TimePeriod string  `json:"timePeriod"`
	AsOf       string  `json:"asOf"`
}

// PulseResult is the full four-item pulse response.
type PulseResult struct {
	Items []RiskPulseItem `json:"items"`
	AsOf  string          `json:"asOf"`
}
