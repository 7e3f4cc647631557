package pulse

import (
	"fmt"
	"time"

	"MarketBrief/internal/domain/models"
	"MarketBrief/internal/domain/repository"
	"MarketBrief/internal/signal"
)

const zWindow = 60

// Indicator declares one risk dimension: where its series comes from and how
// it is compared, scored, and cached.
type Indicator struct {
	Key           string
	Title         string
	Source        repository.SeriesProvider
	CompareOffset int           // periods back for the delta comparison
	ZThreshold    float64       // classification boundary
	Smoothing     int           // EMA span, 0 disables smoothing
	WindowCompare int           // compare trailing-N avg vs prior-N avg instead of point offsets
	Period        string        // reporting cadence shown to the caller
	TTL           time.Duration // cache lifetime
	Fallback      models.RiskPulseItem
}

// classify turns a raw series into a pulse item. Errors here mean the caller
// substitutes the indicator's fallback.
func (ind Indicator) classify(series []models.TimeSeriesPoint) (models.RiskPulseItem, error) {
	if len(series) < 2 {
		return models.RiskPulseItem{}, fmt.Errorf("series too short: %d points", len(series))
	}

	raw := make([]float64, len(series))
	for i, p := range series {
		raw[i] = p.Value
	}

	// Smoothing steadies the headline value and z-score; deltas always
	// compare raw readings.
	smoothed := raw
	if ind.Smoothing > 0 {
		smoothed = signal.EMA(raw, ind.Smoothing)
	}
	latest := smoothed[len(smoothed)-1]

	var deltaPct float64
	if n := ind.WindowCompare; n > 0 {
		if len(raw) < 2*n {
			return models.RiskPulseItem{}, fmt.Errorf("series too short for %d-period windows", n)
		}
		curr := mean(raw[len(raw)-n:])
		prev := mean(raw[len(raw)-2*n : len(raw)-n])
		deltaPct = signal.Round(signal.PercentChange(curr, prev))
	} else {
		offset := ind.CompareOffset
		if offset <= 0 {
			offset = 1
		}
		idx := len(raw) - 1 - offset
		if idx < 0 {
			return models.RiskPulseItem{}, fmt.Errorf("series too short for offset %d", offset)
		}
		deltaPct = signal.Round(signal.PercentChange(raw[len(raw)-1], raw[idx]))
	}

	window := raw
	if len(window) > zWindow {
		window = window[len(window)-zWindow:]
	}
	z := signal.ZScore(latest, window)

	return models.RiskPulseItem{
		Key:        ind.Key,
		Title:      ind.Title,
		Label:      signal.ClassifyLabel(z, ind.ZThreshold),
		DeltaPct:   deltaPct,
		Value:      latest,
		TimePeriod: ind.Period,
		AsOf:       series[len(series)-1].Date,
	}, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
