package repository

import (
	"context"

	"MarketBrief/internal/domain/models"
)

// SeriesProvider returns an ordered indicator time series, oldest first.
type SeriesProvider interface {
	Series(ctx context.Context) ([]models.TimeSeriesPoint, error)
}

// QuoteProvider returns last and previous close for one symbol.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (last, prev float64, err error)
}

// ScreenProvider returns the capitalization-ranked movers screen.
type ScreenProvider interface {
	Movers(ctx context.Context) ([]models.Mover, error)
}

// HeadlineProvider returns recent headlines, untagged.
type HeadlineProvider interface {
	Headlines(ctx context.Context) ([]models.Headline, error)
}

// Archive persists snapshot rows best-effort for later analysis.
type Archive interface {
	SaveSnapshotRows(ctx context.Context, asOf string, tickers map[string]models.TickerQuote) error
	SavePulseItems(ctx context.Context, items []models.RiskPulseItem) error
}

// Publisher emits domain events to the message bus.
type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordFetch(feed, status string)
	RecordError(kind string)
	RecordCache(keyPrefix, outcome string)
	RecordIndicatorValue(indicator string, value float64)
	RecordLatency(op string, seconds float64)
}
