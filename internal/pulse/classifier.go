// Package pulse derives the four labeled risk indicators from their external
// series. One indicator's failure never blocks the others; the caller always
// receives four well-formed items.
package pulse

import (
	"context"
	"time"

	"MarketBrief/internal/domain/models"
	"MarketBrief/internal/domain/repository"
	"MarketBrief/internal/signal"
	"MarketBrief/pkg/cache"
	"MarketBrief/pkg/fanout"
	"MarketBrief/pkg/logger"
)

// Sources bundles the per-indicator series providers.
type Sources struct {
	Policy      repository.SeriesProvider
	Regulatory  repository.SeriesProvider
	Trade       repository.SeriesProvider
	Geopolitics repository.SeriesProvider
}

// TTLs overrides the per-indicator cache lifetimes; zero values keep the
// defaults.
type TTLs struct {
	Policy      time.Duration
	Regulatory  time.Duration
	Trade       time.Duration
	Geopolitics time.Duration
}

// Classifier computes and caches the risk pulse.
type Classifier struct {
	indicators []Indicator
	cache      cache.Service
	log        *logger.Logger
	metrics    repository.Metrics
	now        func() time.Time
}

// NewClassifier wires the four standard indicators. Policy compares three
// periods back (the upstream index revises recent months); the others
// compare one. Trade uses EMA(7) smoothing with weekly window averages and
// the finer z threshold.
func NewClassifier(sources Sources, ttls TTLs, c cache.Service, log *logger.Logger, m repository.Metrics) *Classifier {
	indicators := []Indicator{
		{
			Key:           models.PulsePolicy,
			Title:         "Policy Uncertainty",
			Source:        sources.Policy,
			CompareOffset: 3,
			ZThreshold:    signal.DefaultZThreshold,
			Period:        "monthly",
			TTL:           orDefault(ttls.Policy, 12*time.Hour),
			Fallback: models.RiskPulseItem{
				Key: models.PulsePolicy, Title: "Policy Uncertainty",
				Label: models.LabelMedium, DeltaPct: 1, Value: 100, TimePeriod: "monthly",
			},
		},
		{
			Key:           models.PulseRegulatory,
			Title:         "Regulatory Activity",
			Source:        sources.Regulatory,
			CompareOffset: 1,
			ZThreshold:    signal.DefaultZThreshold,
			Period:        "30-day",
			TTL:           orDefault(ttls.Regulatory, 6*time.Hour),
			Fallback: models.RiskPulseItem{
				Key: models.PulseRegulatory, Title: "Regulatory Activity",
				Label: models.LabelMedium, DeltaPct: 1, Value: 550, TimePeriod: "30-day",
			},
		},
		{
			Key:           models.PulseTrade,
			Title:         "Trade Policy Uncertainty",
			Source:        sources.Trade,
			CompareOffset: 1,
			ZThreshold:    signal.TradeZThreshold,
			Smoothing:     7,
			WindowCompare: 7,
			Period:        "daily",
			TTL:           orDefault(ttls.Trade, 6*time.Hour),
			Fallback: models.RiskPulseItem{
				Key: models.PulseTrade, Title: "Trade Policy Uncertainty",
				Label: models.LabelMedium, DeltaPct: 1, Value: 100, TimePeriod: "daily",
			},
		},
		{
			Key:           models.PulseGeopolitics,
			Title:         "Geopolitical Risk",
			Source:        sources.Geopolitics,
			CompareOffset: 1,
			ZThreshold:    signal.DefaultZThreshold,
			Period:        "monthly",
			TTL:           orDefault(ttls.Geopolitics, 24*time.Hour),
			Fallback: models.RiskPulseItem{
				Key: models.PulseGeopolitics, Title: "Geopolitical Risk",
				Label: models.LabelMedium, DeltaPct: 2, Value: 125, TimePeriod: "monthly",
			},
		},
	}

	return &Classifier{
		indicators: indicators,
		cache:      c,
		log:        log,
		metrics:    m,
		now:        time.Now,
	}
}

// Pulse returns all four indicators, fallbacks included. force bypasses the
// cache.
func (c *Classifier) Pulse(ctx context.Context, force bool) models.PulseResult {
	outcomes := fanout.Gather(ctx, c.indicators, len(c.indicators), func(ctx context.Context, ind Indicator) (models.RiskPulseItem, error) {
		return c.item(ctx, ind, force), nil
	})

	items := make([]models.RiskPulseItem, 0, len(outcomes))
	for _, o := range outcomes {
		items = append(items, o.Value)
	}

	return models.PulseResult{
		Items: items,
		AsOf:  c.now().UTC().Format(time.RFC3339),
	}
}

func (c *Classifier) item(ctx context.Context, ind Indicator, force bool) models.RiskPulseItem {
	key := cache.GenerateKey("pulse", ind.Key)

	if !force {
		var cached models.RiskPulseItem
		if err := c.cache.Get(ctx, key, &cached); err == nil {
			c.metrics.RecordCache("pulse", "hit")
			return cached
		}
		c.metrics.RecordCache("pulse", "miss")
	}

	series, err := ind.Source.Series(ctx)
	if err != nil {
		c.metrics.RecordFetch(ind.Key, "error")
		c.log.Warn("pulse indicator fetch failed, using fallback",
			logger.String("indicator", ind.Key),
			logger.Error(err),
		)
		return c.fallback(ind)
	}
	c.metrics.RecordFetch(ind.Key, "ok")

	item, err := ind.classify(series)
	if err != nil {
		c.log.Warn("pulse indicator unclassifiable, using fallback",
			logger.String("indicator", ind.Key),
			logger.Error(err),
		)
		return c.fallback(ind)
	}

	c.metrics.RecordIndicatorValue(ind.Key, item.Value)
	if err := c.cache.Set(ctx, key, item, ind.TTL); err != nil {
		c.log.Warn("pulse cache write failed", logger.String("indicator", ind.Key), logger.Error(err))
	}
	return item
}

func (c *Classifier) fallback(ind Indicator) models.RiskPulseItem {
	item := ind.Fallback
	item.AsOf = c.now().UTC().Format(time.RFC3339)
	return item
}

// Invalidate clears every cached pulse item.
func (c *Classifier) Invalidate(ctx context.Context) error {
	return c.cache.DeleteByPattern(ctx, cache.BuildPattern("pulse:"))
}

func orDefault(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}
