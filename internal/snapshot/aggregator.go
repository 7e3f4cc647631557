// Package snapshot builds the point-in-time market snapshot: one concurrent
// quote sweep over the fixed symbol universe plus the derived cross-sectional
// factors. Failed symbols are dropped, never fatal.
package snapshot

import (
	"context"
	"time"

	"MarketBrief/internal/domain/models"
	"MarketBrief/internal/domain/repository"
	"MarketBrief/internal/signal"
	"MarketBrief/pkg/cache"
	"MarketBrief/pkg/fanout"
	"MarketBrief/pkg/logger"
	"MarketBrief/pkg/util"
)

const fetchWorkers = 8

// Option configures the Aggregator.
type Option func(*Aggregator)

// Aggregator gathers quotes and derives the snapshot.
type Aggregator struct {
	quotes        repository.QuoteProvider
	screen        repository.ScreenProvider
	headlines     repository.HeadlineProvider
	cache         cache.Service
	log           *logger.Logger
	metrics       repository.Metrics
	ttl           time.Duration
	includeMovers bool
	now           func() time.Time
}

// NewAggregator creates a snapshot aggregator.
func NewAggregator(quotes repository.QuoteProvider, c cache.Service, log *logger.Logger, m repository.Metrics, opts ...Option) *Aggregator {
	a := &Aggregator{
		quotes:  quotes,
		cache:   c,
		log:     log,
		metrics: m,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithMovers enables merging the capitalization screen into the ticker map.
func WithMovers(screen repository.ScreenProvider) Option {
	return func(a *Aggregator) {
		a.screen = screen
		a.includeMovers = screen != nil
	}
}

// WithHeadlines attaches a headline source to the snapshot.
func WithHeadlines(headlines repository.HeadlineProvider) Option {
	return func(a *Aggregator) {
		a.headlines = headlines
	}
}

// WithTTL overrides the snapshot cache lifetime. Zero keeps the default of
// caching until the next UTC day.
func WithTTL(ttl time.Duration) Option {
	return func(a *Aggregator) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

type quoteResult struct {
	symbol string
	quote  models.TickerQuote
}

// Snapshot returns the market snapshot, cached per calendar day. force
// bypasses the cache.
func (a *Aggregator) Snapshot(ctx context.Context, force bool) models.MarketSnapshot {
	now := a.now()
	key := cache.GenerateKey("snapshot", util.DayKey(now))

	if !force {
		var cached models.MarketSnapshot
		if err := a.cache.Get(ctx, key, &cached); err == nil {
			a.metrics.RecordCache("snapshot", "hit")
			return cached
		}
		a.metrics.RecordCache("snapshot", "miss")
	}

	start := time.Now()
	snap := a.build(ctx, now)
	a.metrics.RecordLatency("snapshot_build", time.Since(start).Seconds())

	// One build per UTC day unless force or an explicit TTL says otherwise.
	ttl := a.ttl
	if ttl <= 0 {
		ttl = util.UntilNextUTCDay(now)
	}
	if err := a.cache.Set(ctx, key, snap, ttl); err != nil {
		a.log.Warn("snapshot cache write failed", logger.Error(err))
	}
	return snap
}

func (a *Aggregator) build(ctx context.Context, now time.Time) models.MarketSnapshot {
	outcomes := fanout.Gather(ctx, AllSymbols, fetchWorkers, func(ctx context.Context, symbol string) (quoteResult, error) {
		last, prev, err := a.quotes.Quote(ctx, symbol)
		if err != nil {
			return quoteResult{}, err
		}
		return quoteResult{
			symbol: symbol,
			quote: models.TickerQuote{
				Last: last,
				Prev: prev,
				Pct:  signal.Round1(signal.PercentChange(last, prev)),
			},
		}, nil
	})

	tickers := make(map[string]models.TickerQuote, len(AllSymbols))
	for _, o := range outcomes {
		if o.Err != nil {
			a.metrics.RecordFetch("quote", "error")
			a.log.Warn("symbol dropped from snapshot",
				logger.String("symbol", o.Input),
				logger.Error(o.Err),
			)
			continue
		}
		a.metrics.RecordFetch("quote", "ok")
		tickers[o.Value.symbol] = o.Value.quote
	}

	if a.includeMovers {
		a.mergeMovers(ctx, tickers)
	}

	snap := models.MarketSnapshot{
		AsOf:          now.UTC().Format(time.RFC3339),
		Tickers:       tickers,
		Sectors:       sectorMap(tickers),
		SectorBreadth: breadth(tickers),
		Factors:       factors(tickers),
		Headlines:     a.fetchHeadlines(ctx),
	}
	return snap
}

func (a *Aggregator) mergeMovers(ctx context.Context, tickers map[string]models.TickerQuote) {
	movers, err := a.screen.Movers(ctx)
	if err != nil {
		a.metrics.RecordFetch("screen", "error")
		a.log.Warn("movers screen unavailable", logger.Error(err))
		return
	}
	a.metrics.RecordFetch("screen", "ok")

	for _, m := range movers {
		if _, exists := tickers[m.Symbol]; exists {
			continue
		}
		tickers[m.Symbol] = models.TickerQuote{
			Last: m.Last,
			Prev: m.Prev,
			Pct:  signal.Round1(signal.PercentChange(m.Last, m.Prev)),
		}
	}
}

func (a *Aggregator) fetchHeadlines(ctx context.Context) []models.Headline {
	if a.headlines == nil {
		return nil
	}
	items, err := a.headlines.Headlines(ctx)
	if err != nil {
		a.metrics.RecordFetch("headlines", "error")
		a.log.Warn("headlines unavailable", logger.Error(err))
		return nil
	}
	a.metrics.RecordFetch("headlines", "ok")
	return items
}

func sectorMap(tickers map[string]models.TickerQuote) map[string]float64 {
	sectors := make(map[string]float64, len(SectorSymbols))
	for _, symbol := range SectorSymbols {
		if q, ok := tickers[symbol]; ok {
			sectors[symbol] = q.Pct
		}
	}
	return sectors
}

func breadth(tickers map[string]models.TickerQuote) models.SectorBreadth {
	total := len(SectorSymbols)
	count := 0
	for _, symbol := range SectorSymbols {
		if q, ok := tickers[symbol]; ok && q.Pct > 0 {
			count++
		}
	}
	return models.SectorBreadth{
		Count:      count,
		Percentage: float64(count) / float64(total) * 100,
		Total:      total,
	}
}

func factors(tickers map[string]models.TickerQuote) models.Factors {
	pct := func(symbol string) float64 {
		return tickers[symbol].Pct
	}
	return models.Factors{
		MegaVsEqual: pct(SymSPYETF) - pct(SymEqualWeight),
		SmallVsSpx:  pct(SymRussell) - pct(SymSPX),
		CreditTone:  pct(SymHighYield) - pct(SymInvGrade),
		DollarMove:  pct(SymDollar),
		VixMove:     pct(SymVIX),
	}
}

// Invalidate clears cached snapshots.
func (a *Aggregator) Invalidate(ctx context.Context) error {
	return a.cache.DeleteByPattern(ctx, cache.BuildPattern("snapshot:"))
}
