package snapshot

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"MarketBrief/internal/domain/models"
	"MarketBrief/pkg/cache"
	"MarketBrief/pkg/logger"
)

type quoteStub struct {
	pcts  map[string]float64 // symbol -> desired pct move off a 100 base
	fail  map[string]bool
	calls int
}

func (q *quoteStub) Quote(_ context.Context, symbol string) (float64, float64, error) {
	q.calls++
	if q.fail[symbol] {
		return 0, 0, errors.New("fetch failed")
	}
	pct := q.pcts[symbol]
	return 100 + pct, 100, nil
}

type screenStub struct {
	movers []models.Mover
	err    error
}

func (s *screenStub) Movers(_ context.Context) ([]models.Mover, error) {
	return s.movers, s.err
}

type noopMetrics struct{}

func (noopMetrics) RecordFetch(string, string)           {}
func (noopMetrics) RecordError(string)                   {}
func (noopMetrics) RecordCache(string, string)           {}
func (noopMetrics) RecordIndicatorValue(string, float64) {}
func (noopMetrics) RecordLatency(string, float64)        {}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newTestAggregator(t *testing.T, quotes *quoteStub, opts ...Option) *Aggregator {
	t.Helper()
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })
	return NewAggregator(quotes, mc, testLogger(t), noopMetrics{}, opts...)
}

func TestSectorBreadth(t *testing.T) {
	pcts := map[string]float64{}
	// 6 of 10 sectors positive
	for i, symbol := range SectorSymbols {
		if i < 6 {
			pcts[symbol] = 0.5
		} else {
			pcts[symbol] = -0.5
		}
	}
	a := newTestAggregator(t, &quoteStub{pcts: pcts})

	snap := a.Snapshot(context.Background(), true)
	b := snap.SectorBreadth
	if b.Count != 6 || b.Total != 10 || b.Percentage != 60 {
		t.Fatalf("breadth = %+v, want {6 60 10}", b)
	}
}

func TestFailedSymbolsDropped(t *testing.T) {
	a := newTestAggregator(t, &quoteStub{
		pcts: map[string]float64{SymSPX: 1.0},
		fail: map[string]bool{SymNasdaq: true, "^HSI": true},
	})

	snap := a.Snapshot(context.Background(), true)
	if _, ok := snap.Tickers[SymNasdaq]; ok {
		t.Fatalf("failed symbol should be absent")
	}
	if _, ok := snap.Tickers["^HSI"]; ok {
		t.Fatalf("failed symbol should be absent")
	}
	if q, ok := snap.Tickers[SymSPX]; !ok || q.Pct != 1.0 {
		t.Fatalf("surviving symbol wrong: %+v ok=%v", q, ok)
	}
}

func TestFactors(t *testing.T) {
	a := newTestAggregator(t, &quoteStub{pcts: map[string]float64{
		SymSPYETF:      0.8,
		SymEqualWeight: 0.2,
		SymRussell:     -0.5,
		SymSPX:         0.4,
		SymHighYield:   0.3,
		SymInvGrade:    0.1,
		SymDollar:      -0.3,
		SymVIX:         4.0,
	}})

	f := a.Snapshot(context.Background(), true).Factors
	check := func(name string, got, want float64) {
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("%s = %v, want %v", name, got, want)
		}
	}
	check("megaVsEqual", f.MegaVsEqual, 0.6)
	check("smallVsSpx", f.SmallVsSpx, -0.9)
	check("creditTone", f.CreditTone, 0.2)
	check("dollarMove", f.DollarMove, -0.3)
	check("vixMove", f.VixMove, 4.0)
}

func TestPctRoundedToOneDecimal(t *testing.T) {
	a := newTestAggregator(t, &quoteStub{pcts: map[string]float64{SymSPX: 0.567}})

	snap := a.Snapshot(context.Background(), true)
	if got := snap.Tickers[SymSPX].Pct; got != 0.6 {
		t.Fatalf("pct = %v, want 0.6", got)
	}
}

func TestMoversMergedWithoutOverwriting(t *testing.T) {
	a := newTestAggregator(t,
		&quoteStub{pcts: map[string]float64{SymSPX: 0.5}},
		WithMovers(&screenStub{movers: []models.Mover{
			{Symbol: "NVDA", Name: "NVIDIA", MarketCap: 3e12, Last: 121, Prev: 120},
			{Symbol: SymSPX, Name: "dup", MarketCap: 1e12, Last: 1, Prev: 1},
		}}),
	)

	snap := a.Snapshot(context.Background(), true)
	nvda, ok := snap.Tickers["NVDA"]
	if !ok {
		t.Fatalf("mover not merged")
	}
	if nvda.Pct != 0.8 {
		t.Fatalf("mover pct = %v, want 0.8", nvda.Pct)
	}
	// Registry symbols never get overwritten by screen rows
	if snap.Tickers[SymSPX].Last != 100.5 {
		t.Fatalf("registry symbol overwritten: %+v", snap.Tickers[SymSPX])
	}
}

func TestMoversFailureTolerated(t *testing.T) {
	a := newTestAggregator(t,
		&quoteStub{pcts: map[string]float64{SymSPX: 0.5}},
		WithMovers(&screenStub{err: errors.New("screen down")}),
	)

	snap := a.Snapshot(context.Background(), true)
	if _, ok := snap.Tickers[SymSPX]; !ok {
		t.Fatalf("snapshot should still build without the screen")
	}
}

type ttlSpyCache struct {
	cache.Service
	ttls map[string]time.Duration
}

func (s *ttlSpyCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.ttls[key] = ttl
	return s.Service.Set(ctx, key, value, ttl)
}

func TestSnapshotCachedUntilNextUTCDay(t *testing.T) {
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })
	spy := &ttlSpyCache{Service: mc, ttls: map[string]time.Duration{}}

	a := NewAggregator(&quoteStub{pcts: map[string]float64{SymSPX: 0.5}}, spy, testLogger(t), noopMetrics{})
	a.now = func() time.Time { return time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC) }

	a.Snapshot(context.Background(), true)
	if got := spy.ttls["snapshot:2026-08-31"]; got != 6*time.Hour {
		t.Fatalf("snapshot ttl = %v, want the 6h left in the day", got)
	}
}

func TestSnapshotDailyCache(t *testing.T) {
	stub := &quoteStub{pcts: map[string]float64{SymSPX: 0.5}}
	a := newTestAggregator(t, stub)
	ctx := context.Background()

	a.Snapshot(ctx, false)
	first := stub.calls

	a.Snapshot(ctx, false)
	if stub.calls != first {
		t.Fatalf("cached snapshot should not refetch, calls %d -> %d", first, stub.calls)
	}

	a.Snapshot(ctx, true)
	if stub.calls <= first {
		t.Fatalf("forced snapshot should refetch")
	}
}
