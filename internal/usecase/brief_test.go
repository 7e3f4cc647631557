package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"MarketBrief/internal/domain/models"
	"MarketBrief/internal/narrative"
	"MarketBrief/internal/pulse"
	"MarketBrief/internal/snapshot"
	"MarketBrief/pkg/cache"
	"MarketBrief/pkg/logger"
)

type seriesStub struct {
	points []models.TimeSeriesPoint
	calls  int
}

func (s *seriesStub) Series(_ context.Context) ([]models.TimeSeriesPoint, error) {
	s.calls++
	return s.points, nil
}

type quoteStub struct {
	pcts  map[string]float64
	calls int
}

func (q *quoteStub) Quote(_ context.Context, symbol string) (float64, float64, error) {
	q.calls++
	pct := q.pcts[symbol]
	return 100 + pct, 100, nil
}

type archiveStub struct {
	snapshots int
	pulses    int
	err       error
}

func (a *archiveStub) SaveSnapshotRows(_ context.Context, _ string, _ map[string]models.TickerQuote) error {
	a.snapshots++
	return a.err
}

func (a *archiveStub) SavePulseItems(_ context.Context, _ []models.RiskPulseItem) error {
	a.pulses++
	return a.err
}

type publisherStub struct {
	topics []string
}

func (p *publisherStub) PublishMessage(_ context.Context, topic string, _ any) error {
	p.topics = append(p.topics, topic)
	return nil
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

func flatSeries(n int) []models.TimeSeriesPoint {
	points := make([]models.TimeSeriesPoint, n)
	for i := range points {
		points[i] = models.TimeSeriesPoint{Date: "2024-01-01", Value: 100}
	}
	return points
}

type ttlSpyCache struct {
	cache.Service
	ttls map[string]time.Duration
}

func (s *ttlSpyCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.ttls[key] = ttl
	return s.Service.Set(ctx, key, value, ttl)
}

type harness struct {
	uc     *BriefUseCase
	quotes *quoteStub
	policy *seriesStub
	ttls   map[string]time.Duration
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })
	spy := &ttlSpyCache{Service: mc, ttls: map[string]time.Duration{}}
	log := testLogger(t)

	quotes := &quoteStub{pcts: map[string]float64{snapshot.SymSPX: 0.5}}
	policy := &seriesStub{points: flatSeries(60)}
	other := &seriesStub{points: flatSeries(60)}

	agg := snapshot.NewAggregator(quotes, spy, log, noopMetrics{})
	classifier := pulse.NewClassifier(pulse.Sources{
		Policy:      policy,
		Regulatory:  other,
		Trade:       other,
		Geopolitics: other,
	}, pulse.TTLs{}, spy, log, noopMetrics{})

	uc := NewBriefUseCase(agg, classifier, narrative.NewSynthesizer(), spy, log, noopMetrics{}, opts...)
	return &harness{uc: uc, quotes: quotes, policy: policy, ttls: spy.ttls}
}

func TestBriefComposesSnapshotPulseNarrative(t *testing.T) {
	h := newHarness(t)

	res, err := h.uc.Brief(context.Background(), true)
	if err != nil {
		t.Fatalf("brief: %v", err)
	}
	if len(res.Paragraphs) == 0 {
		t.Fatalf("brief has no paragraphs")
	}
	if !strings.Contains(res.Text, "[[UP:INDEX:^GSPC|S&P 500|+0.5%]]") {
		t.Fatalf("index token missing: %q", res.Text)
	}
	if res.AsOf == "" {
		t.Fatalf("asOf missing")
	}
}

func TestBriefCachedPerDay(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.uc.Brief(ctx, false); err != nil {
		t.Fatalf("brief: %v", err)
	}
	quoteCalls, policyCalls := h.quotes.calls, h.policy.calls

	if _, err := h.uc.Brief(ctx, false); err != nil {
		t.Fatalf("brief: %v", err)
	}
	if h.quotes.calls != quoteCalls || h.policy.calls != policyCalls {
		t.Fatalf("cached brief refetched upstream")
	}

	if _, err := h.uc.Brief(ctx, true); err != nil {
		t.Fatalf("brief: %v", err)
	}
	if h.quotes.calls == quoteCalls {
		t.Fatalf("forced brief should refetch")
	}
}

func TestBriefCachedUntilNextUTCDay(t *testing.T) {
	h := newHarness(t)
	h.uc.now = func() time.Time { return time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC) }

	if _, err := h.uc.Brief(context.Background(), true); err != nil {
		t.Fatalf("brief: %v", err)
	}
	if got := h.ttls["brief:2026-08-31"]; got != 6*time.Hour {
		t.Fatalf("brief ttl = %v, want the 6h left in the day", got)
	}
}

func TestBriefTTLOverride(t *testing.T) {
	h := newHarness(t, WithBriefTTL(10*time.Minute))
	h.uc.now = func() time.Time { return time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC) }

	if _, err := h.uc.Brief(context.Background(), true); err != nil {
		t.Fatalf("brief: %v", err)
	}
	if got := h.ttls["brief:2026-08-31"]; got != 10*time.Minute {
		t.Fatalf("brief ttl = %v, want 10m", got)
	}
}

func TestRefreshInvalidatesAndPublishes(t *testing.T) {
	pub := &publisherStub{}
	h := newHarness(t, WithEvents(pub, ""))
	ctx := context.Background()

	if _, err := h.uc.Brief(ctx, false); err != nil {
		t.Fatalf("brief: %v", err)
	}
	calls := h.quotes.calls

	if err := h.uc.Refresh(ctx, TargetSnapshot); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(pub.topics) != 1 || pub.topics[0] != RefreshedTopic {
		t.Fatalf("refresh event not published: %v", pub.topics)
	}

	if _, err := h.uc.Brief(ctx, false); err != nil {
		t.Fatalf("brief: %v", err)
	}
	if h.quotes.calls == calls {
		t.Fatalf("refresh should have invalidated the snapshot cache")
	}
}

func TestRefreshPublishesOnConfiguredTopic(t *testing.T) {
	pub := &publisherStub{}
	h := newHarness(t, WithEvents(pub, "marketbrief.events"))

	if err := h.uc.Refresh(context.Background(), TargetPulse); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(pub.topics) != 1 || pub.topics[0] != "marketbrief.events" {
		t.Fatalf("topics = %v, want configured topic", pub.topics)
	}
}

func TestRefreshUnknownTarget(t *testing.T) {
	h := newHarness(t)
	if err := h.uc.Refresh(context.Background(), "everything"); err == nil {
		t.Fatalf("unknown target should error")
	}
}

func TestArchiveFailureDoesNotFailBrief(t *testing.T) {
	arch := &archiveStub{err: errors.New("clickhouse down")}
	h := newHarness(t, WithArchive(arch))

	if _, err := h.uc.Brief(context.Background(), true); err != nil {
		t.Fatalf("brief should tolerate archive failure: %v", err)
	}
	if arch.snapshots != 1 || arch.pulses != 1 {
		t.Fatalf("archive not attempted: %+v", arch)
	}
}
