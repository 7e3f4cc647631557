package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"MarketBrief/internal/domain/models"
	"MarketBrief/internal/narrative"
	"MarketBrief/internal/pulse"
	"MarketBrief/internal/snapshot"
	"MarketBrief/internal/usecase"
	"MarketBrief/pkg/cache"
	"MarketBrief/pkg/logger"

	"github.com/labstack/echo/v4"
)

type quoteStub struct{}

func (quoteStub) Quote(_ context.Context, _ string) (float64, float64, error) {
	return 100.5, 100, nil
}

type seriesStub struct{}

func (seriesStub) Series(_ context.Context) ([]models.TimeSeriesPoint, error) {
	points := make([]models.TimeSeriesPoint, 60)
	for i := range points {
		points[i] = models.TimeSeriesPoint{Date: "2024-01-01", Value: 100}
	}
	return points, nil
}

type noopMetrics struct{}

func (noopMetrics) RecordFetch(string, string)           {}
func (noopMetrics) RecordError(string)                   {}
func (noopMetrics) RecordCache(string, string)           {}
func (noopMetrics) RecordIndicatorValue(string, float64) {}
func (noopMetrics) RecordLatency(string, float64)        {}

func newTestHandler(t *testing.T, limits RateLimits) (*BriefEchoHandler, *echo.Echo) {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })

	agg := snapshot.NewAggregator(quoteStub{}, mc, log, noopMetrics{})
	series := seriesStub{}
	classifier := pulse.NewClassifier(pulse.Sources{
		Policy: series, Regulatory: series, Trade: series, Geopolitics: series,
	}, pulse.TTLs{}, mc, log, noopMetrics{})
	uc := usecase.NewBriefUseCase(agg, classifier, narrative.NewSynthesizer(), mc, log, noopMetrics{})

	h := NewBriefEchoHandler(log, uc, limits)
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBriefEndpoint(t *testing.T) {
	_, e := newTestHandler(t, RateLimits{})

	rec := doRequest(e, http.MethodGet, "/api/brief", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "paragraphs") {
		t.Fatalf("paragraphs missing from body: %s", rec.Body.String())
	}
}

func TestSnapshotEndpointEnveloped(t *testing.T) {
	_, e := newTestHandler(t, RateLimits{})

	rec := doRequest(e, http.MethodGet, "/api/snapshot", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "updatedAt") {
		t.Fatalf("envelope missing: %s", body)
	}
}

func TestPulseEndpoint(t *testing.T) {
	_, e := newTestHandler(t, RateLimits{})

	rec := doRequest(e, http.MethodGet, "/api/pulse", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "policy") {
		t.Fatalf("pulse items missing: %s", rec.Body.String())
	}
}

func TestRefreshRejectsUnknownTarget(t *testing.T) {
	_, e := newTestHandler(t, RateLimits{})

	rec := doRequest(e, http.MethodPost, "/api/refresh", `{"target":"everything"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ERR_ONEOF") {
		t.Fatalf("validation error missing: %s", rec.Body.String())
	}
}

func TestRefreshDefaultsToAll(t *testing.T) {
	_, e := newTestHandler(t, RateLimits{})

	rec := doRequest(e, http.MethodPost, "/api/refresh", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestRateLimitReturns429(t *testing.T) {
	_, e := newTestHandler(t, RateLimits{Enabled: true, Rate: 0, Burst: 2})

	for i := 0; i < 2; i++ {
		if rec := doRequest(e, http.MethodGet, "/api/pulse", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	rec := doRequest(e, http.MethodGet, "/api/pulse", "")
	if !strings.Contains(rec.Body.String(), "429") {
		t.Fatalf("expected rate limit response, got %s", rec.Body.String())
	}
}
