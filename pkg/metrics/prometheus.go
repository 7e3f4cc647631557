package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	cacheTotal   *prometheus.CounterVec
	lastValue    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketbrief_feed_fetches_total",
				Help: "Total number of upstream feed fetches",
			},
			[]string{"feed", "status"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketbrief_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		cacheTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketbrief_cache_requests_total",
				Help: "Cache lookups by outcome",
			},
			[]string{"key_prefix", "outcome"},
		),
		lastValue: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketbrief_indicator_value",
				Help: "Last computed value for an indicator",
			},
			[]string{"indicator"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketbrief_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records an upstream fetch attempt.
func (r *Recorder) RecordFetch(feed, status string) {
	r.fetchesTotal.WithLabelValues(feed, status).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCache records a cache hit or miss for a key prefix.
func (r *Recorder) RecordCache(keyPrefix, outcome string) {
	r.cacheTotal.WithLabelValues(keyPrefix, outcome).Inc()
}

// RecordIndicatorValue records the last computed value for an indicator.
func (r *Recorder) RecordIndicatorValue(indicator string, value float64) {
	r.lastValue.WithLabelValues(indicator).Set(value)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
