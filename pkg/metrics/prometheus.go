package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal  *prometheus.CounterVec
	anomaliesSeen *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendlens_fetches_total",
				Help: "Total number of market data fetches per source",
			},
			[]string{"source", "symbol"},
		),
		anomaliesSeen: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendlens_anomalies_total",
				Help: "Total number of anomaly events detected",
			},
			[]string{"symbol", "kind"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendlens_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trendlens_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records a completed market data fetch.
func (r *Recorder) RecordFetch(source, symbol string) {
	r.fetchesTotal.WithLabelValues(source, symbol).Inc()
}

// RecordAnomalies records detected anomaly events by kind.
func (r *Recorder) RecordAnomalies(symbol, kind string, count int) {
	r.anomaliesSeen.WithLabelValues(symbol, kind).Add(float64(count))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
