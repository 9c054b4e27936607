package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	transactionsRecorded  *prometheus.CounterVec
	insightsGenerated     *prometheus.CounterVec
	analyticsRequests     *prometheus.CounterVec
	snapshotFetchDuration prometheus.Histogram
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		transactionsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_recorded_total",
				Help: "Total number of transactions recorded",
			},
			[]string{"type"},
		),
		insightsGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insights_generated_total",
				Help: "Total number of insights generated",
			},
			[]string{"kind"},
		),
		analyticsRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_requests_total",
				Help: "Total number of analytics computations",
			},
			[]string{"operation"},
		),
		snapshotFetchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "analytics_snapshot_fetch_duration_milliseconds",
				Help:    "Transaction snapshot fetch and computation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementTransactionsRecorded(transactionType string) {
	m.transactionsRecorded.WithLabelValues(transactionType).Inc()
}

func (m *PrometheusMetrics) IncrementInsightsGenerated(kind string) {
	m.insightsGenerated.WithLabelValues(kind).Inc()
}

func (m *PrometheusMetrics) IncrementAnalyticsRequests(operation string) {
	m.analyticsRequests.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) ObserveSnapshotFetch(duration time.Duration) {
	m.snapshotFetchDuration.Observe(float64(duration.Milliseconds()))
}

// NoopMetrics discards all observations. Tests use it instead of
// registering collectors on the default registry.
type NoopMetrics struct{}

func NewNoopMetrics() MetricsRecorderInterface { return &NoopMetrics{} }

func (m *NoopMetrics) IncrementTransactionsRecorded(string) {}
func (m *NoopMetrics) IncrementInsightsGenerated(string)    {}
func (m *NoopMetrics) IncrementAnalyticsRequests(string)    {}
func (m *NoopMetrics) ObserveSnapshotFetch(time.Duration)   {}
