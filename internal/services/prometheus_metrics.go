package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names understood by PrometheusMetrics
const (
	MetricImportPreview       = "import.preview"
	MetricImportRejected      = "import.rejected"
	MetricImportRows          = "import.rows"
	MetricDuplicateLookup     = "import.duplicate_lookup"
	MetricCircuitBreakerState = "circuit_breaker.state"
	MetricTransactionsCommit  = "transactions.commit"
	MetricKeywordChanged      = "category.keyword.changed"
)

type PrometheusMetrics struct {
	importPreviews      *prometheus.CounterVec
	importRejected      *prometheus.CounterVec
	importDuration      prometheus.Histogram
	importRows          *prometheus.CounterVec
	importRowsPerFile   prometheus.Histogram
	duplicateLookups    *prometheus.CounterVec
	duplicateLookupTime prometheus.Histogram
	circuitBreakerState *prometheus.GaugeVec
	committed           *prometheus.CounterVec
	commitDuration      prometheus.Histogram
	keywordChanges      *prometheus.CounterVec
}

// NewPrometheusMetrics registers the service collectors on reg
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		importPreviews: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "import_previews_total",
				Help: "Total number of spreadsheet import previews by outcome",
			},
			[]string{"status"},
		),
		importRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "import_rejected_total",
				Help: "Total number of uploads rejected before the pipeline ran",
			},
			[]string{"reason"},
		),
		importDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "import_preview_duration_milliseconds",
				Help:    "Import preview duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 14),
			},
		),
		importRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "import_rows_total",
				Help: "Total number of spreadsheet rows by pipeline outcome",
			},
			[]string{"outcome"},
		),
		importRowsPerFile: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "import_rows_per_file",
				Help:    "Number of data rows per imported file",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		duplicateLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "duplicate_lookups_total",
				Help: "Total number of natural key lookups by result",
			},
			[]string{"result"},
		),
		duplicateLookupTime: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "duplicate_lookup_duration_seconds",
				Help:    "Natural key lookup duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		circuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
		committed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_committed_total",
				Help: "Total number of reviewed rows handled by commits",
			},
			[]string{"outcome"},
		),
		commitDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "transactions_commit_duration_milliseconds",
				Help:    "Commit duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		keywordChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "category_keyword_changes_total",
				Help: "Total number of keyword changes by operation",
			},
			[]string{"operation"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case MetricImportPreview:
		if status := tags["status"]; status != "" {
			m.importPreviews.WithLabelValues(status).Inc()
		}
	case MetricImportRejected:
		if reason := tags["reason"]; reason != "" {
			m.importRejected.WithLabelValues(reason).Inc()
		}
	case MetricDuplicateLookup:
		if result := tags["result"]; result != "" {
			m.duplicateLookups.WithLabelValues(result).Inc()
		}
	case MetricKeywordChanged:
		if operation := tags["operation"]; operation != "" {
			m.keywordChanges.WithLabelValues(operation).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case MetricImportPreview:
		m.importDuration.Observe(float64(duration.Milliseconds()))
	case MetricDuplicateLookup:
		m.duplicateLookupTime.Observe(duration.Seconds())
	case MetricTransactionsCommit:
		m.commitDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case MetricImportRows:
		outcome := tags["outcome"]
		if outcome == "" {
			m.importRowsPerFile.Observe(value)
			return
		}
		m.importRows.WithLabelValues(outcome).Add(value)
	case MetricCircuitBreakerState:
		if service := tags["service"]; service != "" {
			m.circuitBreakerState.WithLabelValues(service).Set(value)
		}
	case MetricTransactionsCommit:
		if outcome := tags["outcome"]; outcome != "" {
			m.committed.WithLabelValues(outcome).Add(value)
		}
	}
}

// NoopMetrics discards every measurement
type NoopMetrics struct{}

func (NoopMetrics) IncrementCounter(string, map[string]string) {}

func (NoopMetrics) RecordProcessingTime(string, time.Duration) {}

func (NoopMetrics) RecordGauge(string, float64, map[string]string) {}
