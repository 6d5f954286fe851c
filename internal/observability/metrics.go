package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion and risk pipeline.
type Metrics struct {
	DocumentsIngested    prometheus.Counter
	DocumentsSuppressed  prometheus.Counter
	IngestErrors         prometheus.Counter
	AttributionsCreated  prometheus.Counter
	SnapshotsWritten     prometheus.Counter
	AlertsTriggered      prometheus.Counter
	AlertsSuppressed     prometheus.Counter

	IngestDuration prometheus.Histogram
	BatchSize      prometheus.Histogram

	// Detection metrics.
	DetectRequests *prometheus.CounterVec // labels: provider={ai,ner,pattern}, outcome={success,error,empty}
	GazetteerSize  prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DocumentsIngested,
		m.DocumentsSuppressed,
		m.IngestErrors,
		m.AttributionsCreated,
		m.SnapshotsWritten,
		m.AlertsTriggered,
		m.AlertsSuppressed,
		m.IngestDuration,
		m.BatchSize,
		m.DetectRequests,
		m.GazetteerSize,
	)
	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry
// to avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DocumentsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vigia",
			Name:      "documents_ingested_total",
			Help:      "Total documents accepted by the pipeline.",
		}),
		DocumentsSuppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vigia",
			Name:      "documents_suppressed_total",
			Help:      "Total documents dropped as exact or near duplicates.",
		}),
		IngestErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vigia",
			Name:      "ingest_errors_total",
			Help:      "Total documents that failed ingestion.",
		}),
		AttributionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vigia",
			Name:      "attributions_created_total",
			Help:      "Total document-territory attributions stored.",
		}),
		SnapshotsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vigia",
			Name:      "risk_snapshots_total",
			Help:      "Total risk snapshots written by the aggregator.",
		}),
		AlertsTriggered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vigia",
			Name:      "alerts_triggered_total",
			Help:      "Total alert events created.",
		}),
		AlertsSuppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vigia",
			Name:      "alerts_suppressed_total",
			Help:      "Total alert firings suppressed by the cool-down window.",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vigia",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of a single document ingest, detection included.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vigia",
			Name:      "batch_size",
			Help:      "Number of documents per ingest batch.",
			Buckets:   []float64{1, 5, 10, 20, 50, 100, 250, 500},
		}),
		DetectRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vigia",
			Name:      "detect_requests_total",
			Help:      "Toponym detection calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GazetteerSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vigia",
			Name:      "gazetteer_territories",
			Help:      "Number of enabled territories in the active catalog version.",
		}),
	}
}
