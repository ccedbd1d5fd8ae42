// Package observability bundles Prometheus metrics and logger construction.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and gauges for the mapper service.
type Metrics struct {
	UploadsTotal   prometheus.Counter
	UploadFailures prometheus.Counter
	RowsLoaded     prometheus.Counter
	RowsDropped    prometheus.Counter
	ActiveSessions prometheus.Gauge

	Exports *prometheus.CounterVec // label: format={csv,geojson}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.UploadsTotal,
		m.UploadFailures,
		m.RowsLoaded,
		m.RowsDropped,
		m.ActiveSessions,
		m.Exports,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		UploadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mapper",
			Name:      "uploads_total",
			Help:      "Total CSV uploads accepted.",
		}),
		UploadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mapper",
			Name:      "upload_failures_total",
			Help:      "Total uploads rejected as malformed.",
		}),
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mapper",
			Name:      "rows_loaded_total",
			Help:      "Total rows surviving coercion.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mapper",
			Name:      "rows_dropped_total",
			Help:      "Total rows dropped for unparseable coordinates.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mapper",
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory.",
		}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mapper",
			Name:      "exports_total",
			Help:      "File exports by format.",
		}, []string{"format"}),
	}
}
