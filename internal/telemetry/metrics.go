package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the refresh pipeline.
type Metrics struct {
	// SourceFetches counts fetches per source and result (success, failed).
	SourceFetches *prometheus.CounterVec
	// Passes counts reconciliation passes per result (ok, failed, discarded).
	Passes *prometheus.CounterVec
	// PassDuration observes how long a full fetch-and-merge pass takes.
	PassDuration prometheus.Histogram
	// UnknownFields is the number of scalar fields no source supplied in the last view.
	UnknownFields prometheus.Gauge
}

// NewMetrics creates the collectors without registering them.
func NewMetrics() *Metrics {
	return &Metrics{
		SourceFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compliancemon_source_fetch_total",
				Help: "Metrics source fetches by source and result.",
			},
			[]string{"source", "result"},
		),
		Passes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compliancemon_passes_total",
				Help: "Reconciliation passes by result.",
			},
			[]string{"result"},
		),
		PassDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "compliancemon_pass_duration_seconds",
				Help:    "Duration of one fetch-and-merge pass.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
			},
		),
		UnknownFields: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "compliancemon_view_unknown_fields",
				Help: "Scalar fields resolved to unknown in the last published view.",
			},
		),
	}
}

// Register registers all collectors to reg.
func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(m.SourceFetches, m.Passes, m.PassDuration, m.UnknownFields)
}
