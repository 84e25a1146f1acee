// Package metrics holds the Prometheus collectors of the mapping engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "docmapper"

// Directive outcome labels.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusMissing = "missing"
	StatusSkipped = "skipped"
)

// Metrics groups the engine collectors. A nil *Metrics records nothing.
type Metrics struct {
	DirectivesTotal    *prometheus.CounterVec
	ConversionFailures *prometheus.CounterVec
	FieldsWritten      *prometheus.CounterVec
	PassDuration       *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DirectivesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "directives_total",
				Help:      "Total number of executed mapping directives",
			},
			[]string{"status"},
		),
		ConversionFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversion_failures_total",
				Help:      "Total number of failed type conversions",
			},
			[]string{"concern"},
		),
		FieldsWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fields_written_total",
				Help:      "Total number of fields written to target documents",
			},
			[]string{"format"},
		),
		PassDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pass_duration_seconds",
				Help:      "Mapping pass duration in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(m.DirectivesTotal, m.ConversionFailures, m.FieldsWritten, m.PassDuration)

	return m
}

// Directive counts one directive outcome.
func (m *Metrics) Directive(status string) {
	if m == nil {
		return
	}

	m.DirectivesTotal.WithLabelValues(status).Inc()
}

// ConversionFailure counts one failed conversion by concern.
func (m *Metrics) ConversionFailure(concern string) {
	if m == nil {
		return
	}

	m.ConversionFailures.WithLabelValues(concern).Inc()
}

// Written counts n fields written to a document of the given format.
func (m *Metrics) Written(format string, n int) {
	if m == nil || n <= 0 {
		return
	}

	m.FieldsWritten.WithLabelValues(format).Add(float64(n))
}

// Pass records the duration of a finished pass.
func (m *Metrics) Pass(status string, d time.Duration) {
	if m == nil {
		return
	}

	m.PassDuration.WithLabelValues(status).Observe(d.Seconds())
}
