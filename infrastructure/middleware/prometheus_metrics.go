// Package middleware provides cross-cutting concerns for simulation runs.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/chromaflow/chromaflow/internal/ports"
)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It provides real-time monitoring of engine invocations and
// parameter sweeps.
type PrometheusMetrics struct {
	simulationLatency *prometheus.HistogramVec
	simulationCounter *prometheus.CounterVec
	sweepGauges       *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and registers
// all required metrics with the given registerer. Pass
// prometheus.DefaultRegisterer for the global registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		simulationLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "simulation_duration_seconds",
				Help: "Wall-clock duration of external engine invocations.",
				// Engine runs span milliseconds (trivial models) to
				// minutes, so the default buckets are stretched.
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
			},
			[]string{"operation", "process"},
		),
		simulationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "simulations_total",
				Help: "Total engine invocations by outcome.",
			},
			[]string{"metric", "process"},
		),
		sweepGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sweep_state",
				Help: "Current sweep state values, such as the Peclet number being simulated.",
			},
			[]string{"metric", "process"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// invocation latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string, duration time.Duration, labels map[string]string,
) {
	pm.simulationLatency.WithLabelValues(operation, labels["process"]).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	pm.simulationCounter.WithLabelValues(metric, labels["process"]).Add(value)
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	pm.sweepGauges.WithLabelValues(metric, labels["process"]).Set(value)
}

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
