package engine

import (
	"context"
	"time"

	"github.com/chromaflow/chromaflow/internal/domain"
	"github.com/chromaflow/chromaflow/internal/ports"
)

// metricsEngine records latency and outcome counters for every engine
// invocation through a ports.MetricsCollector.
type metricsEngine struct {
	next      CoreEngine
	collector ports.MetricsCollector
}

// MetricsMiddleware creates middleware that observes engine invocations.
// A nil collector disables the middleware.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next CoreEngine) CoreEngine {
		if collector == nil {
			return next
		}
		return &metricsEngine{next: next, collector: collector}
	}
}

// Simulate forwards the request and records its duration and outcome.
func (m *metricsEngine) Simulate(ctx context.Context, process *domain.Process) (*domain.SimulationResult, error) {
	labels := map[string]string{"process": process.Name()}
	start := time.Now()

	result, err := m.next.Simulate(ctx, process)

	m.collector.RecordLatency("simulate", time.Since(start), labels)
	if err != nil {
		m.collector.RecordCounter("simulations_failed_total", 1, labels)
		return nil, err
	}
	m.collector.RecordCounter("simulations_total", 1, labels)
	return result, nil
}

// Endpoint returns the endpoint of the wrapped engine.
func (m *metricsEngine) Endpoint() string { return m.next.Endpoint() }
