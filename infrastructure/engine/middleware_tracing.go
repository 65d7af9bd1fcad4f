package engine

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/chromaflow/chromaflow/internal/domain"
)

// tracedEngine wraps engine invocations in OpenTelemetry spans carrying the
// process name, cycle time, and endpoint for debugging slow or failing runs.
type tracedEngine struct {
	next   CoreEngine
	tracer trace.Tracer
}

// TracingMiddleware creates middleware that traces engine invocations.
func TracingMiddleware() Middleware {
	return func(next CoreEngine) CoreEngine {
		return &tracedEngine{
			next:   next,
			tracer: otel.Tracer("simulation-engine"),
		}
	}
}

// Simulate executes the submission within a trace span.
func (t *tracedEngine) Simulate(ctx context.Context, process *domain.Process) (*domain.SimulationResult, error) {
	ctx, span := t.tracer.Start(ctx, "Engine.Simulate",
		trace.WithAttributes(
			attribute.String("process.name", process.Name()),
			attribute.Float64("process.cycle_time_s", process.CycleTime()),
			attribute.String("engine.endpoint", t.next.Endpoint()),
		))
	defer span.End()

	result, err := t.next.Simulate(ctx, process)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("solution.series", len(result.Keys())))
	return result, nil
}

// Endpoint returns the endpoint of the wrapped engine.
func (t *tracedEngine) Endpoint() string { return t.next.Endpoint() }
