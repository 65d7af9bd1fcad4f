package application

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/chromaflow/chromaflow/internal/domain"
	"github.com/chromaflow/chromaflow/internal/ports"
)

// SweepPoint is the outcome of one Peclet sweep iteration.
type SweepPoint struct {
	// PecletNumber is the target Peclet value of the iteration.
	PecletNumber float64

	// AxialDispersion is the dispersion coefficient [m²/s] realizing the
	// target Peclet number at the column's length and velocity.
	AxialDispersion float64

	// Result is the engine solution for this iteration.
	Result *domain.SimulationResult
}

// PecletSweep re-simulates one process across a list of target Peclet
// numbers by varying the axial dispersion of a column. Iterations run
// strictly sequentially in the literal input order; the first engine failure
// aborts the sweep with no partial results.
//
// The sweep never mutates the process it is given. Each iteration clones
// the process and adjusts the clone, so a failure cannot leave shared state
// behind in a half-swept configuration.
type PecletSweep struct {
	simulator ports.Simulator
	metrics   ports.MetricsCollector
	tracer    trace.Tracer
}

// SweepOption customizes a PecletSweep.
type SweepOption func(*PecletSweep)

// WithSweepMetrics lets the sweep record per-point gauges and counters.
func WithSweepMetrics(collector ports.MetricsCollector) SweepOption {
	return func(s *PecletSweep) { s.metrics = collector }
}

// NewPecletSweep creates a sweep driver around the given simulator.
func NewPecletSweep(simulator ports.Simulator, opts ...SweepOption) (*PecletSweep, error) {
	if simulator == nil {
		return nil, fmt.Errorf("peclet sweep: simulator is required")
	}
	s := &PecletSweep{
		simulator: simulator,
		tracer:    otel.Tracer("peclet-sweep"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run executes the sweep and returns one point per target Peclet number,
// in input order.
func (s *PecletSweep) Run(ctx context.Context, process *domain.Process, cfg SweepConfig) ([]SweepPoint, error) {
	if len(cfg.PecletNumbers) == 0 {
		return nil, fmt.Errorf("peclet sweep: no peclet numbers given")
	}

	ctx, span := s.tracer.Start(ctx, "PecletSweep.Run",
		trace.WithAttributes(
			attribute.String("process.name", process.Name()),
			attribute.String("sweep.column", cfg.Column),
			attribute.Int("sweep.points", len(cfg.PecletNumbers)),
		))
	defer span.End()

	points := make([]SweepPoint, 0, len(cfg.PecletNumbers))
	for i, pe := range cfg.PecletNumbers {
		point, err := s.runPoint(ctx, process, cfg.Column, pe)
		if err != nil {
			err = fmt.Errorf("peclet sweep: point %d (Pe=%g): %w", i, pe, err)
			span.RecordError(err)
			return nil, err
		}
		points = append(points, point)
	}
	return points, nil
}

// runPoint simulates one sweep iteration on a fresh clone of the process.
func (s *PecletSweep) runPoint(ctx context.Context, process *domain.Process, columnName string, pe float64) (SweepPoint, error) {
	clone := process.Clone()

	column, flowRate, err := resolveSweepColumn(clone, columnName)
	if err != nil {
		return SweepPoint{}, err
	}

	velocity := column.InterstitialVelocity(flowRate)
	dispersion, err := domain.DispersionFromPeclet(column.Length(), velocity, pe)
	if err != nil {
		return SweepPoint{}, err
	}
	if err := column.SetAxialDispersion(dispersion); err != nil {
		return SweepPoint{}, err
	}

	if s.metrics != nil {
		labels := map[string]string{"process": clone.Name()}
		s.metrics.RecordGauge("sweep_peclet_number", pe, labels)
		s.metrics.RecordCounter("sweep_points_total", 1, labels)
	}

	ctx, span := s.tracer.Start(ctx, "PecletSweep.Point",
		trace.WithAttributes(
			attribute.Float64("sweep.peclet_number", pe),
			attribute.Float64("sweep.axial_dispersion", dispersion),
		))
	defer span.End()

	result, err := s.simulator.Simulate(ctx, clone)
	if err != nil {
		span.RecordError(err)
		return SweepPoint{}, err
	}
	return SweepPoint{PecletNumber: pe, AxialDispersion: dispersion, Result: result}, nil
}

// resolveSweepColumn locates the swept column and the volumetric flow rate
// imposed on it by its upstream source.
func resolveSweepColumn(process *domain.Process, name string) (domain.TransportModeler, float64, error) {
	unit, ok := process.FlowSheet().Unit(name)
	if !ok {
		return nil, 0, fmt.Errorf("column %q: %w", name, domain.ErrUnknownUnit)
	}
	column, ok := unit.(domain.TransportModeler)
	if !ok {
		return nil, 0, fmt.Errorf("unit %q carries no transport parameters", name)
	}

	for _, upstream := range process.FlowSheet().UpstreamOf(name) {
		if source, ok := mustUnit(process, upstream).(domain.FlowRater); ok {
			return column, source.FlowRate(), nil
		}
	}
	return nil, 0, fmt.Errorf("column %q has no upstream unit with a flow rate", name)
}

func mustUnit(process *domain.Process, name string) domain.UnitOperation {
	u, _ := process.FlowSheet().Unit(name)
	return u
}

// ProcessPecletNumber computes the current Peclet number of the named column
// within a process, Pe = L·u/D with u derived from the upstream flow rate.
func ProcessPecletNumber(process *domain.Process, columnName string) (float64, error) {
	column, flowRate, err := resolveSweepColumn(process, columnName)
	if err != nil {
		return 0, err
	}
	velocity := column.InterstitialVelocity(flowRate)
	return domain.PecletNumber(column.Length(), velocity, column.AxialDispersion()), nil
}
