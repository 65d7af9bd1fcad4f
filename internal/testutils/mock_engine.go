// Package testutils provides test doubles for the simulation engine so the
// assembly, sweep, analysis, and plotting layers can be exercised without a
// running solver.
package testutils

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/chromaflow/chromaflow/infrastructure/units"
	"github.com/chromaflow/chromaflow/internal/domain"
	"github.com/chromaflow/chromaflow/internal/ports"
)

// defaultSamples is the number of points on the generated solution grid.
const defaultSamples = 600

// MockEngine is a deterministic stand-in for the external simulation
// engine. It fabricates outlet curves with the qualitative shape a real
// solution would have: each rectangular inlet segment arrives at the outlet
// delayed by the column's retention time and smoothed with a spread that
// shrinks as the Peclet number grows, with the injected area preserved.
//
// The curves are synthetic. No transport equations are solved; the mock
// exists so tests can assert on plumbing, ordering, and post-processing,
// not on physics.
//
// MockEngine is safe for concurrent use.
type MockEngine struct {
	// Err, when set, is returned by every Simulate call.
	Err error

	// Latency delays every Simulate call, respecting context cancellation.
	Latency time.Duration

	// NumSamples overrides the solution grid resolution.
	NumSamples int

	mu        sync.Mutex
	calls     int
	lastInput *domain.Process
}

var _ ports.Simulator = (*MockEngine)(nil)

// Calls returns how many times Simulate was invoked.
func (m *MockEngine) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastProcess returns the process of the most recent Simulate call.
func (m *MockEngine) LastProcess() *domain.Process {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastInput
}

// Simulate validates the process and fabricates its solution.
func (m *MockEngine) Simulate(ctx context.Context, process *domain.Process) (*domain.SimulationResult, error) {
	m.mu.Lock()
	m.calls++
	m.lastInput = process
	m.mu.Unlock()

	if m.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Latency):
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if err := process.Validate(); err != nil {
		return nil, err
	}

	model, err := inspect(process)
	if err != nil {
		return nil, err
	}

	samples := m.NumSamples
	if samples <= 0 {
		samples = defaultSamples
	}

	grid := timeGrid(process.CycleTime(), samples)
	result := domain.NewSimulationResult(process.Name())

	inletSeries := model.inletSeries(grid)
	if err := result.AddSeries(model.inlet.Name(), domain.PortOutlet, inletSeries); err != nil {
		return nil, err
	}

	outletSeries := model.outletSeries(grid)
	if err := result.AddSeries(model.column.Name(), domain.PortOutlet, outletSeries); err != nil {
		return nil, err
	}
	if model.outletName != model.column.Name() {
		copySeries := &domain.TimeSeries{
			Time:          outletSeries.Time,
			Concentration: outletSeries.Concentration,
		}
		if err := result.AddSeries(model.outletName, domain.PortOutlet, copySeries); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// chainModel is the inspected shape of an inlet -> column -> outlet chain.
type chainModel struct {
	system     *domain.ComponentSystem
	inlet      *units.Inlet
	column     *units.Column
	outletName string
	events     []domain.Event
	cycleTime  float64
}

// inspect extracts the chain the mock knows how to fabricate curves for.
func inspect(process *domain.Process) (*chainModel, error) {
	fs := process.FlowSheet()
	model := &chainModel{
		system:    fs.System(),
		events:    process.Events(),
		cycleTime: process.CycleTime(),
	}
	for _, u := range fs.Units() {
		switch unit := u.(type) {
		case *units.Inlet:
			model.inlet = unit
		case *units.Column:
			model.column = unit
		case *units.Outlet:
			model.outletName = unit.Name()
		}
	}
	if model.inlet == nil || model.column == nil {
		return nil, fmt.Errorf("mock engine: flow sheet needs an inlet and a column")
	}
	if model.outletName == "" {
		model.outletName = model.column.Name()
	}
	return model, nil
}

// segment is one piece of the piecewise-constant inlet profile.
type segment struct {
	start, end float64
	conc       []float64
}

// inletProfile folds the concentration events into piecewise-constant
// segments covering [0, cycleTime].
func (cm *chainModel) inletProfile() []segment {
	type step struct {
		at   float64
		conc []float64
	}
	steps := []step{{at: 0, conc: cm.inlet.Concentration()}}
	for _, e := range cm.events {
		if e.Target.Unit == cm.inlet.Name() && e.Target.Parameter == domain.ParamInletConcentration {
			steps = append(steps, step{at: e.Time, conc: e.Value})
		}
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].at < steps[j].at })

	var segments []segment
	for i, s := range steps {
		end := cm.cycleTime
		if i+1 < len(steps) {
			end = steps[i+1].at
		}
		if end > s.at {
			segments = append(segments, segment{start: s.at, end: end, conc: s.conc})
		}
	}
	return segments
}

// inletSeries samples the piecewise-constant inlet profile on the grid.
func (cm *chainModel) inletSeries(grid []float64) *domain.TimeSeries {
	segments := cm.inletProfile()
	nComp := cm.system.NComp()

	conc := make([][]float64, len(grid))
	for i, t := range grid {
		row := make([]float64, nComp)
		for _, seg := range segments {
			if t >= seg.start && t < seg.end {
				copy(row, seg.conc)
				break
			}
		}
		conc[i] = row
	}
	return &domain.TimeSeries{Time: grid, Concentration: conc}
}

// outletSeries fabricates the elution curve: every inlet segment arrives
// delayed by the retention time and smeared with a Gaussian spread
// sigma = t_r * sqrt(2/Pe), so larger Peclet numbers give sharper peaks
// while the area under each component's curve stays that of the input.
func (cm *chainModel) outletSeries(grid []float64) *domain.TimeSeries {
	flowRate := cm.inlet.FlowRate()
	velocity := cm.column.InterstitialVelocity(flowRate)
	pe := domain.PecletNumber(cm.column.Length(), velocity, cm.column.AxialDispersion())
	retention := cm.retentionTime(velocity)
	sigma := retention * math.Sqrt(2/pe)
	if sigma <= 0 {
		sigma = retention * 1e-6
	}

	segments := cm.inletProfile()
	nComp := cm.system.NComp()

	conc := make([][]float64, len(grid))
	for i, t := range grid {
		row := make([]float64, nComp)
		for _, seg := range segments {
			// Smoothed rectangle: difference of two error functions.
			lead := erfStep(t-retention-seg.start, sigma)
			trail := erfStep(t-retention-seg.end, sigma)
			for c := 0; c < nComp; c++ {
				row[c] += seg.conc[c] * (lead - trail)
			}
		}
		conc[i] = row
	}
	return &domain.TimeSeries{Time: grid, Concentration: conc}
}

// retentionTime places the synthetic peak: the convective dead time scaled
// by the equilibrium retention factor of the column's porosities and, for a
// bound tracer, the first component's equilibrium constant.
func (cm *chainModel) retentionTime(velocity float64) float64 {
	deadTime := cm.column.Length() / velocity

	k := 0.0
	if b := cm.column.BindingModel(); b != nil && len(b.AdsorptionRate) > 0 && b.DesorptionRate[0] > 0 {
		k = b.AdsorptionRate[0] / b.DesorptionRate[0]
	}
	epsC := cm.column.BedPorosity()
	epsP := cm.column.ParticlePorosity()
	factor := 1 + (1-epsC)/epsC*(epsP+(1-epsP)*k)
	return deadTime * factor
}

// erfStep is a unit step at zero smoothed to width sigma.
func erfStep(x, sigma float64) float64 {
	return 0.5 * (1 + math.Erf(x/(sigma*math.Sqrt2)))
}

// timeGrid returns n+1 evenly spaced points covering [0, cycleTime].
func timeGrid(cycleTime float64, n int) []float64 {
	grid := make([]float64, n+1)
	for i := range grid {
		grid[i] = cycleTime * float64(i) / float64(n)
	}
	return grid
}
