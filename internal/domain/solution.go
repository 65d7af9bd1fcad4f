package domain

import "fmt"

// Port distinguishes the boundary of a unit a solution series was recorded at.
type Port string

// Solution ports reported by the simulation engine.
const (
	PortInlet  Port = "inlet"
	PortOutlet Port = "outlet"
)

// TimeSeries is the simulated concentration history at one unit port:
// a shared time grid [s] and one concentration value [mM] per component
// per time point.
type TimeSeries struct {
	// Time is the monotonically increasing solution time grid [s].
	Time []float64

	// Concentration holds one row per time point, each row carrying the
	// per-species concentrations in component order.
	Concentration [][]float64
}

// Component extracts the concentration history of a single component.
// The returned slice is a copy.
func (ts *TimeSeries) Component(i int) ([]float64, error) {
	out := make([]float64, len(ts.Concentration))
	for j, row := range ts.Concentration {
		if i < 0 || i >= len(row) {
			return nil, fmt.Errorf("time series: component %d out of range (row has %d)", i, len(row))
		}
		out[j] = row[i]
	}
	return out, nil
}

// Validate checks the series is rectangular and aligned with the time grid.
func (ts *TimeSeries) Validate() error {
	if len(ts.Time) != len(ts.Concentration) {
		return fmt.Errorf("time series: %d time points but %d concentration rows",
			len(ts.Time), len(ts.Concentration))
	}
	for i := 1; i < len(ts.Time); i++ {
		if ts.Time[i] <= ts.Time[i-1] {
			return fmt.Errorf("time series: time grid not increasing at index %d", i)
		}
	}
	return nil
}

// SolutionKey addresses one recorded series of a simulation result.
type SolutionKey struct {
	Unit string
	Port Port
}

// SimulationResult holds the solution arrays a simulation engine returned,
// keyed by unit name and port. Results are owned by the caller once the
// engine returns and are treated as read-only.
type SimulationResult struct {
	process string
	series  map[SolutionKey]*TimeSeries
}

// NewSimulationResult creates an empty result for the named process.
// Engines populate it via AddSeries before handing it to the caller.
func NewSimulationResult(process string) *SimulationResult {
	return &SimulationResult{
		process: process,
		series:  make(map[SolutionKey]*TimeSeries),
	}
}

// Process returns the name of the process the result was computed for.
func (r *SimulationResult) Process() string { return r.process }

// AddSeries records the solution series for one unit port. It rejects
// malformed series and duplicate keys.
func (r *SimulationResult) AddSeries(unit string, port Port, ts *TimeSeries) error {
	if ts == nil {
		return fmt.Errorf("simulation result: nil series for %s/%s", unit, port)
	}
	if err := ts.Validate(); err != nil {
		return fmt.Errorf("simulation result: %s/%s: %w", unit, port, err)
	}
	key := SolutionKey{Unit: unit, Port: port}
	if _, exists := r.series[key]; exists {
		return fmt.Errorf("simulation result: series for %s/%s already recorded", unit, port)
	}
	r.series[key] = ts
	return nil
}

// Series returns the recorded series for a unit port and whether it exists.
func (r *SimulationResult) Series(unit string, port Port) (*TimeSeries, bool) {
	ts, ok := r.series[SolutionKey{Unit: unit, Port: port}]
	return ts, ok
}

// Keys returns every recorded solution key in unspecified order.
func (r *SimulationResult) Keys() []SolutionKey {
	keys := make([]SolutionKey, 0, len(r.series))
	for k := range r.series {
		keys = append(keys, k)
	}
	return keys
}
