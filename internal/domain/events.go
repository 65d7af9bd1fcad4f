package domain

import "fmt"

// UnitParameter enumerates the mutable unit parameters a scheduled event may
// target. Using a closed set of typed targets (instead of attribute path
// strings resolved at simulation time) means a bad target is rejected when
// the event is registered.
type UnitParameter string

// Mutable parameters recognized by the stock unit operations.
const (
	// ParamInletConcentration targets an inlet's per-species feed
	// concentration [mM]. The event value must have one entry per
	// component.
	ParamInletConcentration UnitParameter = "inlet_concentration"

	// ParamInletFlowRate targets an inlet's volumetric flow rate [m³/s].
	// The event value must be a single positive scalar.
	ParamInletFlowRate UnitParameter = "inlet_flow_rate"

	// ParamColumnAxialDispersion targets a column's axial dispersion
	// coefficient [m²/s]. The event value must be a single positive scalar.
	ParamColumnAxialDispersion UnitParameter = "column_axial_dispersion"
)

// EventTarget addresses a mutable parameter of a named unit in a flow sheet.
type EventTarget struct {
	// Unit is the name of the unit whose parameter the event overwrites.
	Unit string

	// Parameter selects which of the unit's mutable parameters to set.
	Parameter UnitParameter
}

func (t EventTarget) String() string {
	return fmt.Sprintf("%s.%s", t.Unit, t.Parameter)
}

// Event is a scheduled parameter mutation applied by the simulation engine
// at a fixed time within the process cycle. Events are value objects; the
// engine applies them in increasing time order.
type Event struct {
	// Name identifies the event in diagnostics and must be unique within
	// its process.
	Name string

	// Target addresses the parameter to overwrite.
	Target EventTarget

	// Value is the new parameter value. Its required shape depends on the
	// target parameter and is validated when the event is registered.
	Value []float64

	// Time is the moment within the cycle [s] at which the engine applies
	// the event. Zero means the start of the cycle.
	Time float64
}

// clone returns a deep copy of the event.
func (e Event) clone() Event {
	e.Value = append([]float64(nil), e.Value...)
	return e
}
