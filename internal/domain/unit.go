package domain

// UnitOperation is the building block of a flow sheet: a named process unit
// defined over a component system. Concrete units (inlet, column, outlet)
// live in the infrastructure layer; the domain only relies on this interface
// and the capability interfaces below.
type UnitOperation interface {
	// Name returns the unique identifier of the unit within a flow sheet.
	Name() string

	// System returns the component system that sizes the unit's
	// per-species parameter arrays.
	System() *ComponentSystem

	// Validate checks the unit's configuration, including all per-species
	// array lengths against the component system.
	Validate() error

	// Clone returns a deep copy of the unit. Clones allow a sweep driver
	// to vary a parameter per sweep point without mutating shared state.
	Clone() UnitOperation
}

// FlowRater is implemented by units that impose a volumetric flow rate on
// their downstream connection. In a chain flow sheet these are the sources.
type FlowRater interface {
	UnitOperation

	// FlowRate returns the volumetric flow rate [m³/s].
	FlowRate() float64
}

// BindingCarrier is implemented by units that hold an adsorption model.
type BindingCarrier interface {
	UnitOperation

	// BindingModel returns the attached binding model, or nil when the
	// unit is unbound.
	BindingModel() *LinearBinding
}

// TransportModeler is implemented by units with axial transport parameters,
// i.e. the column. It exposes the quantities the Peclet relation needs and
// the single mutable knob a dispersion sweep varies.
type TransportModeler interface {
	UnitOperation

	// Length returns the axial length of the unit [m].
	Length() float64

	// InterstitialArea returns the interstitial cross-section area [m²],
	// the product of the cross-section area and the bed porosity.
	InterstitialArea() float64

	// InterstitialVelocity returns the fluid velocity in the void space
	// between packed particles [m/s] for the given volumetric flow rate.
	InterstitialVelocity(flowRate float64) float64

	// AxialDispersion returns the axial dispersion coefficient [m²/s].
	AxialDispersion() float64

	// SetAxialDispersion replaces the axial dispersion coefficient.
	// It rejects non-positive values.
	SetAxialDispersion(d float64) error
}

// EventTargetable is implemented by units exposing parameters that scheduled
// events may overwrite during a simulation. The unit itself decides which
// parameters it accepts and what a well-formed value looks like, so event
// targets are resolved when the event is registered rather than by parsing
// attribute paths at simulation time.
type EventTargetable interface {
	UnitOperation

	// ValidateEventValue checks that the parameter is mutable on this unit
	// and that the value vector is well formed for it.
	ValidateEventValue(p UnitParameter, value []float64) error
}
