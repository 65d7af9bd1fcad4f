// Package application assembles validated process models from configuration
// or literal physical constants and drives parameter sweeps against a
// simulation engine. It sits between the domain model and the
// infrastructure adapters.
package application

import (
	"gopkg.in/yaml.v3"
)

// ProcessConfig is the YAML specification of a complete chromatography
// process: the tracked species, the binding model, the unit operations and
// their connections, the cycle duration, the scheduled events, and an
// optional Peclet sweep.
type ProcessConfig struct {
	// Name identifies the process in results and diagnostics.
	Name string `yaml:"name" validate:"required,min=1,max=255"`

	// Components lists the tracked species in component order. Every
	// per-species array in the configuration must match its length.
	Components []string `yaml:"components" validate:"required,min=1,dive,min=1"`

	// Binding configures the linear adsorption model attached to the column.
	Binding BindingConfig `yaml:"binding" validate:"required"`

	// Units defines the unit operations of the flow sheet.
	Units []UnitConfig `yaml:"units" validate:"required,min=2,dive"`

	// Connections wires the units into a chain.
	Connections []ConnectionConfig `yaml:"connections" validate:"required,min=1,dive"`

	// CycleTime is the total simulated duration [s].
	CycleTime float64 `yaml:"cycle_time" validate:"gt=0"`

	// Events schedules parameter mutations within the cycle.
	Events []EventConfig `yaml:"events" validate:"dive"`

	// Sweep optionally configures a Peclet number sweep over a column.
	Sweep *SweepConfig `yaml:"sweep,omitempty"`
}

// BindingConfig specifies the linear binding model.
type BindingConfig struct {
	// Name identifies the binding model in diagnostics.
	Name string `yaml:"name" validate:"required"`

	// IsKinetic selects kinetic (true) or instantaneous equilibrium
	// (false) treatment of the adsorption process.
	IsKinetic bool `yaml:"is_kinetic"`

	// AdsorptionRate holds k_a per component.
	AdsorptionRate []float64 `yaml:"adsorption_rate" validate:"required,dive,gte=0"`

	// DesorptionRate holds k_d per component.
	DesorptionRate []float64 `yaml:"desorption_rate" validate:"required,dive,gte=0"`
}

// UnitConfig specifies one unit operation of the flow sheet.
type UnitConfig struct {
	// Name is the unique identifier of the unit within the flow sheet.
	Name string `yaml:"name" validate:"required,min=1,max=100"`

	// Type selects the unit operation implementation.
	Type string `yaml:"type" validate:"required,oneof=inlet column outlet"`

	// ProductOutlet marks this unit as the product measurement point.
	// Only meaningful on outlet units.
	ProductOutlet bool `yaml:"product_outlet"`

	// Parameters contains type-specific physical constants as flexible
	// YAML, decoded against the unit type's configuration struct.
	Parameters yaml.Node `yaml:"parameters"`
}

// ConnectionConfig wires one directed connection between two units.
type ConnectionConfig struct {
	From string `yaml:"from" validate:"required"`
	To   string `yaml:"to" validate:"required"`
}

// EventConfig schedules one parameter mutation.
type EventConfig struct {
	// Name identifies the event and must be unique within the process.
	Name string `yaml:"name" validate:"required"`

	// Unit names the unit whose parameter the event overwrites.
	Unit string `yaml:"unit" validate:"required"`

	// Parameter selects the mutable parameter on the unit.
	Parameter string `yaml:"parameter" validate:"required,oneof=inlet_concentration inlet_flow_rate column_axial_dispersion"`

	// Value is the new parameter value; its shape depends on the parameter.
	Value []float64 `yaml:"value" validate:"required,min=1"`

	// Time is the moment within the cycle [s] the event fires. Omitted
	// means the start of the cycle.
	Time float64 `yaml:"time" validate:"gte=0"`
}

// SweepConfig configures a Peclet number sweep over one column.
type SweepConfig struct {
	// Column names the column whose axial dispersion the sweep varies.
	Column string `yaml:"column" validate:"required"`

	// PecletNumbers lists the target Peclet values in sweep order.
	PecletNumbers []float64 `yaml:"peclet_numbers" validate:"required,min=1,dive,gt=0"`
}
