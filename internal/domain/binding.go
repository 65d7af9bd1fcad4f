package domain

import "fmt"

// LinearBinding describes linear adsorption/desorption kinetics for every
// species of a component system: dq/dt = k_a*c - k_d*q per component.
// With IsKinetic set to false the kinetics are treated as instantaneous and
// the model reduces to the equilibrium isotherm q = (k_a/k_d)*c.
//
// The rate arrays are indexed by component position and must have exactly
// one entry per species, which Validate enforces.
type LinearBinding struct {
	system *ComponentSystem

	// Name identifies the binding model in diagnostics.
	Name string

	// IsKinetic selects kinetic (true) or instantaneous equilibrium (false)
	// treatment of the adsorption process.
	IsKinetic bool

	// AdsorptionRate holds k_a per component [m³_MP / (m³_SP · s)].
	AdsorptionRate []float64

	// DesorptionRate holds k_d per component [1 / s].
	DesorptionRate []float64
}

// NewLinearBinding creates a linear binding model for the given component
// system. Rate arrays start empty and must be populated before Validate
// passes.
func NewLinearBinding(system *ComponentSystem, name string) (*LinearBinding, error) {
	if system == nil {
		return nil, fmt.Errorf("linear binding: component system is required")
	}
	if name == "" {
		return nil, fmt.Errorf("linear binding: %w", ErrEmptyName)
	}
	return &LinearBinding{system: system, Name: name}, nil
}

// System returns the component system the binding model is defined over.
func (b *LinearBinding) System() *ComponentSystem { return b.system }

// NBoundStates returns the number of bound states the model tracks.
// The linear model binds each species to a single site, so this equals
// the component count.
func (b *LinearBinding) NBoundStates() int { return b.system.NComp() }

// EquilibriumConstants returns k_a/k_d per component. It requires a
// validated model; a zero desorption rate yields +Inf for that component.
func (b *LinearBinding) EquilibriumConstants() []float64 {
	keq := make([]float64, len(b.AdsorptionRate))
	for i := range b.AdsorptionRate {
		keq[i] = b.AdsorptionRate[i] / b.DesorptionRate[i]
	}
	return keq
}

// Validate checks the per-species rate arrays against the component system
// and rejects negative rate constants.
func (b *LinearBinding) Validate() error {
	verr := NewValidationError(b.Name)
	if err := b.system.CheckLength("adsorption_rate", b.AdsorptionRate); err != nil {
		verr.Addf("%v", err)
	}
	if err := b.system.CheckLength("desorption_rate", b.DesorptionRate); err != nil {
		verr.Addf("%v", err)
	}
	for i, ka := range b.AdsorptionRate {
		if ka < 0 {
			verr.Addf("adsorption_rate[%d] is negative: %g", i, ka)
		}
	}
	for i, kd := range b.DesorptionRate {
		if kd < 0 {
			verr.Addf("desorption_rate[%d] is negative: %g", i, kd)
		}
	}
	return verr.ErrOrNil()
}

// Clone returns a deep copy of the binding model sharing the (immutable)
// component system.
func (b *LinearBinding) Clone() *LinearBinding {
	dup := &LinearBinding{
		system:         b.system,
		Name:           b.Name,
		IsKinetic:      b.IsKinetic,
		AdsorptionRate: append([]float64(nil), b.AdsorptionRate...),
		DesorptionRate: append([]float64(nil), b.DesorptionRate...),
	}
	return dup
}
