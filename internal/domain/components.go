// Package domain contains the core process model for liquid chromatography
// configuration: component systems, binding models, flow sheets, processes,
// scheduled events, and simulation results.
// The package holds no transport physics; solving the resulting model is the
// job of an external simulation engine reached through the ports layer.
package domain

import (
	"fmt"
)

// Species identifies one chemical component tracked by a simulation.
type Species struct {
	// Name is the unique identifier of the species within its system.
	Name string
}

// ComponentSystem is the ordered set of chemical species a process model
// tracks. The order is significant: every per-species parameter array in the
// model is indexed by component position.
//
// The species count is fixed at construction. All per-species arrays held by
// binding models and unit operations must have exactly NComp entries, which
// CheckLength enforces.
type ComponentSystem struct {
	species []Species
	index   map[string]int
}

// NewComponentSystem creates a component system with the given species names
// in order. Names must be non-empty and unique.
func NewComponentSystem(names ...string) (*ComponentSystem, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("component system: %w", ErrNoComponents)
	}

	cs := &ComponentSystem{
		species: make([]Species, 0, len(names)),
		index:   make(map[string]int, len(names)),
	}
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("component system: component %d: %w", i, ErrEmptyName)
		}
		if _, exists := cs.index[name]; exists {
			return nil, fmt.Errorf("component system: duplicate component %q", name)
		}
		cs.species = append(cs.species, Species{Name: name})
		cs.index[name] = i
	}
	return cs, nil
}

// NComp returns the number of species in the system.
func (cs *ComponentSystem) NComp() int { return len(cs.species) }

// Names returns the species names in component order.
// The returned slice is a copy and safe to modify.
func (cs *ComponentSystem) Names() []string {
	names := make([]string, len(cs.species))
	for i, s := range cs.species {
		names[i] = s.Name
	}
	return names
}

// Index returns the component position of the named species and whether
// the species exists in the system.
func (cs *ComponentSystem) Index(name string) (int, bool) {
	i, ok := cs.index[name]
	return i, ok
}

// CheckLength verifies that a per-species parameter array has exactly NComp
// entries. The field name is included in the returned error for diagnostics.
func (cs *ComponentSystem) CheckLength(field string, values []float64) error {
	if len(values) != cs.NComp() {
		return fmt.Errorf("%s: got %d values for %d components: %w",
			field, len(values), cs.NComp(), ErrComponentMismatch)
	}
	return nil
}
