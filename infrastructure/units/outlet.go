package units

import (
	"github.com/chromaflow/chromaflow/internal/domain"
)

var _ domain.UnitOperation = (*Outlet)(nil)

// Outlet is the sink boundary of a flow sheet. It carries no parameters of
// its own; the simulation engine records the concentration history arriving
// at it, which is where elution curves are read from.
type Outlet struct {
	name   string
	system *domain.ComponentSystem
}

// NewOutlet creates an outlet over the given component system.
func NewOutlet(name string, system *domain.ComponentSystem) (*Outlet, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}
	if system == nil {
		return nil, ErrNilComponentSystem
	}
	return &Outlet{name: name, system: system}, nil
}

// Name returns the unique identifier of the outlet.
func (o *Outlet) Name() string { return o.name }

// System returns the component system of the outlet.
func (o *Outlet) System() *domain.ComponentSystem { return o.system }

// Validate always passes; an outlet has nothing to misconfigure.
func (o *Outlet) Validate() error { return nil }

// Clone returns a copy of the outlet.
func (o *Outlet) Clone() domain.UnitOperation {
	return &Outlet{name: o.name, system: o.system}
}
