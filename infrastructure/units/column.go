package units

import (
	"fmt"

	"github.com/chromaflow/chromaflow/internal/domain"
)

var (
	_ domain.TransportModeler = (*Column)(nil)
	_ domain.BindingCarrier   = (*Column)(nil)
	_ domain.EventTargetable  = (*Column)(nil)
)

// Column is the transport unit of the flow sheet, parameterized for the
// general rate model: bulk convection and axial dispersion, film diffusion
// into the particle pores, pore and surface diffusion inside the particle,
// and an adsorption model at the solid surface. The column itself does no
// transport math; it carries the constants the simulation engine solves with.
//
// Per-species arrays are indexed by component order. Film and pore diffusion
// have one entry per component; surface diffusion has one entry per bound
// state of the attached binding model.
type Column struct {
	name    string
	system  *domain.ComponentSystem
	binding *domain.LinearBinding
	config  ColumnConfig
}

// ColumnConfig holds the physical constants of a general rate model column.
// Lengths are in meters, times in seconds, concentrations in mM.
type ColumnConfig struct {
	// Length is the packed bed length L [m].
	Length float64 `yaml:"length" validate:"gt=0"`

	// CrossSectionArea is the column cross-section area A [m²].
	CrossSectionArea float64 `yaml:"cross_section_area" validate:"gt=0"`

	// BedPorosity is the interstitial void fraction ε_c [-].
	BedPorosity float64 `yaml:"bed_porosity" validate:"gt=0,lt=1"`

	// ParticleRadius is the packing particle radius r_p [m].
	ParticleRadius float64 `yaml:"particle_radius" validate:"gt=0"`

	// ParticlePorosity is the intra-particle void fraction ε_p [-].
	ParticlePorosity float64 `yaml:"particle_porosity" validate:"gt=0,lt=1"`

	// AxialDispersion is the axial dispersion coefficient D_ax [m²/s].
	AxialDispersion float64 `yaml:"axial_dispersion" validate:"gt=0"`

	// FilmDiffusion holds k_f per component [m/s].
	FilmDiffusion []float64 `yaml:"film_diffusion" validate:"required,dive,gte=0"`

	// PoreDiffusion holds D_p per component [m²/s].
	PoreDiffusion []float64 `yaml:"pore_diffusion" validate:"required,dive,gte=0"`

	// SurfaceDiffusion holds D_s per bound state [m²/s].
	SurfaceDiffusion []float64 `yaml:"surface_diffusion" validate:"dive,gte=0"`

	// InitialBulkC is the initial bulk-phase concentration c per
	// component [mM].
	InitialBulkC []float64 `yaml:"initial_c" validate:"required,dive,gte=0"`

	// InitialSolidQ is the initial solid-phase concentration q per
	// component [mM].
	InitialSolidQ []float64 `yaml:"initial_q" validate:"required,dive,gte=0"`
}

// NewColumn creates a general rate model column over the given component
// system. The binding model is attached separately with SetBindingModel,
// after which Validate also checks the surface diffusion array against the
// binding model's bound state count.
func NewColumn(name string, system *domain.ComponentSystem, config ColumnConfig) (*Column, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}
	if system == nil {
		return nil, ErrNilComponentSystem
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("column %s: configuration validation failed: %w", name, err)
	}

	col := &Column{name: name, system: system, config: cloneColumnConfig(config)}
	if err := col.checkArrayLengths(); err != nil {
		return nil, err
	}
	return col, nil
}

func cloneColumnConfig(c ColumnConfig) ColumnConfig {
	c.FilmDiffusion = append([]float64(nil), c.FilmDiffusion...)
	c.PoreDiffusion = append([]float64(nil), c.PoreDiffusion...)
	c.SurfaceDiffusion = append([]float64(nil), c.SurfaceDiffusion...)
	c.InitialBulkC = append([]float64(nil), c.InitialBulkC...)
	c.InitialSolidQ = append([]float64(nil), c.InitialSolidQ...)
	return c
}

func (c *Column) checkArrayLengths() error {
	for field, arr := range map[string][]float64{
		"film_diffusion": c.config.FilmDiffusion,
		"pore_diffusion": c.config.PoreDiffusion,
		"initial_c":      c.config.InitialBulkC,
		"initial_q":      c.config.InitialSolidQ,
	} {
		if err := c.system.CheckLength(field, arr); err != nil {
			return fmt.Errorf("column %s: %w", c.name, err)
		}
	}
	if c.binding != nil {
		if got, want := len(c.config.SurfaceDiffusion), c.binding.NBoundStates(); got != want {
			return fmt.Errorf("column %s: surface_diffusion: got %d values for %d bound states: %w",
				c.name, got, want, domain.ErrComponentMismatch)
		}
	}
	return nil
}

// Name returns the unique identifier of the column.
func (c *Column) Name() string { return c.name }

// System returns the component system sizing the column's arrays.
func (c *Column) System() *domain.ComponentSystem { return c.system }

// SetBindingModel attaches the adsorption model. The binding model must be
// defined over the column's component system.
func (c *Column) SetBindingModel(b *domain.LinearBinding) error {
	if b == nil {
		return fmt.Errorf("column %s: binding model is nil", c.name)
	}
	if b.System() != c.system {
		return fmt.Errorf("column %s: binding model %q uses a different component system", c.name, b.Name)
	}
	c.binding = b
	return nil
}

// BindingModel returns the attached binding model, or nil when unbound.
func (c *Column) BindingModel() *domain.LinearBinding { return c.binding }

// Length returns the packed bed length [m].
func (c *Column) Length() float64 { return c.config.Length }

// CrossSectionArea returns the column cross-section area [m²].
func (c *Column) CrossSectionArea() float64 { return c.config.CrossSectionArea }

// BedPorosity returns the interstitial void fraction [-].
func (c *Column) BedPorosity() float64 { return c.config.BedPorosity }

// ParticleRadius returns the packing particle radius [m].
func (c *Column) ParticleRadius() float64 { return c.config.ParticleRadius }

// ParticlePorosity returns the intra-particle void fraction [-].
func (c *Column) ParticlePorosity() float64 { return c.config.ParticlePorosity }

// FilmDiffusion returns a copy of k_f per component [m/s].
func (c *Column) FilmDiffusion() []float64 {
	return append([]float64(nil), c.config.FilmDiffusion...)
}

// PoreDiffusion returns a copy of D_p per component [m²/s].
func (c *Column) PoreDiffusion() []float64 {
	return append([]float64(nil), c.config.PoreDiffusion...)
}

// SurfaceDiffusion returns a copy of D_s per bound state [m²/s].
func (c *Column) SurfaceDiffusion() []float64 {
	return append([]float64(nil), c.config.SurfaceDiffusion...)
}

// InitialBulkC returns a copy of the initial bulk concentration per component.
func (c *Column) InitialBulkC() []float64 {
	return append([]float64(nil), c.config.InitialBulkC...)
}

// InitialSolidQ returns a copy of the initial solid concentration per component.
func (c *Column) InitialSolidQ() []float64 {
	return append([]float64(nil), c.config.InitialSolidQ...)
}

// InterstitialArea returns the interstitial cross-section area A·ε_c [m²],
// the area available to the mobile phase between packed particles.
func (c *Column) InterstitialArea() float64 {
	return c.config.CrossSectionArea * c.config.BedPorosity
}

// InterstitialVelocity returns the mobile-phase velocity u = Q / (A·ε_c)
// [m/s] for the given volumetric flow rate Q [m³/s].
func (c *Column) InterstitialVelocity(flowRate float64) float64 {
	return flowRate / c.InterstitialArea()
}

// AxialDispersion returns the axial dispersion coefficient D_ax [m²/s].
func (c *Column) AxialDispersion() float64 { return c.config.AxialDispersion }

// SetAxialDispersion replaces the axial dispersion coefficient [m²/s].
func (c *Column) SetAxialDispersion(d float64) error {
	if d <= 0 {
		return fmt.Errorf("column %s: axial dispersion must be positive, got %g", c.name, d)
	}
	c.config.AxialDispersion = d
	return nil
}

// Validate re-checks the configuration, the per-species array lengths, and
// the attached binding model. A column without a binding model is invalid:
// the general rate model requires an isotherm at the solid surface.
func (c *Column) Validate() error {
	if err := validate.Struct(c.config); err != nil {
		return fmt.Errorf("column %s: %w", c.name, err)
	}
	if err := c.checkArrayLengths(); err != nil {
		return err
	}
	if c.binding == nil {
		return fmt.Errorf("column %s: no binding model attached", c.name)
	}
	if err := c.binding.Validate(); err != nil {
		return fmt.Errorf("column %s: %w", c.name, err)
	}
	return nil
}

// ValidateEventValue accepts scalar positive axial dispersion events.
func (c *Column) ValidateEventValue(p domain.UnitParameter, value []float64) error {
	switch p {
	case domain.ParamColumnAxialDispersion:
		if len(value) != 1 || value[0] <= 0 {
			return fmt.Errorf("column %s: axial dispersion event requires one positive value: %w",
				c.name, domain.ErrInvalidParameter)
		}
		return nil
	default:
		return fmt.Errorf("column %s: parameter %s: %w", c.name, p, domain.ErrInvalidParameter)
	}
}

// Clone returns a deep copy of the column, including its binding model.
func (c *Column) Clone() domain.UnitOperation {
	dup := &Column{
		name:   c.name,
		system: c.system,
		config: cloneColumnConfig(c.config),
	}
	if c.binding != nil {
		dup.binding = c.binding.Clone()
	}
	return dup
}
