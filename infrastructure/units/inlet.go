package units

import (
	"fmt"

	"github.com/chromaflow/chromaflow/internal/domain"
)

var (
	_ domain.FlowRater       = (*Inlet)(nil)
	_ domain.EventTargetable = (*Inlet)(nil)
)

// Inlet is the source boundary condition of a flow sheet. It imposes a
// volumetric flow rate on its downstream connection and declares the feed
// concentration the cycle starts with; scheduled events overwrite the
// concentration (and, less commonly, the flow rate) during the cycle.
type Inlet struct {
	name   string
	system *domain.ComponentSystem
	config InletConfig
}

// InletConfig holds the physical parameters of an inlet.
type InletConfig struct {
	// FlowRate is the volumetric flow rate [m³/s] the inlet imposes.
	FlowRate float64 `yaml:"flow_rate" validate:"gt=0"`

	// Concentration is the per-species feed concentration [mM] at the
	// start of the cycle. Length must equal the component count.
	Concentration []float64 `yaml:"concentration" validate:"required,dive,gte=0"`
}

// NewInlet creates an inlet over the given component system.
func NewInlet(name string, system *domain.ComponentSystem, config InletConfig) (*Inlet, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}
	if system == nil {
		return nil, ErrNilComponentSystem
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("inlet %s: configuration validation failed: %w", name, err)
	}
	if err := system.CheckLength("concentration", config.Concentration); err != nil {
		return nil, fmt.Errorf("inlet %s: %w", name, err)
	}

	config.Concentration = append([]float64(nil), config.Concentration...)
	return &Inlet{name: name, system: system, config: config}, nil
}

// Name returns the unique identifier of the inlet.
func (in *Inlet) Name() string { return in.name }

// System returns the component system sizing the inlet's arrays.
func (in *Inlet) System() *domain.ComponentSystem { return in.system }

// FlowRate returns the volumetric flow rate [m³/s].
func (in *Inlet) FlowRate() float64 { return in.config.FlowRate }

// Concentration returns a copy of the per-species feed concentration [mM].
func (in *Inlet) Concentration() []float64 {
	return append([]float64(nil), in.config.Concentration...)
}

// Validate re-checks the inlet configuration against its component system.
func (in *Inlet) Validate() error {
	if err := validate.Struct(in.config); err != nil {
		return fmt.Errorf("inlet %s: %w", in.name, err)
	}
	if err := in.system.CheckLength("concentration", in.config.Concentration); err != nil {
		return fmt.Errorf("inlet %s: %w", in.name, err)
	}
	return nil
}

// ValidateEventValue accepts concentration events sized to the component
// count and scalar positive flow rate events.
func (in *Inlet) ValidateEventValue(p domain.UnitParameter, value []float64) error {
	switch p {
	case domain.ParamInletConcentration:
		if err := in.system.CheckLength("event value", value); err != nil {
			return fmt.Errorf("inlet %s: %w", in.name, err)
		}
		for i, c := range value {
			if c < 0 {
				return fmt.Errorf("inlet %s: event value[%d] is negative: %w",
					in.name, i, domain.ErrInvalidParameter)
			}
		}
		return nil
	case domain.ParamInletFlowRate:
		if len(value) != 1 || value[0] <= 0 {
			return fmt.Errorf("inlet %s: flow rate event requires one positive value: %w",
				in.name, domain.ErrInvalidParameter)
		}
		return nil
	default:
		return fmt.Errorf("inlet %s: parameter %s: %w", in.name, p, domain.ErrInvalidParameter)
	}
}

// Clone returns a deep copy of the inlet.
func (in *Inlet) Clone() domain.UnitOperation {
	cfg := in.config
	cfg.Concentration = append([]float64(nil), in.config.Concentration...)
	return &Inlet{name: in.name, system: in.system, config: cfg}
}
