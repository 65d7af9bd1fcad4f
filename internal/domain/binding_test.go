package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSystem(t *testing.T, names ...string) *ComponentSystem {
	t.Helper()
	cs, err := NewComponentSystem(names...)
	require.NoError(t, err)
	return cs
}

// TestLinearBinding_Validate checks the per-species rate array invariants:
// one entry per component and no negative rate constants.
func TestLinearBinding_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ka, kd  []float64
		wantErr string
	}{
		{
			name: "valid two component model",
			ka:   []float64{2.5, 1.0},
			kd:   []float64{1.0, 0.5},
		},
		{
			name:    "adsorption rate too short",
			ka:      []float64{2.5},
			kd:      []float64{1.0, 0.5},
			wantErr: "adsorption_rate",
		},
		{
			name:    "desorption rate too long",
			ka:      []float64{2.5, 1.0},
			kd:      []float64{1.0, 0.5, 0.1},
			wantErr: "desorption_rate",
		},
		{
			name:    "negative adsorption rate",
			ka:      []float64{-2.5, 1.0},
			kd:      []float64{1.0, 0.5},
			wantErr: "adsorption_rate[0] is negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system := newTestSystem(t, "A", "B")
			binding, err := NewLinearBinding(system, "linear")
			require.NoError(t, err)
			binding.AdsorptionRate = tt.ka
			binding.DesorptionRate = tt.kd

			err = binding.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLinearBinding_RequiresSystemAndName(t *testing.T) {
	system := newTestSystem(t, "A")

	_, err := NewLinearBinding(nil, "linear")
	assert.Error(t, err)

	_, err = NewLinearBinding(system, "")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestLinearBinding_EquilibriumConstants(t *testing.T) {
	system := newTestSystem(t, "A", "B")
	binding, err := NewLinearBinding(system, "linear")
	require.NoError(t, err)
	binding.AdsorptionRate = []float64{2.5, 3.0}
	binding.DesorptionRate = []float64{1.0, 2.0}
	require.NoError(t, binding.Validate())

	assert.Equal(t, []float64{2.5, 1.5}, binding.EquilibriumConstants())
	assert.Equal(t, 2, binding.NBoundStates(), "linear model binds one site per species")
}

func TestLinearBinding_CloneIsIndependent(t *testing.T) {
	system := newTestSystem(t, "A")
	binding, err := NewLinearBinding(system, "linear")
	require.NoError(t, err)
	binding.AdsorptionRate = []float64{2.5}
	binding.DesorptionRate = []float64{1.0}

	dup := binding.Clone()
	dup.AdsorptionRate[0] = 99

	assert.Equal(t, 2.5, binding.AdsorptionRate[0], "clone mutation must not reach the original")
	assert.Same(t, system, dup.System(), "clones share the immutable component system")
}
