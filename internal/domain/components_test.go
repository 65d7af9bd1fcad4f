package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewComponentSystem verifies species registration, ordering, and the
// rejection of empty and duplicate names.
func TestNewComponentSystem(t *testing.T) {
	tests := []struct {
		name      string
		species   []string
		wantErr   error
		wantNames []string
	}{
		{
			name:      "single component",
			species:   []string{"A"},
			wantNames: []string{"A"},
		},
		{
			name:      "preserves declaration order",
			species:   []string{"salt", "protein", "impurity"},
			wantNames: []string{"salt", "protein", "impurity"},
		},
		{
			name:    "rejects empty species list",
			species: nil,
			wantErr: ErrNoComponents,
		},
		{
			name:    "rejects empty name",
			species: []string{"A", ""},
			wantErr: ErrEmptyName,
		},
		{
			name:    "rejects duplicate name",
			species: []string{"A", "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := NewComponentSystem(tt.species...)
			if tt.wantNames == nil {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.wantNames), cs.NComp())
			assert.Equal(t, tt.wantNames, cs.Names())
		})
	}
}

func TestComponentSystem_Index(t *testing.T) {
	cs, err := NewComponentSystem("salt", "protein")
	require.NoError(t, err)

	i, ok := cs.Index("protein")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = cs.Index("sugar")
	assert.False(t, ok, "unknown species should not resolve")
}

func TestComponentSystem_CheckLength(t *testing.T) {
	cs, err := NewComponentSystem("A", "B")
	require.NoError(t, err)

	assert.NoError(t, cs.CheckLength("film_diffusion", []float64{1, 2}))

	err = cs.CheckLength("film_diffusion", []float64{1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrComponentMismatch)
	assert.Contains(t, err.Error(), "film_diffusion", "field name should appear in the error")
}

func TestComponentSystem_NamesIsACopy(t *testing.T) {
	cs, err := NewComponentSystem("A", "B")
	require.NoError(t, err)

	names := cs.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"A", "B"}, cs.Names(), "mutating the returned slice must not affect the system")
}
