package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test doubles standing in for the infrastructure unit operations so the
// flow sheet and process tests stay free of upward imports.

// stubUnit is a minimal unit with no flow rate of its own.
type stubUnit struct {
	name   string
	system *ComponentSystem
	broken bool
}

func (s *stubUnit) Name() string             { return s.name }
func (s *stubUnit) System() *ComponentSystem { return s.system }
func (s *stubUnit) Validate() error {
	if s.broken {
		return fmt.Errorf("unit %s is misconfigured", s.name)
	}
	return nil
}
func (s *stubUnit) Clone() UnitOperation {
	dup := *s
	return &dup
}

// stubSource is a source unit imposing a flow rate, with a mutable
// concentration event parameter.
type stubSource struct {
	stubUnit
	flowRate      float64
	concentration []float64
}

func (s *stubSource) FlowRate() float64 { return s.flowRate }

func (s *stubSource) ValidateEventValue(p UnitParameter, value []float64) error {
	if p != ParamInletConcentration {
		return fmt.Errorf("source %s: parameter %s: %w", s.name, p, ErrInvalidParameter)
	}
	return s.system.CheckLength("event value", value)
}

func (s *stubSource) Clone() UnitOperation {
	dup := *s
	dup.concentration = append([]float64(nil), s.concentration...)
	return &dup
}

var (
	_ FlowRater       = (*stubSource)(nil)
	_ EventTargetable = (*stubSource)(nil)
)

func chainFlowSheet(t *testing.T) (*FlowSheet, *ComponentSystem) {
	t.Helper()
	system := newTestSystem(t, "A")
	fs, err := NewFlowSheet(system)
	require.NoError(t, err)

	source := &stubSource{
		stubUnit:      stubUnit{name: "feed", system: system},
		flowRate:      2e-8,
		concentration: []float64{0},
	}
	require.NoError(t, fs.AddUnit(source))
	require.NoError(t, fs.AddUnit(&stubUnit{name: "bed", system: system}))
	require.NoError(t, fs.AddUnit(&stubUnit{name: "drain", system: system}))
	require.NoError(t, fs.AddConnection("feed", "bed"))
	require.NoError(t, fs.AddConnection("bed", "drain"))
	return fs, system
}

func TestFlowSheet_AddUnit(t *testing.T) {
	system := newTestSystem(t, "A")
	other := newTestSystem(t, "A")
	fs, err := NewFlowSheet(system)
	require.NoError(t, err)

	require.NoError(t, fs.AddUnit(&stubUnit{name: "bed", system: system}))

	err = fs.AddUnit(&stubUnit{name: "bed", system: system})
	assert.ErrorContains(t, err, "already exists")

	err = fs.AddUnit(&stubUnit{name: "bed2", system: other})
	assert.ErrorContains(t, err, "different component system")

	err = fs.AddUnit(&stubUnit{name: "", system: system})
	assert.ErrorIs(t, err, ErrEmptyName)

	err = fs.AddUnit(nil)
	assert.Error(t, err)
}

// TestFlowSheet_AddConnection covers the topology guards: unknown units,
// self-loops, duplicate edges, and edges that close a cycle.
func TestFlowSheet_AddConnection(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		wantErr  error
	}{
		{name: "unknown source", from: "ghost", to: "bed", wantErr: ErrUnknownUnit},
		{name: "unknown target", from: "feed", to: "ghost", wantErr: ErrUnknownUnit},
		{name: "self loop", from: "bed", to: "bed", wantErr: ErrInvalidTopology},
		{name: "duplicate edge", from: "feed", to: "bed"},
		{name: "closing edge of a cycle", from: "drain", to: "feed", wantErr: ErrInvalidTopology},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, _ := chainFlowSheet(t)
			before := len(fs.Connections())

			err := fs.AddConnection(tt.from, tt.to)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Len(t, fs.Connections(), before, "rejected connection must be rolled back")
		})
	}
}

func TestFlowSheet_UpstreamDownstream(t *testing.T) {
	fs, _ := chainFlowSheet(t)

	assert.Empty(t, fs.UpstreamOf("feed"))
	assert.Equal(t, []string{"feed"}, fs.UpstreamOf("bed"))
	assert.Equal(t, []string{"drain"}, fs.DownstreamOf("bed"))
	assert.Empty(t, fs.DownstreamOf("drain"))
}

func TestFlowSheet_Validate(t *testing.T) {
	t.Run("valid chain passes", func(t *testing.T) {
		fs, _ := chainFlowSheet(t)
		assert.NoError(t, fs.Validate())
	})

	t.Run("empty sheet fails", func(t *testing.T) {
		fs, err := NewFlowSheet(newTestSystem(t, "A"))
		require.NoError(t, err)
		assert.ErrorContains(t, fs.Validate(), "no units")
	})

	t.Run("source with upstream feed fails", func(t *testing.T) {
		system := newTestSystem(t, "A")
		fs, err := NewFlowSheet(system)
		require.NoError(t, err)
		require.NoError(t, fs.AddUnit(&stubUnit{name: "bed", system: system}))
		require.NoError(t, fs.AddUnit(&stubSource{
			stubUnit: stubUnit{name: "feed", system: system},
			flowRate: 1,
		}))
		// bed feeds the source, which must be rejected: sources impose
		// their own flow and accept no upstream connection.
		require.NoError(t, fs.AddConnection("bed", "feed"))
		err = fs.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upstream connections")
	})

	t.Run("unit with two feeds fails", func(t *testing.T) {
		fs, system := chainFlowSheet(t)
		require.NoError(t, fs.AddUnit(&stubSource{
			stubUnit: stubUnit{name: "feed2", system: system},
			flowRate: 1,
		}))
		require.NoError(t, fs.AddConnection("feed2", "bed"))
		err := fs.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one upstream connection")
	})

	t.Run("aggregates unit validation failures", func(t *testing.T) {
		fs, system := chainFlowSheet(t)
		require.NoError(t, fs.AddUnit(&stubUnit{name: "broken", system: system, broken: true}))
		err := fs.Validate()
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, err.Error(), "misconfigured")
	})
}

func TestFlowSheet_ProductOutlet(t *testing.T) {
	fs, _ := chainFlowSheet(t)

	assert.Empty(t, fs.ProductOutlet())
	require.NoError(t, fs.SetProductOutlet("drain"))
	assert.Equal(t, "drain", fs.ProductOutlet())

	err := fs.SetProductOutlet("ghost")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestFlowSheet_CloneIsDeep(t *testing.T) {
	fs, _ := chainFlowSheet(t)
	require.NoError(t, fs.SetProductOutlet("drain"))

	dup := fs.Clone()

	orig, ok := fs.Unit("feed")
	require.True(t, ok)
	clone, ok := dup.Unit("feed")
	require.True(t, ok)
	assert.NotSame(t, orig, clone, "units must be cloned, not shared")

	clone.(*stubSource).flowRate = 99
	assert.Equal(t, 2e-8, orig.(*stubSource).flowRate)

	require.NoError(t, dup.AddUnit(&stubUnit{name: "extra", system: dup.System()}))
	_, ok = fs.Unit("extra")
	assert.False(t, ok, "adding to the clone must not touch the original")

	assert.Equal(t, fs.Connections(), dup.Connections())
	assert.Equal(t, "drain", dup.ProductOutlet())
}
