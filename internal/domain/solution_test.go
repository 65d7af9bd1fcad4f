package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSeries_Validate(t *testing.T) {
	tests := []struct {
		name    string
		series  TimeSeries
		wantErr string
	}{
		{
			name: "valid series",
			series: TimeSeries{
				Time:          []float64{0, 1, 2},
				Concentration: [][]float64{{0}, {0.5}, {1}},
			},
		},
		{
			name: "row count mismatch",
			series: TimeSeries{
				Time:          []float64{0, 1, 2},
				Concentration: [][]float64{{0}, {0.5}},
			},
			wantErr: "concentration rows",
		},
		{
			name: "non increasing grid",
			series: TimeSeries{
				Time:          []float64{0, 2, 2},
				Concentration: [][]float64{{0}, {0.5}, {1}},
			},
			wantErr: "not increasing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.series.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestTimeSeries_Component(t *testing.T) {
	ts := &TimeSeries{
		Time:          []float64{0, 1},
		Concentration: [][]float64{{1, 10}, {2, 20}},
	}

	c0, err := ts.Component(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, c0)

	c1, err := ts.Component(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20}, c1)

	_, err = ts.Component(2)
	assert.ErrorContains(t, err, "out of range")

	// The extracted slice is a copy.
	c0[0] = 99
	assert.Equal(t, 1.0, ts.Concentration[0][0])
}

func TestSimulationResult_AddSeries(t *testing.T) {
	result := NewSimulationResult("pulse")
	assert.Equal(t, "pulse", result.Process())

	ts := &TimeSeries{Time: []float64{0, 1}, Concentration: [][]float64{{0}, {1}}}
	require.NoError(t, result.AddSeries("outlet", PortOutlet, ts))

	t.Run("rejects duplicate key", func(t *testing.T) {
		err := result.AddSeries("outlet", PortOutlet, ts)
		assert.ErrorContains(t, err, "already recorded")
	})

	t.Run("same unit different port is distinct", func(t *testing.T) {
		assert.NoError(t, result.AddSeries("outlet", PortInlet, ts))
	})

	t.Run("rejects nil and malformed series", func(t *testing.T) {
		assert.Error(t, result.AddSeries("column", PortOutlet, nil))
		bad := &TimeSeries{Time: []float64{0}, Concentration: nil}
		assert.Error(t, result.AddSeries("column", PortOutlet, bad))
	})

	got, ok := result.Series("outlet", PortOutlet)
	require.True(t, ok)
	assert.Same(t, ts, got)

	_, ok = result.Series("ghost", PortOutlet)
	assert.False(t, ok)

	assert.Len(t, result.Keys(), 2)
}
