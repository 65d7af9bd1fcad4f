package testutils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chromaflow/chromaflow/internal/application"
	"github.com/chromaflow/chromaflow/internal/domain"
)

func TestMockEngine_FabricatesAllSeries(t *testing.T) {
	process, err := application.LinearGRMBenchmark()
	require.NoError(t, err)

	engine := &MockEngine{}
	result, err := engine.Simulate(context.Background(), process)
	require.NoError(t, err)

	assert.Equal(t, "pulse", result.Process())
	for _, unit := range []string{"inlet", "column", "outlet"} {
		series, ok := result.Series(unit, domain.PortOutlet)
		require.True(t, ok, "missing series for %s", unit)
		require.NoError(t, series.Validate())
		assert.Len(t, series.Time, defaultSamples+1)
		assert.Equal(t, 0.0, series.Time[0])
		assert.Equal(t, process.CycleTime(), series.Time[len(series.Time)-1])
	}

	assert.Equal(t, 1, engine.Calls())
	assert.Same(t, process, engine.LastProcess())
}

func TestMockEngine_InletReproducesThePulse(t *testing.T) {
	process, err := application.LinearGRMBenchmark()
	require.NoError(t, err)

	result, err := (&MockEngine{}).Simulate(context.Background(), process)
	require.NoError(t, err)

	series, ok := result.Series("inlet", domain.PortOutlet)
	require.True(t, ok)

	for i, tt := range series.Time {
		c := series.Concentration[i][0]
		if tt < 1200 {
			assert.Equal(t, 1.0, c, "inside the pulse at t=%g", tt)
		} else {
			assert.Equal(t, 0.0, c, "after the pulse at t=%g", tt)
		}
	}
}

func TestMockEngine_OutletCurveShape(t *testing.T) {
	process, err := application.LinearGRMBenchmark()
	require.NoError(t, err)

	result, err := (&MockEngine{NumSamples: 4000}).Simulate(context.Background(), process)
	require.NoError(t, err)

	series, ok := result.Series("outlet", domain.PortOutlet)
	require.True(t, ok)
	conc, err := series.Component(0)
	require.NoError(t, err)

	// The peak is delayed past the convective dead time and well within
	// the cycle; concentrations stay within the injected range.
	peakIdx := 0
	for i, c := range conc {
		require.GreaterOrEqual(t, c, 0.0)
		require.LessOrEqual(t, c, 1.0+1e-9)
		if c > conc[peakIdx] {
			peakIdx = i
		}
	}
	peakTime := series.Time[peakIdx]
	assert.Greater(t, peakTime, 340.0, "peak cannot precede the dead time L/u")
	assert.Less(t, peakTime, process.CycleTime())

	assert.InDelta(t, 0.0, conc[0], 1e-6, "nothing elutes at t=0")
}

// The synthetic curves preserve the injected area, so the integral under
// the outlet curve must match concentration times duration of the pulse.
func TestMockEngine_PreservesInjectedArea(t *testing.T) {
	process, err := application.LinearGRMBenchmark()
	require.NoError(t, err)

	result, err := (&MockEngine{NumSamples: 8000}).Simulate(context.Background(), process)
	require.NoError(t, err)

	series, ok := result.Series("outlet", domain.PortOutlet)
	require.True(t, ok)
	conc, err := series.Component(0)
	require.NoError(t, err)

	area := 0.0
	for i := 1; i < len(conc); i++ {
		dt := series.Time[i] - series.Time[i-1]
		area += 0.5 * (conc[i] + conc[i-1]) * dt
	}
	assert.InEpsilon(t, 1.0*1200, area, 0.05)
}

func TestMockEngine_Determinism(t *testing.T) {
	process, err := application.LinearGRMBenchmark()
	require.NoError(t, err)

	engine := &MockEngine{}
	first, err := engine.Simulate(context.Background(), process)
	require.NoError(t, err)
	second, err := engine.Simulate(context.Background(), process)
	require.NoError(t, err)

	s1, _ := first.Series("outlet", domain.PortOutlet)
	s2, _ := second.Series("outlet", domain.PortOutlet)
	assert.Equal(t, s1.Concentration, s2.Concentration, "identical input must give identical output")
	assert.Equal(t, 2, engine.Calls())
}

func TestMockEngine_ErrorAndLatencyInjection(t *testing.T) {
	process, err := application.LinearGRMBenchmark()
	require.NoError(t, err)

	t.Run("configured error is returned", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := (&MockEngine{Err: boom}).Simulate(context.Background(), process)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("latency respects cancellation", func(t *testing.T) {
		engine := &MockEngine{Latency: time.Minute}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := engine.Simulate(ctx, process)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestMockEngine_RejectsInvalidProcess(t *testing.T) {
	system, err := domain.NewComponentSystem("A")
	require.NoError(t, err)
	fs, err := domain.NewFlowSheet(system)
	require.NoError(t, err)
	process, err := domain.NewProcess(fs, "empty")
	require.NoError(t, err)

	_, err = (&MockEngine{}).Simulate(context.Background(), process)
	assert.Error(t, err)
}
