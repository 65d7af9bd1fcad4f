package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chromaflow/chromaflow/internal/domain"
)

func TestRemoteEngine_Simulate(t *testing.T) {
	var captured processPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, simulatePath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := simulateResponse{
			Solution: []seriesPayload{
				{
					Unit:          "outlet",
					Port:          "outlet",
					Time:          []float64{0, 3000, 6000},
					Concentration: [][]float64{{0}, {0.5}, {0}},
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	require.NoError(t, err)

	process := benchmarkProcess(t)
	result, err := client.Simulate(context.Background(), process)
	require.NoError(t, err)

	series, ok := result.Series("outlet", domain.PortOutlet)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 3000, 6000}, series.Time)

	// The submitted payload carries the full model.
	assert.Equal(t, "pulse", captured.Name)
	assert.Equal(t, 6000.0, captured.CycleTime)
	assert.Equal(t, []string{"A"}, captured.Components)
	assert.Equal(t, "outlet", captured.ProductOutlet)
	require.Len(t, captured.Units, 3)
	require.Len(t, captured.Connections, 2)
	require.Len(t, captured.Events, 2)

	assert.Equal(t, "inlet", captured.Units[0].Type)
	require.NotNil(t, captured.Units[0].FlowRate)
	assert.Equal(t, 2e-8, *captured.Units[0].FlowRate)

	column := captured.Units[1]
	assert.Equal(t, "general_rate_model", column.Type)
	require.NotNil(t, column.AxialDispersion)
	assert.Equal(t, 3.33e-9, *column.AxialDispersion)
	require.NotNil(t, column.Binding)
	assert.Equal(t, "linear", column.Binding.Model)
	assert.Equal(t, []float64{2.5}, column.Binding.AdsorptionRate)

	assert.Equal(t, "outlet", captured.Units[2].Type)

	assert.Equal(t, eventPayload{
		Name:      "pulse_start",
		Unit:      "inlet",
		Parameter: "inlet_concentration",
		Value:     []float64{1},
		Time:      0,
	}, captured.Events[0])
}

// TestRemoteEngine_ErrorMapping checks the HTTP status to sentinel mapping:
// 4xx responses are configuration errors, solver failures are terminal, and
// everything else counts as the service being unavailable.
func TestRemoteEngine_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{
			name:     "400 is a configuration error",
			status:   http.StatusBadRequest,
			body:     `{"error":"film_diffusion has wrong length","kind":"configuration"}`,
			sentinel: ErrConfiguration,
		},
		{
			name:     "422 is a solver failure",
			status:   http.StatusUnprocessableEntity,
			body:     `{"error":"time integrator did not converge","kind":"solver"}`,
			sentinel: ErrSolverFailure,
		},
		{
			name:     "503 is unavailable",
			status:   http.StatusServiceUnavailable,
			body:     `{"error":"engine pool exhausted"}`,
			sentinel: ErrUnavailable,
		},
		{
			name:     "unparseable error body still classifies by status",
			status:   http.StatusBadRequest,
			body:     "not json",
			sentinel: ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient(ClientConfig{BaseURL: server.URL})
			require.NoError(t, err)

			_, err = client.Simulate(context.Background(), benchmarkProcess(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var engineErr *EngineError
			require.ErrorAs(t, err, &engineErr)
			assert.Equal(t, tt.status, engineErr.StatusCode)
		})
	}
}

func TestRemoteEngine_UnreachableService(t *testing.T) {
	// A closed server: the transport error must map to ErrUnavailable.
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Simulate(context.Background(), benchmarkProcess(t))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRemoteEngine_RejectsMalformedSolution(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A non-increasing time grid must be rejected client side.
		resp := simulateResponse{
			Solution: []seriesPayload{
				{
					Unit:          "outlet",
					Port:          "outlet",
					Time:          []float64{0, 0},
					Concentration: [][]float64{{0}, {1}},
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Simulate(context.Background(), benchmarkProcess(t))
	assert.ErrorIs(t, err, ErrSolverFailure)
}
