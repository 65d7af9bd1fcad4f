package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/chromaflow/chromaflow/infrastructure/units"
	"github.com/chromaflow/chromaflow/internal/domain"
)

// simulatePath is the service endpoint a process is submitted to.
const simulatePath = "/v1/simulate"

// remoteEngine is the HTTP transport to the simulation service. It
// serializes the process model into the service's JSON wire format and
// decodes the returned solution arrays.
type remoteEngine struct {
	baseURL    string
	httpClient *http.Client
}

func newRemoteEngine(baseURL string, httpClient *http.Client) *remoteEngine {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &remoteEngine{baseURL: baseURL, httpClient: httpClient}
}

// Endpoint returns the simulate endpoint URL.
func (r *remoteEngine) Endpoint() string { return r.baseURL + simulatePath }

// Simulate submits the process and decodes the engine's solution.
func (r *remoteEngine) Simulate(ctx context.Context, process *domain.Process) (*domain.SimulationResult, error) {
	payload, err := marshalProcess(process)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &EngineError{Message: fmt.Sprintf("encode process: %v", err), Err: ErrConfiguration}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, &EngineError{Message: fmt.Sprintf("build request: %v", err), Err: ErrUnavailable}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &EngineError{Message: fmt.Sprintf("request failed: %v", err), Err: ErrUnavailable}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var decoded simulateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &EngineError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("decode solution: %v", err),
			Err:        ErrSolverFailure,
		}
	}
	return decoded.toResult(process.Name())
}

// decodeError maps a non-200 engine response onto the error taxonomy.
// 4xx responses are configuration errors, 5xx are solver or service
// failures depending on the engine's reported kind.
func decodeError(resp *http.Response) error {
	var engineErr struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err := json.Unmarshal(raw, &engineErr); err != nil || engineErr.Error == "" {
		engineErr.Error = http.StatusText(resp.StatusCode)
	}

	sentinel := ErrUnavailable
	switch {
	case engineErr.Kind == "configuration" || (resp.StatusCode >= 400 && resp.StatusCode < 500):
		sentinel = ErrConfiguration
	case engineErr.Kind == "solver" || resp.StatusCode == http.StatusUnprocessableEntity:
		sentinel = ErrSolverFailure
	}
	return &EngineError{StatusCode: resp.StatusCode, Message: engineErr.Error, Err: sentinel}
}

// Wire format.

type processPayload struct {
	Name          string              `json:"name"`
	CycleTime     float64             `json:"cycle_time"`
	Components    []string            `json:"components"`
	Units         []unitPayload       `json:"units"`
	Connections   []connectionPayload `json:"connections"`
	Events        []eventPayload      `json:"events"`
	ProductOutlet string              `json:"product_outlet,omitempty"`
}

type unitPayload struct {
	Name string `json:"name"`
	Type string `json:"type"`

	// Inlet parameters.
	FlowRate      *float64  `json:"flow_rate,omitempty"`
	Concentration []float64 `json:"concentration,omitempty"`

	// Column parameters.
	Length           *float64        `json:"length,omitempty"`
	CrossSectionArea *float64        `json:"cross_section_area,omitempty"`
	BedPorosity      *float64        `json:"bed_porosity,omitempty"`
	ParticleRadius   *float64        `json:"particle_radius,omitempty"`
	ParticlePorosity *float64        `json:"particle_porosity,omitempty"`
	AxialDispersion  *float64        `json:"axial_dispersion,omitempty"`
	FilmDiffusion    []float64       `json:"film_diffusion,omitempty"`
	PoreDiffusion    []float64       `json:"pore_diffusion,omitempty"`
	SurfaceDiffusion []float64       `json:"surface_diffusion,omitempty"`
	InitialBulkC     []float64       `json:"initial_c,omitempty"`
	InitialSolidQ    []float64       `json:"initial_q,omitempty"`
	Binding          *bindingPayload `json:"binding,omitempty"`
}

type bindingPayload struct {
	Model          string    `json:"model"`
	IsKinetic      bool      `json:"is_kinetic"`
	AdsorptionRate []float64 `json:"adsorption_rate"`
	DesorptionRate []float64 `json:"desorption_rate"`
}

type connectionPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type eventPayload struct {
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	Parameter string    `json:"parameter"`
	Value     []float64 `json:"value"`
	Time      float64   `json:"time"`
}

type simulateResponse struct {
	Solution []seriesPayload `json:"solution"`
}

type seriesPayload struct {
	Unit          string      `json:"unit"`
	Port          string      `json:"port"`
	Time          []float64   `json:"time"`
	Concentration [][]float64 `json:"concentration"`
}

func (sr simulateResponse) toResult(process string) (*domain.SimulationResult, error) {
	result := domain.NewSimulationResult(process)
	for _, s := range sr.Solution {
		ts := &domain.TimeSeries{Time: s.Time, Concentration: s.Concentration}
		if err := result.AddSeries(s.Unit, domain.Port(s.Port), ts); err != nil {
			return nil, &EngineError{Message: err.Error(), Err: ErrSolverFailure}
		}
	}
	return result, nil
}

// marshalProcess flattens the process model into the wire format. Unknown
// unit types are a configuration error: the service only solves models
// assembled from the stock unit operations.
func marshalProcess(process *domain.Process) (*processPayload, error) {
	fs := process.FlowSheet()
	payload := &processPayload{
		Name:          process.Name(),
		CycleTime:     process.CycleTime(),
		Components:    fs.System().Names(),
		ProductOutlet: fs.ProductOutlet(),
	}

	for _, u := range fs.Units() {
		up, err := marshalUnit(u)
		if err != nil {
			return nil, err
		}
		payload.Units = append(payload.Units, up)
	}
	for _, c := range fs.Connections() {
		payload.Connections = append(payload.Connections, connectionPayload(c))
	}
	for _, e := range process.Events() {
		payload.Events = append(payload.Events, eventPayload{
			Name:      e.Name,
			Unit:      e.Target.Unit,
			Parameter: string(e.Target.Parameter),
			Value:     e.Value,
			Time:      e.Time,
		})
	}
	return payload, nil
}

func marshalUnit(u domain.UnitOperation) (unitPayload, error) {
	switch unit := u.(type) {
	case *units.Inlet:
		flowRate := unit.FlowRate()
		return unitPayload{
			Name:          unit.Name(),
			Type:          "inlet",
			FlowRate:      &flowRate,
			Concentration: unit.Concentration(),
		}, nil

	case *units.Column:
		length := unit.Length()
		area := unit.CrossSectionArea()
		bedPorosity := unit.BedPorosity()
		particleRadius := unit.ParticleRadius()
		particlePorosity := unit.ParticlePorosity()
		dispersion := unit.AxialDispersion()
		up := unitPayload{
			Name:             unit.Name(),
			Type:             "general_rate_model",
			Length:           &length,
			CrossSectionArea: &area,
			BedPorosity:      &bedPorosity,
			ParticleRadius:   &particleRadius,
			ParticlePorosity: &particlePorosity,
			AxialDispersion:  &dispersion,
			FilmDiffusion:    unit.FilmDiffusion(),
			PoreDiffusion:    unit.PoreDiffusion(),
			SurfaceDiffusion: unit.SurfaceDiffusion(),
			InitialBulkC:     unit.InitialBulkC(),
			InitialSolidQ:    unit.InitialSolidQ(),
		}
		if b := unit.BindingModel(); b != nil {
			up.Binding = &bindingPayload{
				Model:          "linear",
				IsKinetic:      b.IsKinetic,
				AdsorptionRate: b.AdsorptionRate,
				DesorptionRate: b.DesorptionRate,
			}
		}
		return up, nil

	case *units.Outlet:
		return unitPayload{Name: unit.Name(), Type: "outlet"}, nil

	default:
		return unitPayload{}, &EngineError{
			Message: fmt.Sprintf("unit %q has unsupported type %T", u.Name(), u),
			Err:     ErrConfiguration,
		}
	}
}
