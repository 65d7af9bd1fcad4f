package domain

import (
	"fmt"
	"sort"
)

// Process wraps a flow sheet with a total simulated duration and the ordered
// list of scheduled parameter mutations the engine applies during the cycle.
// A process exclusively owns its flow sheet: callers hand it over at
// construction and mutate the model only through the process afterwards.
type Process struct {
	name      string
	flowSheet *FlowSheet
	cycleTime float64
	events    []Event
	eventSet  map[string]struct{}
}

// NewProcess creates a process around the given flow sheet.
func NewProcess(flowSheet *FlowSheet, name string) (*Process, error) {
	if flowSheet == nil {
		return nil, fmt.Errorf("process: flow sheet is required")
	}
	if name == "" {
		return nil, fmt.Errorf("process: %w", ErrEmptyName)
	}
	return &Process{
		name:      name,
		flowSheet: flowSheet,
		eventSet:  make(map[string]struct{}),
	}, nil
}

// Name returns the process name.
func (p *Process) Name() string { return p.name }

// FlowSheet returns the owned flow sheet.
func (p *Process) FlowSheet() *FlowSheet { return p.flowSheet }

// CycleTime returns the total simulated duration [s].
func (p *Process) CycleTime() float64 { return p.cycleTime }

// SetCycleTime sets the total simulated duration [s]. Events registered
// before the cycle time is known are re-checked by Validate.
func (p *Process) SetCycleTime(t float64) error {
	if t <= 0 {
		return fmt.Errorf("process %s: cycle time must be positive, got %g", p.name, t)
	}
	p.cycleTime = t
	return nil
}

// AddEvent schedules a parameter mutation at the given time. The target is
// resolved immediately: the unit must exist in the flow sheet, expose the
// targeted parameter, and accept the value shape. Times must lie within
// [0, cycle_time] when the cycle time is already set.
func (p *Process) AddEvent(name string, target EventTarget, value []float64, at float64) error {
	if name == "" {
		return fmt.Errorf("process %s: event: %w", p.name, ErrEmptyName)
	}
	if _, exists := p.eventSet[name]; exists {
		return fmt.Errorf("process %s: event %q already exists", p.name, name)
	}
	unit, ok := p.flowSheet.Unit(target.Unit)
	if !ok {
		return fmt.Errorf("process %s: event %q targets %s: %w", p.name, name, target, ErrUnknownUnit)
	}
	mutable, ok := unit.(EventTargetable)
	if !ok {
		return fmt.Errorf("process %s: event %q: unit %q has no mutable parameters: %w",
			p.name, name, target.Unit, ErrInvalidParameter)
	}
	if err := mutable.ValidateEventValue(target.Parameter, value); err != nil {
		return fmt.Errorf("process %s: event %q: %w", p.name, name, err)
	}
	if at < 0 || (p.cycleTime > 0 && at > p.cycleTime) {
		return fmt.Errorf("process %s: event %q at t=%g: %w", p.name, name, at, ErrEventOutOfRange)
	}

	p.events = append(p.events, Event{
		Name:   name,
		Target: target,
		Value:  append([]float64(nil), value...),
		Time:   at,
	})
	p.eventSet[name] = struct{}{}
	return nil
}

// AddRectangularPulse schedules the two events of a rectangular inlet pulse:
// concentration cPulse from t=0 and cInitial from t=duration onward. The
// pulse must end strictly before the cycle does, otherwise the stop event
// would be silently truncated out of the simulated horizon.
func (p *Process) AddRectangularPulse(inlet string, cPulse, cInitial []float64, duration float64) error {
	if duration <= 0 {
		return fmt.Errorf("process %s: pulse duration must be positive, got %g", p.name, duration)
	}
	if p.cycleTime > 0 && duration >= p.cycleTime {
		return fmt.Errorf("process %s: pulse duration %g must end before cycle time %g",
			p.name, duration, p.cycleTime)
	}
	target := EventTarget{Unit: inlet, Parameter: ParamInletConcentration}
	if err := p.AddEvent("pulse_start", target, cPulse, 0); err != nil {
		return err
	}
	return p.AddEvent("pulse_stop", target, cInitial, duration)
}

// Events returns the scheduled events sorted by time, ties broken by
// registration order. The returned slice and its values are copies.
func (p *Process) Events() []Event {
	events := make([]Event, len(p.events))
	for i, e := range p.events {
		events[i] = e.clone()
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })
	return events
}

// Validate checks the process is simulation ready: the flow sheet validates,
// the cycle time is set, and every event lies within the cycle.
func (p *Process) Validate() error {
	verr := NewValidationError(fmt.Sprintf("process %s", p.name))

	if p.cycleTime <= 0 {
		verr.Addf("cycle time is not set")
	}
	if err := p.flowSheet.Validate(); err != nil {
		verr.Addf("%v", err)
	}
	for _, e := range p.events {
		if e.Time < 0 || e.Time > p.cycleTime {
			verr.Addf("event %q at t=%g lies outside [0, %g]", e.Name, e.Time, p.cycleTime)
		}
	}

	return verr.ErrOrNil()
}

// Clone returns a deep copy of the process, including a deep copy of the
// flow sheet and all events. Sweep drivers clone the process per sweep point
// so one point's parameter change can never leak into the next.
func (p *Process) Clone() *Process {
	dup := &Process{
		name:      p.name,
		flowSheet: p.flowSheet.Clone(),
		cycleTime: p.cycleTime,
		events:    make([]Event, len(p.events)),
		eventSet:  make(map[string]struct{}, len(p.eventSet)),
	}
	for i, e := range p.events {
		dup.events[i] = e.clone()
	}
	for name := range p.eventSet {
		dup.eventSet[name] = struct{}{}
	}
	return dup
}
