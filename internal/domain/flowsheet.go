package domain

import "fmt"

// Connection is a directed link between two units of a flow sheet,
// carrying flow from From to To.
type Connection struct {
	From string
	To   string
}

// FlowSheet is the directed graph of unit operations a process simulates.
// It is purely topological: units carry the physics parameters, the flow
// sheet only records which unit feeds which.
//
// Units and connections are registered against the same component system.
// Validate enforces that the connections form an acyclic chain in which
// every unit without a flow rate of its own has exactly one upstream feed.
type FlowSheet struct {
	system *ComponentSystem

	units map[string]UnitOperation
	order []string

	connections []Connection
	edgeSet     map[string]struct{}

	productOutlet string
}

// NewFlowSheet creates an empty flow sheet over the given component system.
func NewFlowSheet(system *ComponentSystem) (*FlowSheet, error) {
	if system == nil {
		return nil, fmt.Errorf("flow sheet: component system is required")
	}
	return &FlowSheet{
		system:  system,
		units:   make(map[string]UnitOperation),
		edgeSet: make(map[string]struct{}),
	}, nil
}

// System returns the component system the flow sheet is defined over.
func (fs *FlowSheet) System() *ComponentSystem { return fs.system }

// AddUnit registers a unit operation. The unit must be defined over the
// flow sheet's component system and its name must be unique.
func (fs *FlowSheet) AddUnit(u UnitOperation) error {
	if u == nil {
		return fmt.Errorf("flow sheet: cannot add nil unit")
	}
	if u.Name() == "" {
		return fmt.Errorf("flow sheet: %w", ErrEmptyName)
	}
	if u.System() != fs.system {
		return fmt.Errorf("flow sheet: unit %q uses a different component system", u.Name())
	}
	if _, exists := fs.units[u.Name()]; exists {
		return fmt.Errorf("flow sheet: unit %q already exists", u.Name())
	}
	fs.units[u.Name()] = u
	fs.order = append(fs.order, u.Name())
	return nil
}

// Unit returns the named unit and whether it exists.
func (fs *FlowSheet) Unit(name string) (UnitOperation, bool) {
	u, ok := fs.units[name]
	return u, ok
}

// Units returns all units in registration order.
func (fs *FlowSheet) Units() []UnitOperation {
	result := make([]UnitOperation, 0, len(fs.order))
	for _, name := range fs.order {
		result = append(result, fs.units[name])
	}
	return result
}

// AddConnection links two registered units so that flow leaving from
// reaches to. Self-loops and duplicate connections are rejected; cycles are
// rejected as soon as the closing edge is added.
func (fs *FlowSheet) AddConnection(from, to string) error {
	if _, ok := fs.units[from]; !ok {
		return fmt.Errorf("flow sheet: connection source %q: %w", from, ErrUnknownUnit)
	}
	if _, ok := fs.units[to]; !ok {
		return fmt.Errorf("flow sheet: connection target %q: %w", to, ErrUnknownUnit)
	}
	if from == to {
		return fmt.Errorf("flow sheet: connection %s -> %s: %w", from, to, ErrInvalidTopology)
	}
	key := from + "->" + to
	if _, exists := fs.edgeSet[key]; exists {
		return fmt.Errorf("flow sheet: connection %s -> %s already exists", from, to)
	}

	fs.connections = append(fs.connections, Connection{From: from, To: to})
	fs.edgeSet[key] = struct{}{}

	if fs.hasCycle() {
		fs.connections = fs.connections[:len(fs.connections)-1]
		delete(fs.edgeSet, key)
		return fmt.Errorf("flow sheet: connection %s -> %s closes a cycle: %w", from, to, ErrInvalidTopology)
	}
	return nil
}

// Connections returns a copy of all connections in registration order.
func (fs *FlowSheet) Connections() []Connection {
	return append([]Connection(nil), fs.connections...)
}

// UpstreamOf returns the names of units feeding the named unit.
func (fs *FlowSheet) UpstreamOf(name string) []string {
	var ups []string
	for _, c := range fs.connections {
		if c.To == name {
			ups = append(ups, c.From)
		}
	}
	return ups
}

// DownstreamOf returns the names of units the named unit feeds.
func (fs *FlowSheet) DownstreamOf(name string) []string {
	var downs []string
	for _, c := range fs.connections {
		if c.From == name {
			downs = append(downs, c.To)
		}
	}
	return downs
}

// SetProductOutlet marks the named unit as the product measurement point.
func (fs *FlowSheet) SetProductOutlet(name string) error {
	if _, ok := fs.units[name]; !ok {
		return fmt.Errorf("flow sheet: product outlet %q: %w", name, ErrUnknownUnit)
	}
	fs.productOutlet = name
	return nil
}

// ProductOutlet returns the name of the product measurement unit, or the
// empty string when none was marked.
func (fs *FlowSheet) ProductOutlet() string { return fs.productOutlet }

// Validate checks the flow sheet is simulation ready: every unit validates,
// the graph is acyclic, every unit participates in a connection, and every
// unit that does not impose its own flow rate has exactly one upstream feed.
func (fs *FlowSheet) Validate() error {
	verr := NewValidationError("flow sheet")

	if len(fs.units) == 0 {
		verr.Addf("no units registered")
	}
	for _, name := range fs.order {
		if err := fs.units[name].Validate(); err != nil {
			verr.Addf("unit %q: %v", name, err)
		}
	}

	if fs.hasCycle() {
		verr.Addf("connections contain a cycle")
	}

	for _, name := range fs.order {
		ups := len(fs.UpstreamOf(name))
		downs := len(fs.DownstreamOf(name))

		if _, isSource := fs.units[name].(FlowRater); isSource {
			if ups != 0 {
				verr.Addf("source unit %q has %d upstream connections", name, ups)
			}
			if downs == 0 {
				verr.Addf("source unit %q feeds nothing", name)
			}
			continue
		}
		if ups != 1 {
			verr.Addf("unit %q requires exactly one upstream connection, has %d", name, ups)
		}
	}

	return verr.ErrOrNil()
}

// hasCycle performs cycle detection over the connections using depth-first
// search with three-color node marking.
func (fs *FlowSheet) hasCycle() bool {
	// White (0): unvisited, Gray (1): visiting, Black (2): visited.
	colors := make(map[string]int, len(fs.units))

	var dfs func(name string) bool
	dfs = func(name string) bool {
		colors[name] = 1
		for _, next := range fs.DownstreamOf(name) {
			if colors[next] == 1 {
				return true
			}
			if colors[next] == 0 && dfs(next) {
				return true
			}
		}
		colors[name] = 2
		return false
	}

	for _, name := range fs.order {
		if colors[name] == 0 && dfs(name) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the flow sheet, cloning every unit so the
// copy can be mutated without affecting the original.
func (fs *FlowSheet) Clone() *FlowSheet {
	dup := &FlowSheet{
		system:        fs.system,
		units:         make(map[string]UnitOperation, len(fs.units)),
		order:         append([]string(nil), fs.order...),
		connections:   append([]Connection(nil), fs.connections...),
		edgeSet:       make(map[string]struct{}, len(fs.edgeSet)),
		productOutlet: fs.productOutlet,
	}
	for name, u := range fs.units {
		dup.units[name] = u.Clone()
	}
	for key := range fs.edgeSet {
		dup.edgeSet[key] = struct{}{}
	}
	return dup
}
