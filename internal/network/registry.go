package network

import (
	"log/slog"
	"sort"

	"github.com/roach88/lightpath/internal/optic"
)

// DefaultMaxHops bounds the number of traversal steps in a single search.
const DefaultMaxHops = 10000

// Registry owns the node and component tables of one simulation context.
//
// All mutation goes through Registry methods; neither Node nor Component
// writes these maps. Every mutation validates all of its preconditions
// before changing anything, so a failed call leaves no partial state.
//
// Thread-safety: none. A Registry must be confined to one goroutine and must not
// be mutated while a search or dump over it is in progress.
type Registry struct {
	token string

	nodeIDs *Clock
	compIDs *Clock
	dumpIDs *Clock
	events  *Clock

	nodes          map[string]*Node
	nodesByID      map[int64]*Node
	nodeComponents map[int64][2]*Component
	componentNodes map[int64][]*Node
	components     map[int64]*Component
	order          []*Component
	callbacks      map[int64]ChangeFunc
	setters        map[setterKey]*GaussSetter
	listeners      []Listener

	maxHops int
}

// Option configures a Registry.
type Option func(*Registry)

// WithMaxHops sets the traversal step quota per search.
// Values below 1 leave the default in place.
func WithMaxHops(maxHops int) Option {
	return func(r *Registry) {
		if maxHops > 0 {
			r.maxHops = maxHops
		}
	}
}

// WithTokenGenerator sets the generator for the context token.
func WithTokenGenerator(gen TokenGenerator) Option {
	return func(r *Registry) {
		if gen != nil {
			r.token = gen.Generate()
		}
	}
}

// WithListener subscribes a listener at construction.
func WithListener(l Listener) Option {
	return func(r *Registry) {
		r.Subscribe(l)
	}
}

// New creates an empty Registry. The context token defaults to a UUIDv7.
func New(opts ...Option) *Registry {
	r := &Registry{
		nodeIDs:        NewClock(),
		compIDs:        NewClock(),
		dumpIDs:        NewClock(),
		events:         NewClock(),
		nodes:          make(map[string]*Node),
		nodesByID:      make(map[int64]*Node),
		nodeComponents: make(map[int64][2]*Component),
		componentNodes: make(map[int64][]*Node),
		components:     make(map[int64]*Component),
		callbacks:      make(map[int64]ChangeFunc),
		setters:        make(map[setterKey]*GaussSetter),
		maxHops:        DefaultMaxHops,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.token == "" {
		r.token = UUIDv7Generator{}.Generate()
	}
	return r
}

// Context returns the simulation-context token.
func (r *Registry) Context() string { return r.token }

// MaxHops returns the traversal step quota.
func (r *Registry) MaxHops() int { return r.maxHops }

// NewComponent builds an unregistered component from spec. The id is
// issued by this registry. The kind must be known and the number of ports
// must match the kind's role.
func (r *Registry) NewComponent(spec optic.ComponentSpec) (*Component, error) {
	name := optic.NormalizeName(spec.Name)
	if name == "" {
		return nil, newError(ErrCodeInvalidName, "", "", "component name must not be empty")
	}
	role, ok := optic.RoleOf(spec.Kind)
	if !ok {
		return nil, newError(ErrCodeInvalidComponentType, "", name, "unknown component kind %q", spec.Kind)
	}
	if len(spec.Ports) != role.PortCount() {
		return nil, newError(ErrCodeInvalidComponentType, "", name,
			"%s is %s and needs %d ports, got %d", spec.Kind, role, role.PortCount(), len(spec.Ports))
	}

	ports := make([]string, len(spec.Ports))
	copy(ports, spec.Ports)

	return &Component{
		id:        r.compIDs.Next(),
		name:      name,
		kind:      spec.Kind,
		role:      role,
		requested: ports,
		issuer:    r,
	}, nil
}

// AddComponent builds a component from spec and registers it under its
// requested port names.
func (r *Registry) AddComponent(spec optic.ComponentSpec, onChange ChangeFunc) (*Component, error) {
	c, err := r.NewComponent(spec)
	if err != nil {
		return nil, err
	}
	if err := r.RegisterComponentNodes(c, c.requested, onChange); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateNode returns the node with the given name, creating it if needed.
// The name "dump" always yields a fresh, unshared dump node.
func (r *Registry) CreateNode(name string) (*Node, error) {
	name = optic.NormalizeName(name)
	if name == "" {
		return nil, newError(ErrCodeInvalidName, "", "", "node name must not be empty")
	}
	if name == optic.DumpName {
		return r.newDumpNode(), nil
	}
	if n, ok := r.nodes[name]; ok {
		return n, nil
	}

	n := &Node{id: r.nodeIDs.Next(), name: name, reg: r}
	r.nodes[name] = n
	r.nodesByID[n.id] = n
	r.nodeComponents[n.id] = [2]*Component{}

	slog.Debug("node created", "node", name, "id", n.id, "context", r.token)
	r.emit(EventNodeCreated, name, "", "")
	return n, nil
}

func (r *Registry) newDumpNode() *Node {
	n := &Node{id: -r.dumpIDs.Next(), name: optic.DumpName, dump: true, reg: r}
	r.nodeComponents[n.id] = [2]*Component{}

	slog.Debug("dump node created", "id", n.id, "context", r.token)
	r.emit(EventNodeCreated, n.name, "", "dump")
	return n
}

// RegisterComponentNodes attaches c to a node for every port name, creating
// nodes as needed, then invokes onChange once.
//
// Fails with FOREIGN_COMPONENT if c was built by another registry, with
// DUPLICATE_REGISTRATION if c (or another component with the same name) is
// already registered, with INVALID_COMPONENT_TYPE if the
// number of names does not match c's role, and with ALREADY_CONNECTED if a
// named node is full, named twice or already holds c. Nothing is created on failure.
func (r *Registry) RegisterComponentNodes(c *Component, portNames []string, onChange ChangeFunc) error {
	if c == nil {
		return newError(ErrCodeInvalidComponentType, "", "", "nil component")
	}
	if c.issuer != r {
		return newError(ErrCodeForeignComponent, "", c.name, "component was built by another registry")
	}
	if c.reg != nil {
		return newError(ErrCodeDuplicateRegistration, "", c.name, "component has already been registered")
	}
	if _, exists := r.Component(c.name); exists {
		return newError(ErrCodeDuplicateRegistration, "", c.name, "a component with this name is already registered")
	}
	if len(portNames) != c.role.PortCount() {
		return newError(ErrCodeInvalidComponentType, "", c.name,
			"%s needs %d ports, got %d", c.role, c.role.PortCount(), len(portNames))
	}

	names := make([]string, len(portNames))
	seen := make(map[string]bool, len(portNames))
	for i, raw := range portNames {
		name := optic.NormalizeName(raw)
		if name == "" {
			return newError(ErrCodeInvalidName, "", c.name, "port %d has an empty node name", i)
		}
		names[i] = name
		if name == optic.DumpName {
			continue
		}
		if seen[name] {
			return newError(ErrCodeAlreadyConnected, name, c.name, "component names the same node twice")
		}
		seen[name] = true
		n, ok := r.nodes[name]
		if !ok {
			continue
		}
		if n.holds(c) {
			return newError(ErrCodeAlreadyConnected, name, c.name, "component already occupies node")
		}
		if n.occupied() == 2 {
			comps := n.Components()
			return newError(ErrCodeAlreadyConnected, name, c.name,
				"node is already connected to 2 components (%s, %s)", comps[0].name, comps[1].name)
		}
	}

	nodes := make([]*Node, 0, len(names))
	for _, name := range names {
		n, _ := r.CreateNode(name)
		r.attach(n, c)
		nodes = append(nodes, n)
	}

	c.reg = r
	r.componentNodes[c.id] = nodes
	r.components[c.id] = c
	r.order = append(r.order, c)
	r.callbacks[c.id] = onChange

	slog.Debug("component registered", "component", c.name, "kind", c.kind, "role", c.role.String(), "ports", names)
	r.emit(EventComponentRegistered, "", c.name, string(c.kind))

	r.notify(c)
	return nil
}

// ConnectNodeToComp fills the first empty endpoint slot of n with c.
//
// This is the low-level wiring primitive used by registration. It does not
// touch c's port list; callers that wire components outside registration
// own the consistency of that list.
func (r *Registry) ConnectNodeToComp(n *Node, c *Component) error {
	if c == nil {
		return newError(ErrCodeInvalidComponentType, nodeName(n), "", "nil component")
	}
	if !r.owns(n) {
		return newError(ErrCodeUnknownNode, nodeName(n), c.name, "node is not part of this registry")
	}
	if c.issuer != r {
		return newError(ErrCodeForeignComponent, n.name, c.name, "component was built by another registry")
	}
	comps := r.nodeComponents[n.id]
	if comps[0] != nil && comps[1] != nil {
		return newError(ErrCodeAlreadyConnected, n.name, c.name,
			"node is already connected to 2 components (%s, %s)", comps[0].name, comps[1].name)
	}
	if n.holds(c) {
		return newError(ErrCodeAlreadyConnected, n.name, c.name, "component already occupies node")
	}

	r.attach(n, c)
	if c.reg == r {
		r.notify(c)
	}
	return nil
}

// ReplaceNode moves c's occupancy from oldNode to newNode. If oldNode ends up
// with no occupied slot it is deleted (unless detectors still observe it).
//
// Fails with NOT_ATTACHED if c is not registered or does not occupy oldNode,
// with ALREADY_CONNECTED if newNode is full or already holds c, and with
// UNKNOWN_NODE if either node belongs to another registry.
func (r *Registry) ReplaceNode(c *Component, oldNode, newNode *Node) error {
	if c == nil || c.reg != r {
		return newError(ErrCodeNotAttached, nodeName(oldNode), componentName(c), "component is not registered")
	}
	if !r.owns(oldNode) {
		return newError(ErrCodeUnknownNode, nodeName(oldNode), c.name, "old node is not part of this registry")
	}
	if !r.owns(newNode) {
		return newError(ErrCodeUnknownNode, nodeName(newNode), c.name, "new node is not part of this registry")
	}
	if newNode.occupied() == 2 {
		return newError(ErrCodeAlreadyConnected, newNode.name, c.name, "new node already connected to two components")
	}
	if !oldNode.holds(c) {
		return newError(ErrCodeNotAttached, oldNode.name, c.name, "old node not attached to component")
	}
	if newNode.holds(c) {
		return newError(ErrCodeAlreadyConnected, newNode.name, c.name, "new node already attached to component")
	}
	idx := c.portIndex(oldNode)
	if idx < 0 {
		return newError(ErrCodeNotAttached, oldNode.name, c.name, "old node is not one of the component's ports")
	}

	r.attach(newNode, c)
	r.detach(oldNode, c)

	nodes := r.componentNodes[c.id]
	updated := make([]*Node, len(nodes))
	copy(updated, nodes)
	updated[idx] = newNode
	r.componentNodes[c.id] = updated

	slog.Debug("node replaced", "component", c.name, "old", oldNode.name, "new", newNode.name)
	r.emit(EventNodeReplaced, oldNode.name, c.name, newNode.name)

	r.dropIfUnused(oldNode)
	r.notify(c)
	return nil
}

// RemoveComponent clears c from every node it occupies, deletes nodes left
// empty and unobserved, and forgets c.
func (r *Registry) RemoveComponent(c *Component) error {
	if c == nil {
		return newError(ErrCodeNotAttached, "", "", "nil component")
	}
	nodes, ok := r.componentNodes[c.id]
	if !ok || c.reg != r {
		return newError(ErrCodeNotAttached, "", c.name, "component is not registered")
	}

	for _, n := range nodes {
		if n.holds(c) {
			r.detach(n, c)
		}
	}

	delete(r.componentNodes, c.id)
	delete(r.components, c.id)
	delete(r.callbacks, c.id)
	r.dropSetters(c)
	for i, oc := range r.order {
		if oc == c {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	c.reg = nil
	c.ports = nil

	slog.Debug("component removed", "component", c.name)
	r.emit(EventComponentRemoved, "", c.name, "")

	for _, n := range nodes {
		r.dropIfUnused(n)
	}
	return nil
}

// RemoveNode deletes n. Fails with REMOVAL_BLOCKED while either endpoint
// slot is occupied or a detector is still attached, and with UNKNOWN_NODE
// if n is not part of this registry.
func (r *Registry) RemoveNode(n *Node) error {
	if !r.owns(n) {
		return newError(ErrCodeUnknownNode, nodeName(n), "", "trying to remove a node that has not been added")
	}
	if n.occupied() > 0 {
		return newError(ErrCodeRemovalBlocked, n.name, "", "cannot remove a node which is attached to components still")
	}
	if !n.dump && len(n.detectors) > 0 {
		return newError(ErrCodeRemovalBlocked, n.name, "", "cannot remove a node which is attached to detectors still")
	}
	r.deleteNode(n)
	return nil
}

// HasNode reports whether a node with the given name exists.
func (r *Registry) HasNode(name string) bool {
	_, ok := r.nodes[optic.NormalizeName(name)]
	return ok
}

// Node returns the node with the given name.
func (r *Registry) Node(name string) (*Node, bool) {
	n, ok := r.nodes[optic.NormalizeName(name)]
	return n, ok
}

// Nodes returns a snapshot copy of the name → node table. Dump nodes are
// not named and never appear.
func (r *Registry) Nodes() map[string]*Node {
	out := make(map[string]*Node, len(r.nodes))
	for name, n := range r.nodes {
		out[name] = n
	}
	return out
}

// SortedNodes returns all named nodes ordered by id.
func (r *Registry) SortedNodes() []*Node {
	out := make([]*Node, 0, len(r.nodesByID))
	for _, n := range r.nodesByID {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Component returns the registered component with the given name.
func (r *Registry) Component(name string) (*Component, bool) {
	name = optic.NormalizeName(name)
	for _, c := range r.order {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// Components returns the registered components in registration order.
func (r *Registry) Components() []*Component {
	out := make([]*Component, len(r.order))
	copy(out, r.order)
	return out
}

// ComponentNodes returns the nodes attached to c in port order.
func (r *Registry) ComponentNodes(c *Component) ([]*Node, error) {
	if c == nil || c.reg != r {
		return nil, newError(ErrCodeNotAttached, "", componentName(c), "component is not registered")
	}
	return c.Nodes(), nil
}

// NodeComponents returns the two endpoint slots of n.
func (r *Registry) NodeComponents(n *Node) ([2]*Component, error) {
	if !r.owns(n) {
		return [2]*Component{}, newError(ErrCodeUnknownNode, nodeName(n), "", "node is not part of this registry")
	}
	return r.nodeComponents[n.id], nil
}

func (r *Registry) owns(n *Node) bool {
	if n == nil || n.reg != r {
		return false
	}
	_, ok := r.nodeComponents[n.id]
	return ok
}

// attach fills the first empty slot of n with c. Capacity is checked by
// the callers.
func (r *Registry) attach(n *Node, c *Component) {
	comps := r.nodeComponents[n.id]
	if comps[0] == nil {
		comps[0] = c
	} else {
		comps[1] = c
	}
	r.nodeComponents[n.id] = comps

	r.emit(EventNodeConnected, n.name, c.name, "")
}

func (r *Registry) detach(n *Node, c *Component) {
	comps := r.nodeComponents[n.id]
	for i := range comps {
		if comps[i] == c {
			comps[i] = nil
			break
		}
	}
	r.nodeComponents[n.id] = comps

	r.emit(EventNodeDisconnected, n.name, c.name, "")
}

// dropIfUnused deletes n when no slot is occupied. Named nodes that still
// have detectors are kept.
func (r *Registry) dropIfUnused(n *Node) {
	if !r.owns(n) || n.occupied() > 0 {
		return
	}
	if !n.dump && len(n.detectors) > 0 {
		slog.Debug("keeping empty node with detectors", "node", n.name, "detectors", len(n.detectors))
		return
	}
	r.deleteNode(n)
}

func (r *Registry) deleteNode(n *Node) {
	delete(r.nodeComponents, n.id)
	if n.dump {
		return
	}
	delete(r.nodes, n.name)
	delete(r.nodesByID, n.id)

	slog.Debug("node removed", "node", n.name, "id", n.id)
	r.emit(EventNodeRemoved, n.name, "", "")
}

// notify refreshes c's port index and beam-parameter accessors, then runs
// its ChangeFunc.
func (r *Registry) notify(c *Component) {
	c.refreshPorts()
	r.refreshSetters(c)
	if cb := r.callbacks[c.id]; cb != nil {
		cb()
	}
}

func nodeName(n *Node) string {
	if n == nil {
		return ""
	}
	return n.name
}
