package network

import "github.com/roach88/lightpath/internal/optic"

// ChangeFunc is invoked after the nodes attached to a component change:
// once after registration, and after every connect or replace that touches
// the component.
type ChangeFunc func()

// Component is a registered graph participant with a fixed, ordered list of
// ports and a traversal role.
//
// The port-name index is rebuilt by the registry on every change
// notification, before the component's ChangeFunc runs.
type Component struct {
	id        int64
	name      string
	kind      optic.Kind
	role      optic.Role
	requested []string
	issuer    *Registry
	reg       *Registry
	ports     map[string]*Node
}

// ID returns the registry-scoped component id.
func (c *Component) ID() int64 { return c.id }

// Name returns the component name.
func (c *Component) Name() string { return c.name }

// Kind returns the optical kind.
func (c *Component) Kind() optic.Kind { return c.kind }

// Role returns the traversal role.
func (c *Component) Role() optic.Role { return c.role }

// String implements fmt.Stringer.
func (c *Component) String() string { return c.name }

// RequestedPorts returns the port names declared at construction.
func (c *Component) RequestedPorts() []string {
	out := make([]string, len(c.requested))
	copy(out, c.requested)
	return out
}

// Registered reports whether the component is currently registered.
func (c *Component) Registered() bool { return c.reg != nil }

// Nodes returns the nodes currently attached, in port order, or nil if the
// component is not registered.
func (c *Component) Nodes() []*Node {
	if c.reg == nil {
		return nil
	}
	nodes := c.reg.componentNodes[c.id]
	out := make([]*Node, len(nodes))
	copy(out, nodes)
	return out
}

// Port returns the node attached under the given name. Dump ports are not
// indexed by name.
func (c *Component) Port(name string) (*Node, bool) {
	n, ok := c.ports[optic.NormalizeName(name)]
	return n, ok
}

// portIndex returns the position of n in the component's port list, or -1.
func (c *Component) portIndex(n *Node) int {
	if c.reg == nil {
		return -1
	}
	for i, p := range c.reg.componentNodes[c.id] {
		if p == n {
			return i
		}
	}
	return -1
}

func (c *Component) refreshPorts() {
	c.ports = make(map[string]*Node)
	for _, n := range c.Nodes() {
		if n.dump {
			continue
		}
		c.ports[n.name] = n
	}
}
