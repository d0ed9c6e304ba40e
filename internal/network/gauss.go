package network

import "github.com/roach88/lightpath/internal/optic"

// GaussSetter is the beam-parameter accessor for one (component, node)
// pair. The registry keeps one per non-dump port of every registered
// component and rebuilds them on change notification.
type GaussSetter struct {
	comp *Component
	node *Node
}

type setterKey struct {
	comp int64
	node int64
}

// Node returns the node the setter writes to.
func (g *GaussSetter) Node() *Node { return g.node }

// Component returns the component the setter writes on behalf of.
func (g *GaussSetter) Component() *Component { return g.comp }

// QX returns the x-axis beam parameter, or the zero value when unset.
func (g *GaussSetter) QX() optic.BeamParam {
	gs, _ := g.node.Gauss()
	return gs.QX
}

// QY returns the y-axis beam parameter, or the zero value when unset.
func (g *GaussSetter) QY() optic.BeamParam {
	gs, _ := g.node.Gauss()
	return gs.QY
}

// Q returns the beam parameter of a circular beam. ok is false when the
// beam is astigmatic and no single q describes it.
func (g *GaussSetter) Q() (q optic.BeamParam, ok bool) {
	gs, _ := g.node.Gauss()
	if gs.Astigmatic() {
		return optic.BeamParam{}, false
	}
	return gs.QX, true
}

// SetQ sets a circular beam parameter on both axes.
func (g *GaussSetter) SetQ(q optic.BeamParam) error {
	return g.node.SetGauss(g.comp, q, q)
}

// SetQX sets the x-axis parameter. Like SetQ it resets qy to the same value.
func (g *GaussSetter) SetQX(q optic.BeamParam) error {
	return g.node.SetGauss(g.comp, q, q)
}

// SetQY sets the y-axis parameter, keeping the current qx.
func (g *GaussSetter) SetQY(q optic.BeamParam) error {
	return g.node.SetGauss(g.comp, g.QX(), q)
}

// GaussSetter returns the accessor for (c, n). It fails with NOT_ATTACHED
// when c is not registered, n is not one of its ports, or n is a dump node.
func (r *Registry) GaussSetter(c *Component, n *Node) (*GaussSetter, error) {
	if c == nil || n == nil {
		return nil, newError(ErrCodeNotAttached, "", "", "nil component or node")
	}
	g, ok := r.setters[setterKey{comp: c.id, node: n.id}]
	if !ok || g.comp != c {
		return nil, newError(ErrCodeNotAttached, n.name, c.name, "no beam-parameter accessor for this port")
	}
	return g, nil
}

func (r *Registry) refreshSetters(c *Component) {
	r.dropSetters(c)
	for _, n := range r.componentNodes[c.id] {
		if n.dump {
			continue
		}
		r.setters[setterKey{comp: c.id, node: n.id}] = &GaussSetter{comp: c, node: n}
	}
}

func (r *Registry) dropSetters(c *Component) {
	for k := range r.setters {
		if k.comp == c.id {
			delete(r.setters, k)
		}
	}
}
