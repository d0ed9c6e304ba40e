package network

import (
	"fmt"
	"log/slog"

	"github.com/roach88/lightpath/internal/optic"
)

// Detector is an opaque diagnostic observer attached to a node. It has no
// role in the graph beyond blocking removal of the node it observes.
type Detector interface {
	Name() string
}

// Node is a named graph vertex shared by at most two component endpoints.
//
// Endpoint occupancy lives in the owning Registry; a Node only carries its
// identity, its detectors and its beam-parameter annotation.
type Node struct {
	id        int64
	name      string
	dump      bool
	reg       *Registry
	gauss     *optic.Gauss
	detectors []Detector
}

// ID returns the registry-scoped id. Dump nodes have negative ids.
func (n *Node) ID() int64 { return n.id }

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// IsDump reports whether n is a dump node.
func (n *Node) IsDump() bool { return n.dump }

// String implements fmt.Stringer.
func (n *Node) String() string { return n.name }

// Components returns the two endpoint slots. Empty slots are nil.
func (n *Node) Components() [2]*Component {
	if n.reg == nil {
		return [2]*Component{}
	}
	return n.reg.nodeComponents[n.id]
}

// IsConnected reports whether both endpoint slots are occupied.
func (n *Node) IsConnected() bool {
	comps := n.Components()
	return comps[0] != nil && comps[1] != nil
}

// Peer reports whether c occupies one of n's slots. When it does, peer is
// the component in the other slot (nil if empty) and index is the position
// of n in peer's port list, or -1 when there is no peer.
func (n *Node) Peer(c *Component) (connected bool, peer *Component, index int) {
	comps := n.Components()
	switch {
	case c != nil && comps[0] == c:
		peer = comps[1]
	case c != nil && comps[1] == c:
		peer = comps[0]
	default:
		return false, nil, -1
	}
	if peer == nil {
		return true, nil, -1
	}
	return true, peer, peer.portIndex(n)
}

func (n *Node) occupied() int {
	count := 0
	for _, c := range n.Components() {
		if c != nil {
			count++
		}
	}
	return count
}

func (n *Node) holds(c *Component) bool {
	comps := n.Components()
	return c != nil && (comps[0] == c || comps[1] == c)
}

// Detectors returns a copy of the attached detectors in attach order.
func (n *Node) Detectors() []Detector {
	out := make([]Detector, len(n.detectors))
	copy(out, n.detectors)
	return out
}

// AttachDetector attaches a diagnostic observer. Detector names are unique
// per node.
func (n *Node) AttachDetector(d Detector) error {
	if d == nil || optic.NormalizeName(d.Name()) == "" {
		return newError(ErrCodeInvalidName, n.name, "", "detector must have a name")
	}
	for _, existing := range n.detectors {
		if existing.Name() == d.Name() {
			return newError(ErrCodeAlreadyConnected, n.name, "", "detector %q already attached", d.Name())
		}
	}
	n.detectors = append(n.detectors, d)

	slog.Debug("detector attached", "node", n.name, "detector", d.Name())
	if n.reg != nil {
		n.reg.emit(EventDetectorAttached, n.name, "", d.Name())
	}
	return nil
}

// DetachDetector removes the detector with d's name.
func (n *Node) DetachDetector(d Detector) error {
	if d == nil {
		return newError(ErrCodeNotAttached, n.name, "", "nil detector")
	}
	for i, existing := range n.detectors {
		if existing.Name() != d.Name() {
			continue
		}
		n.detectors = append(n.detectors[:i], n.detectors[i+1:]...)

		slog.Debug("detector detached", "node", n.name, "detector", d.Name())
		if n.reg != nil {
			n.reg.emit(EventDetectorDetached, n.name, "", d.Name())
		}
		return nil
	}
	return newError(ErrCodeNotAttached, n.name, "", "detector %q not attached", d.Name())
}

// SetGauss records the beam parameters (qx, qy) on behalf of c, which must
// occupy n. Dump nodes carry no beam parameter.
func (n *Node) SetGauss(c *Component, qx, qy optic.BeamParam) error {
	if n.dump {
		return newError(ErrCodeNotAttached, n.name, componentName(c), "dump nodes carry no beam parameter")
	}
	if !n.holds(c) {
		return newError(ErrCodeNotAttached, n.name, componentName(c), "component does not occupy node")
	}
	n.gauss = &optic.Gauss{QX: qx, QY: qy, Component: c.name}

	slog.Debug("gauss set", "node", n.name, "component", c.name, "qx", qx.String(), "qy", qy.String())
	n.reg.emit(EventGaussSet, n.name, c.name, fmt.Sprintf("qx=%s qy=%s", qx, qy))
	return nil
}

// Gauss returns the beam-parameter annotation, if one has been set.
func (n *Node) Gauss() (optic.Gauss, bool) {
	if n.gauss == nil {
		return optic.Gauss{}, false
	}
	return *n.gauss, true
}

// RemoveGauss clears the beam-parameter annotation.
func (n *Node) RemoveGauss() {
	if n.gauss == nil {
		return
	}
	comp := n.gauss.Component
	n.gauss = nil
	if n.reg != nil {
		n.reg.emit(EventGaussRemoved, n.name, comp, "")
	}
}

// GaussLine renders the annotation as a "gauss*" command line (z and zR per
// axis), or "" when no parameter is set. Circular beams get one pair,
// astigmatic beams two.
func (n *Node) GaussLine() string {
	g, ok := n.Gauss()
	if !ok {
		return ""
	}
	if !g.Astigmatic() {
		return fmt.Sprintf("gauss* g_%s %s %s %.15g %.15g",
			n.name, g.Component, n.name, g.QX.Z(), g.QX.ZR())
	}
	return fmt.Sprintf("gauss* g_%s %s %s %.15g %.15g %.15g %.15g",
		n.name, g.Component, n.name, g.QX.Z(), g.QX.ZR(), g.QY.Z(), g.QY.ZR())
}

func componentName(c *Component) string {
	if c == nil {
		return ""
	}
	return c.name
}
