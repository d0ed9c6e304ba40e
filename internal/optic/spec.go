package optic

// DumpName is the reserved port name for light leaving the modelled system.
// Every port requested under this name gets a fresh, unshared dump node.
const DumpName = "dump"

// ComponentSpec describes one component as the catalog hands it to the
// registry: a unique name, an optical kind and the ordered port names.
type ComponentSpec struct {
	Name  string   `json:"name" yaml:"name"`
	Kind  Kind     `json:"kind" yaml:"kind"`
	Ports []string `json:"ports" yaml:"ports"`
}

// Role returns the traversal role derived from the spec's kind, or
// RoleUnknown for an unrecognised kind.
func (s ComponentSpec) Role() Role {
	r, _ := RoleOf(s.Kind)
	return r
}

// DetectorSpec describes a diagnostic observer attached to a node.
type DetectorSpec struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
	Node string `json:"node" yaml:"node"`
}

// GaussSpec assigns a beam parameter to a node on behalf of a component.
// QY is optional; when absent the beam is circular (qy = qx).
type GaussSpec struct {
	Component string      `json:"component" yaml:"component"`
	Node      string      `json:"node" yaml:"node"`
	QX        [2]float64  `json:"qx" yaml:"qx"`
	QY        *[2]float64 `json:"qy,omitempty" yaml:"qy,omitempty"`
}

// Params returns the (qx, qy) pair described by the spec.
func (g GaussSpec) Params() (qx, qy BeamParam) {
	qx = NewBeamParam(g.QX[0], g.QX[1])
	qy = qx
	if g.QY != nil {
		qy = NewBeamParam(g.QY[0], g.QY[1])
	}
	return qx, qy
}
