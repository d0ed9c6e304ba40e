package optic

import (
	"fmt"
	"math/cmplx"
)

// BeamParam is a complex Gaussian beam parameter q = z + i*zR, where z is
// the distance to the waist and zR the Rayleigh range. The graph never
// interprets it; it is stored and reported.
type BeamParam struct {
	Q complex128 `json:"q"`
}

// NewBeamParam builds a beam parameter from its distance to waist and
// Rayleigh range.
func NewBeamParam(z, zr float64) BeamParam {
	return BeamParam{Q: complex(z, zr)}
}

// Z returns the distance to the waist.
func (b BeamParam) Z() float64 { return real(b.Q) }

// ZR returns the Rayleigh range.
func (b BeamParam) ZR() float64 { return imag(b.Q) }

// IsZero reports whether the parameter is unset.
func (b BeamParam) IsZero() bool { return b.Q == 0 }

// Equal compares two parameters exactly.
func (b BeamParam) Equal(o BeamParam) bool { return b.Q == o.Q }

// String formats the parameter as "z+zRi" using %g.
func (b BeamParam) String() string {
	if cmplx.IsNaN(b.Q) {
		return "NaN"
	}
	return fmt.Sprintf("%g%+gi", b.Z(), b.ZR())
}

// Gauss is the beam-parameter annotation stored on a node: the pair (qx, qy)
// and the component that set it.
type Gauss struct {
	QX        BeamParam `json:"qx"`
	QY        BeamParam `json:"qy"`
	Component string    `json:"component"`
}

// Astigmatic reports whether qx and qy differ.
func (g Gauss) Astigmatic() bool {
	return !g.QX.Equal(g.QY)
}
