package optic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_PortCount(t *testing.T) {
	tests := []struct {
		role Role
		want int
	}{
		{RoleInline, 2},
		{RoleBranching, 4},
		{RoleTerminal, 1},
		{RoleUnknown, 0},
		{Role(42), 0},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.PortCount())
			assert.Equal(t, tt.want > 0, tt.role.Valid())
		})
	}
}

func TestRoleOf_KnownKinds(t *testing.T) {
	for _, k := range []Kind{KindMirror, KindSpace, KindLens, KindModulator} {
		r, ok := RoleOf(k)
		assert.True(t, ok, "kind %s", k)
		assert.Equal(t, RoleInline, r, "kind %s", k)
	}

	r, ok := RoleOf(KindBeamSplitter)
	assert.True(t, ok)
	assert.Equal(t, RoleBranching, r)

	r, ok = RoleOf(KindLaser)
	assert.True(t, ok)
	assert.Equal(t, RoleTerminal, r)
}

func TestRoleOf_UnknownKind(t *testing.T) {
	r, ok := RoleOf("grating")
	assert.False(t, ok)
	assert.Equal(t, RoleUnknown, r)
	assert.False(t, Kind("grating").Known())
}

func TestKinds_Sorted(t *testing.T) {
	kinds := Kinds()
	assert.Len(t, kinds, 6)
	for i := 1; i < len(kinds); i++ {
		assert.Less(t, string(kinds[i-1]), string(kinds[i]))
	}
}

func TestComponentSpec_Role(t *testing.T) {
	spec := ComponentSpec{Name: "bs1", Kind: KindBeamSplitter}
	assert.Equal(t, RoleBranching, spec.Role())

	spec.Kind = "prism"
	assert.Equal(t, RoleUnknown, spec.Role())
}

func TestNormalizeName(t *testing.T) {
	// "é" as e + combining acute accent vs. the precomposed code point
	decomposed := "n_e\u0301"
	precomposed := "n_\u00e9"

	assert.Equal(t, precomposed, NormalizeName(decomposed))
	assert.Equal(t, "n1", NormalizeName("  n1\t"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestBeamParam(t *testing.T) {
	q := NewBeamParam(-1.5, 2)
	assert.Equal(t, -1.5, q.Z())
	assert.Equal(t, 2.0, q.ZR())
	assert.False(t, q.IsZero())
	assert.Equal(t, "-1.5+2i", q.String())
	assert.True(t, BeamParam{}.IsZero())
}

func TestGaussSpec_Params(t *testing.T) {
	circular := GaussSpec{QX: [2]float64{1, 2}}
	qx, qy := circular.Params()
	assert.True(t, qx.Equal(qy))

	astig := GaussSpec{QX: [2]float64{1, 2}, QY: &[2]float64{3, 4}}
	qx, qy = astig.Params()
	assert.Equal(t, complex(1, 2), qx.Q)
	assert.Equal(t, complex(3, 4), qy.Q)
	assert.True(t, Gauss{QX: qx, QY: qy}.Astigmatic())
}
