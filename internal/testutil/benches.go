package testutil

import "github.com/roach88/lightpath/internal/optic"

// Bench fixtures shared by the network, catalog, harness and cli tests.
// Each returns a fresh slice that callers may modify.

// LinearChain is a laser feeding two mirrors through two spaces:
//
//	L1 | n_L1 | s1 | n_M1_in | M1 | n_M1_out | s2 | n_M2_out | M2 | dump
func LinearChain() []optic.ComponentSpec {
	return []optic.ComponentSpec{
		{Name: "L1", Kind: optic.KindLaser, Ports: []string{"n_L1"}},
		{Name: "s1", Kind: optic.KindSpace, Ports: []string{"n_L1", "n_M1_in"}},
		{Name: "M1", Kind: optic.KindMirror, Ports: []string{"n_M1_in", "n_M1_out"}},
		{Name: "s2", Kind: optic.KindSpace, Ports: []string{"n_M1_out", "n_M2_out"}},
		{Name: "M2", Kind: optic.KindMirror, Ports: []string{"n_M2_out", "dump"}},
	}
}

// BeamSplitter is a laser entering port 0 of bs1. The reflected arm ends at
// node R, the transmitted arm at node T, and n4 is left open. m_iso sits on
// its own and is unreachable from the rest.
func BeamSplitter() []optic.ComponentSpec {
	return []optic.ComponentSpec{
		{Name: "L1", Kind: optic.KindLaser, Ports: []string{"n0"}},
		{Name: "s1", Kind: optic.KindSpace, Ports: []string{"n0", "n1"}},
		{Name: "bs1", Kind: optic.KindBeamSplitter, Ports: []string{"n1", "n2", "n3", "n4"}},
		{Name: "s_r", Kind: optic.KindSpace, Ports: []string{"n2", "R"}},
		{Name: "m_r", Kind: optic.KindMirror, Ports: []string{"R", "dump"}},
		{Name: "s_t", Kind: optic.KindSpace, Ports: []string{"n3", "T"}},
		{Name: "m_t", Kind: optic.KindMirror, Ports: []string{"T", "dump"}},
		{Name: "m_iso", Kind: optic.KindMirror, Ports: []string{"unreachable", "dump"}},
	}
}

// RingCavity is three mirrors closed into a loop by three spaces:
//
//	a | m1 | b | s1 | c | m2 | d | s2 | e | m3 | f | s3 | a
func RingCavity() []optic.ComponentSpec {
	return []optic.ComponentSpec{
		{Name: "m1", Kind: optic.KindMirror, Ports: []string{"a", "b"}},
		{Name: "s1", Kind: optic.KindSpace, Ports: []string{"b", "c"}},
		{Name: "m2", Kind: optic.KindMirror, Ports: []string{"c", "d"}},
		{Name: "s2", Kind: optic.KindSpace, Ports: []string{"d", "e"}},
		{Name: "m3", Kind: optic.KindMirror, Ports: []string{"e", "f"}},
		{Name: "s3", Kind: optic.KindSpace, Ports: []string{"f", "a"}},
	}
}

// MachZehnder splits at bs_in and recombines at bs_out. Both arms reach the
// same state at bs_out, which must not count as a cycle.
func MachZehnder() []optic.ComponentSpec {
	return []optic.ComponentSpec{
		{Name: "L1", Kind: optic.KindLaser, Ports: []string{"in"}},
		{Name: "bs_in", Kind: optic.KindBeamSplitter, Ports: []string{"in", "a1", "b1", "dump"}},
		{Name: "arm_a", Kind: optic.KindSpace, Ports: []string{"a1", "a2"}},
		{Name: "m_a", Kind: optic.KindMirror, Ports: []string{"a2", "a3"}},
		{Name: "arm_b", Kind: optic.KindSpace, Ports: []string{"b1", "b2"}},
		{Name: "m_b", Kind: optic.KindMirror, Ports: []string{"b2", "b3"}},
		{Name: "bs_out", Kind: optic.KindBeamSplitter, Ports: []string{"a3", "out1", "out2", "b3"}},
		{Name: "s_out", Kind: optic.KindSpace, Ports: []string{"out1", "det"}},
		{Name: "pd", Kind: optic.KindMirror, Ports: []string{"det", "dump"}},
	}
}
