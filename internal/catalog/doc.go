// Package catalog loads optical bench definitions and registers them into a
// network.Registry.
//
// A bench lists components in registration order, the detectors observing
// its nodes and the beam parameters assigned to nodes. Benches can be
// written in CUE, HCL, YAML or JSON; LoadFile picks the parser from the
// file extension. Every format decodes into the same Bench value:
//
//	name: "linear_chain"
//	components: [
//		{name: "L1", kind: "laser", ports: ["n_L1"]},
//		{name: "s1", kind: "space", ports: ["n_L1", "n_M1_in"]},
//	]
//
// Validate checks a Bench without touching a registry and reports every
// problem it finds. Build registers a Bench; it fails on the first registry
// error and returns it wrapped with the offending entry.
package catalog
