// Package harness runs YAML bench scenarios against a live registry.
//
// A scenario names a bench (a file relative to the scenario, or an inline
// definition), then mutates and queries it step by step:
//
//	name: linear_chain
//	description: laser feeding two mirrors
//	bench: benches/linear.cue
//	steps:
//	  - find_path: {from: n_L1, to: n_M2_out}
//	    expect: [s1, M1, s2]
//	  - remove_node: n_L1
//	    expect_error: REMOVAL_BLOCKED
//	golden: true
//
// Every run uses a fresh registry with a fixed context token and a fresh
// in-memory journal, so two runs of the same scenario produce byte-identical
// snapshots. With golden: true the snapshot (step outcomes, the journaled
// path queries and the final DumpInfo listing) is compared against
// golden/<name>.golden next to the scenario file.
package harness
