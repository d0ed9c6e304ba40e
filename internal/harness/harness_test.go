package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lightpath/internal/network"
	"github.com/roach88/lightpath/internal/testutil"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", name+".yaml"))
	require.NoError(t, err)
	return s
}

// =============================================================================
// Loading
// =============================================================================

func TestLoadScenario_ResolvesBenchPath(t *testing.T) {
	s := loadTestScenario(t, "linear_chain")

	assert.Equal(t, "linear_chain", s.Name)
	assert.Equal(t, "testdata", s.Dir)
	assert.Equal(t, filepath.Join("testdata", "benches", "linear.cue"), s.Bench)
	assert.True(t, s.Golden)
	require.Len(t, s.Steps, 8)
	assert.Equal(t, ActionFindPath, s.Steps[0].Action())
	assert.Equal(t, ActionAssertNodes, s.Steps[7].Action())
}

func TestLoadScenario_Inline(t *testing.T) {
	s := loadTestScenario(t, "beamsplitter")

	require.NotNil(t, s.Inline)
	assert.Empty(t, s.Bench)
	assert.Len(t, s.Inline.Components, 8)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join("testdata", "does_not_exist.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_MissingBench(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: s
description: d
bench: nope.cue
steps:
  - create_node: x
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bench file not found")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown field",
			yaml: "name: s\ndescription: d\nbench: b.cue\nstep: []\n",
			want: "failed to parse YAML",
		},
		{
			name: "missing name",
			yaml: "description: d\nbench: b.cue\nsteps: [{create_node: x}]\n",
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: "name: s\nbench: b.cue\nsteps: [{create_node: x}]\n",
			want: "description is required",
		},
		{
			name: "no bench",
			yaml: "name: s\ndescription: d\nsteps: [{create_node: x}]\n",
			want: "one of bench or inline is required",
		},
		{
			name: "bench and inline",
			yaml: "name: s\ndescription: d\nbench: b.cue\ninline: {name: x}\nsteps: [{create_node: x}]\n",
			want: "mutually exclusive",
		},
		{
			name: "no steps",
			yaml: "name: s\ndescription: d\nbench: b.cue\n",
			want: "steps list is required",
		},
		{
			name: "empty step",
			yaml: "name: s\ndescription: d\nbench: b.cue\nsteps: [{expect_error: UNKNOWN_NODE}]\n",
			want: "steps[0]: no action given",
		},
		{
			name: "two actions",
			yaml: "name: s\ndescription: d\nbench: b.cue\nsteps: [{create_node: x, remove_node: x}]\n",
			want: "only one action per step",
		},
		{
			name: "find_path without target",
			yaml: "name: s\ndescription: d\nbench: b.cue\nsteps: [{find_path: {from: a}}]\n",
			want: "find_path needs from and to",
		},
		{
			name: "expect on non path step",
			yaml: "name: s\ndescription: d\nbench: b.cue\nsteps: [{remove_node: a, expect: [x]}]\n",
			want: "expect is only valid for find_path",
		},
		{
			name: "replace without new",
			yaml: "name: s\ndescription: d\nbench: b.cue\nsteps: [{replace_node: {component: c, old: a}}]\n",
			want: "replace_node needs",
		},
		{
			name: "negative hops",
			yaml: "name: s\ndescription: d\nbench: b.cue\nmax_hops: -1\nsteps: [{create_node: x}]\n",
			want: "max_hops must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFindScenarios(t *testing.T) {
	files, err := FindScenarios("testdata", "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "beamsplitter.yaml"),
		filepath.Join("testdata", "linear_chain.yaml"),
		filepath.Join("testdata", "ring_cavity.yaml"),
	}, files)

	files, err = FindScenarios("testdata", "ring*")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("testdata", "ring_cavity.yaml")}, files)

	_, err = FindScenarios("testdata", "[")
	assert.Error(t, err)
}

// =============================================================================
// Running
// =============================================================================

func TestRun_LinearChainGolden(t *testing.T) {
	s := loadTestScenario(t, "linear_chain")

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, testutil.DefaultContext, result.Context)

	ok, err := CompareGolden(s, result)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRun_BeamSplitter(t *testing.T) {
	result, err := Run(loadTestScenario(t, "beamsplitter"))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, result.Paths, 4)
	assert.Equal(t, []string{"s1", "bs1", "s_r"}, result.Paths[0].Components)
	assert.True(t, result.Paths[0].Found())
	assert.Equal(t, network.ErrCodePathNotFound, result.Paths[2].ErrorCode)
	assert.Equal(t, network.ErrCodePathNotFound, result.Paths[3].ErrorCode)
	for i, p := range result.Paths {
		assert.Equal(t, int64(i+1), p.Seq)
	}
}

func TestRun_RingCavity(t *testing.T) {
	result, err := Run(loadTestScenario(t, "ring_cavity"))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "ring-ctx", result.Context)
	assert.Equal(t, network.ErrCodeCyclicTopology, result.Steps[2].Error)
}

func TestRun_EventsAreJournaled(t *testing.T) {
	result, err := Run(loadTestScenario(t, "linear_chain"))
	require.NoError(t, err)
	require.NotEmpty(t, result.Events)

	kinds := make(map[network.EventKind]int)
	for i, ev := range result.Events {
		assert.Equal(t, int64(i+1), ev.Seq, "events are gapless and ordered")
		assert.Equal(t, result.Context, ev.Context)
		kinds[ev.Kind]++
	}
	assert.Equal(t, 5, kinds[network.EventComponentRegistered])
	assert.Equal(t, 1, kinds[network.EventComponentRemoved])
	assert.Equal(t, 1, kinds[network.EventNodeReplaced])
	assert.Equal(t, 1, kinds[network.EventDetectorAttached])

	last := result.Events[len(result.Events)-1]
	assert.Equal(t, network.EventNodeRemoved, last.Kind)
	assert.Equal(t, "n_M2_out", last.Node)
}

func TestRun_Deterministic(t *testing.T) {
	s := loadTestScenario(t, "linear_chain")

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, Snapshot(s.Name, first), Snapshot(s.Name, second))
	assert.Equal(t, first.Events, second.Events)
}

func TestRun_ReportsMismatches(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: wrong
description: expectations that do not hold
inline:
  name: chain
  components:
    - {name: L1, kind: laser, ports: [n0]}
    - {name: s1, kind: space, ports: [n0, n1]}
steps:
  - find_path: {from: n0, to: n1}
    expect: [L1]
  - remove_node: n0
  - create_node: n2
    expect_error: UNKNOWN_NODE
  - assert_nodes: [n0]
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "path mismatch")
	assert.Contains(t, result.Errors[1], "unexpected error REMOVAL_BLOCKED")
	assert.Contains(t, result.Errors[2], "expected error UNKNOWN_NODE, got success")
	assert.Contains(t, result.Errors[3], "node set mismatch")
}

func TestRun_HopLimit(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: hops
description: a tight hop quota stops the search
bench: testdata/benches/linear.cue
max_hops: 2
steps:
  - find_path: {from: n_L1, to: n_M2_out}
    expect_error: HOP_LIMIT_EXCEEDED
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Paths, 1)
	assert.Equal(t, network.ErrCodeHopLimitExceeded, result.Paths[0].ErrorCode)
}

func TestRun_MissingElementsUseRegistryCodes(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: missing
description: unknown names surface as registry errors
inline:
  name: chain
  components:
    - {name: L1, kind: laser, ports: [n0]}
steps:
  - remove_component: ghost
    expect_error: NOT_ATTACHED
  - remove_node: ghost
    expect_error: UNKNOWN_NODE
  - replace_node: {component: L1, old: ghost, new: n1}
    expect_error: UNKNOWN_NODE
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_FailedReplaceDiscardsNewNode(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: failed_replace
inline:
  name: chain
  components:
    - {name: L1, kind: laser, ports: [n0]}
    - {name: s1, kind: space, ports: [n0, n1]}
steps:
  - replace_node: {component: s1, old: ghost, new: n_new}
    expect_error: UNKNOWN_NODE
  - replace_node: {component: L1, old: n1, new: n1_alt}
    expect_error: NOT_ATTACHED
  - replace_node: {component: L1, old: n1, new: n1}
    expect_error: NOT_ATTACHED
  - assert_nodes: [n0, n1]
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.NotContains(t, result.Dump, "n_new")
	assert.NotContains(t, result.Dump, "n1_alt")
}

func TestRun_InvalidBench(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: bad
description: bench fails validation
inline:
  name: bad
  components:
    - {name: L1, kind: warp_drive, ports: [n0]}
steps:
  - create_node: x
`))
	require.NoError(t, err)

	_, err = Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E212")
}

// =============================================================================
// Golden files
// =============================================================================

func TestUpdateAndCompareGolden(t *testing.T) {
	s := loadTestScenario(t, "ring_cavity")
	result, err := Run(s)
	require.NoError(t, err)

	s.Dir = t.TempDir()
	_, err = CompareGolden(s, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "golden file not found")

	require.NoError(t, UpdateGolden(s, result))
	ok, err := CompareGolden(s, result)
	require.NoError(t, err)
	assert.True(t, ok)

	result.Steps[0].Path = []string{"changed"}
	ok, err = CompareGolden(s, result)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSnapshot(t *testing.T) {
	result, err := Run(loadTestScenario(t, "ring_cavity"))
	require.NoError(t, err)

	lines := strings.Split(string(Snapshot("ring_cavity", result)), "\n")
	assert.Equal(t, "scenario: ring_cavity", lines[0])
	assert.Equal(t, "context: ring-ctx", lines[1])
	assert.Equal(t, "step 0 find_path a -> d: [m1 s1 m2]", lines[2])
	assert.Equal(t, "step 1 create_node outside: ok", lines[3])
	assert.Equal(t, "step 2 find_path a -> outside: CYCLIC_TOPOLOGY", lines[4])
	assert.Contains(t, lines, "2 a -> outside: CYCLIC_TOPOLOGY")
	assert.Contains(t, lines, "node: a connected:true m1->s3")
}
