package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a result as the deterministic text stored in golden
// files: one line per step, one per journaled path query, then the final
// DumpInfo listing.
//
//	scenario: linear_chain
//	context: test-context-default
//	step 0 find_path n_L1 -> n_M2_out: [s1 M1 s2]
//	step 1 remove_node n_L1: REMOVAL_BLOCKED
//	--- paths
//	1 n_L1 -> n_M2_out: [s1 M1 s2]
//	--- dump
//	node: n_L1 connected:true L1->s1
func Snapshot(name string, r *Result) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "scenario: %s\n", name)
	fmt.Fprintf(&buf, "context: %s\n", r.Context)

	for _, s := range r.Steps {
		fmt.Fprintf(&buf, "step %d %s %s: %s\n", s.Index, s.Action, s.Subject, stepOutcome(s))
	}

	buf.WriteString("--- paths\n")
	for _, p := range r.Paths {
		outcome := string(p.ErrorCode)
		if p.Found() {
			outcome = "[" + strings.Join(p.Components, " ") + "]"
		}
		fmt.Fprintf(&buf, "%d %s -> %s: %s\n", p.Seq, p.From, p.To, outcome)
	}

	buf.WriteString("--- dump\n")
	buf.WriteString(r.Dump)
	return buf.Bytes()
}

func stepOutcome(s StepResult) string {
	switch {
	case s.Error != "":
		return string(s.Error)
	case s.Action == ActionFindPath:
		return "[" + strings.Join(s.Path, " ") + "]"
	default:
		return "ok"
	}
}

// GoldenPath returns the golden file of s: golden/<name>.golden next to
// the scenario file.
func GoldenPath(s *Scenario) string {
	return filepath.Join(s.Dir, "golden", s.Name+".golden")
}

// CompareGolden reports whether r matches the golden file of s.
func CompareGolden(s *Scenario, r *Result) (bool, error) {
	want, err := os.ReadFile(GoldenPath(s))
	if err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Errorf("golden file not found: %s (run with --update to create)", GoldenPath(s))
		}
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	return bytes.Equal(want, Snapshot(s.Name, r)), nil
}

// UpdateGolden writes the snapshot of r to the golden file of s.
func UpdateGolden(s *Scenario, r *Result) error {
	path := GoldenPath(s)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, Snapshot(s.Name, r), 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against its golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, Snapshot(scenarioName, result))
}
