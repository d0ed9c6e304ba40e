package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command in-process and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeResponse(t *testing.T, out string) (CLIResponse, map[string]any) {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// =============================================================================
// Root
// =============================================================================

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "lightpath", cmd.Use)

	for _, name := range []string{"path", "info", "validate", "test", "trace"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	logFormat := cmd.PersistentFlags().Lookup("log-format")
	require.NotNil(t, logFormat)
	assert.Equal(t, "text", logFormat.DefValue)
}

func TestInvalidFormats(t *testing.T) {
	_, err := execute(t, "--format", "xml", "info", "testdata/linear.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)

	_, err = execute(t, "--log-format", "logfmt", "info", "testdata/linear.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log format "logfmt"`)
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newLogger(buf, &RootOptions{LogFormat: "json", Verbose: true})
	logger.Debug("node created", "node", "n1")
	assert.Contains(t, buf.String(), `"msg":"node created"`)
	assert.Contains(t, buf.String(), `"node":"n1"`)

	buf.Reset()
	logger = newLogger(buf, &RootOptions{LogFormat: "text"})
	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

// =============================================================================
// path
// =============================================================================

func TestPathCommand_Text(t *testing.T) {
	out, err := execute(t, "path", "testdata/linear.cue", "--from", "n_L1", "--to", "n_M2_out")
	require.NoError(t, err)
	assert.Equal(t, "s1 -> M1 -> s2\n", out)
}

func TestPathCommand_SameNode(t *testing.T) {
	out, err := execute(t, "path", "testdata/linear.cue", "--from", "n_L1", "--to", "n_L1")
	require.NoError(t, err)
	assert.Equal(t, "n_L1 and n_L1 are the same node\n", out)
}

func TestPathCommand_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "path", "testdata/beamsplitter.hcl", "--from", "n0", "--to", "T")
	require.NoError(t, err)

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "beamsplitter", data["bench"])
	assert.Equal(t, []any{"s1", "bs1", "s_t"}, data["components"])
	assert.NotEmpty(t, data["context"])
	assert.NotContains(t, data, "branches")
}

func TestPathCommand_Tree(t *testing.T) {
	out, err := execute(t, "path", "testdata/beamsplitter.hcl", "--from", "n1", "--to", "T", "--tree")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "n1 -> T\n"))
	assert.Contains(t, out, "[found]")
	assert.Contains(t, out, "[dump]")
}

func TestPathCommand_Failures(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		exitCode int
		code     string
	}{
		{
			name:     "path not found",
			args:     []string{"path", "testdata/beamsplitter.hcl", "--from", "n0", "--to", "unreachable"},
			exitCode: ExitFailure,
			code:     "PATH_NOT_FOUND",
		},
		{
			name:     "unknown node",
			args:     []string{"path", "testdata/linear.cue", "--from", "n_L1", "--to", "ghost"},
			exitCode: ExitFailure,
			code:     "UNKNOWN_NODE",
		},
		{
			name:     "hop limit",
			args:     []string{"path", "testdata/linear.cue", "--from", "n_L1", "--to", "n_M2_out", "--max-hops", "2"},
			exitCode: ExitFailure,
			code:     "HOP_LIMIT_EXCEEDED",
		},
		{
			name:     "syntax error",
			args:     []string{"path", "testdata/broken.cue", "--from", "a", "--to", "b"},
			exitCode: ExitFailure,
			code:     "E004",
		},
		{
			name:     "invalid bench",
			args:     []string{"path", "testdata/invalid.yaml", "--from", "a", "--to", "b"},
			exitCode: ExitFailure,
			code:     "E211",
		},
		{
			name:     "missing bench",
			args:     []string{"path", "testdata/nope.cue", "--from", "a", "--to", "b"},
			exitCode: ExitCommandError,
			code:     "E002",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.code+"]")
			assert.True(t, IsReported(err), "failure already rendered")
		})
	}
}

func TestPathCommand_BadMaxHops(t *testing.T) {
	_, err := execute(t, "path", "testdata/linear.cue", "--from", "n_L1", "--to", "n_M2_out", "--max-hops", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.False(t, IsReported(err), "flag errors are left for main to print")
}

func TestPathCommand_RequiresEndpoints(t *testing.T) {
	_, err := execute(t, "path", "testdata/linear.cue", "--from", "n_L1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"to"`)
}

// =============================================================================
// path --journal + trace
// =============================================================================

func TestPathJournalAndTrace(t *testing.T) {
	db := filepath.Join(t.TempDir(), "lightpath.db")

	_, err := execute(t, "path", "testdata/linear.cue", "--from", "n_L1", "--to", "n_M2_out", "--journal", db)
	require.NoError(t, err)
	_, err = execute(t, "path", "testdata/linear.cue", "--from", "n_L1", "--to", "ghost", "--journal", db)
	require.Error(t, err)

	out, err := execute(t, "--format", "json", "trace", "--db", db)
	require.NoError(t, err)
	var resp struct {
		Status string `json:"status"`
		Data   []struct {
			Token string `json:"token"`
			Bench string `json:"bench"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2, "each invocation is its own context")
	assert.Equal(t, "linear_chain", resp.Data[0].Bench)

	var found bool
	for _, c := range resp.Data {
		out, err := execute(t, "trace", "--db", db, "--context", c.Token)
		require.NoError(t, err)
		assert.Contains(t, out, "Trace for Context: "+c.Token)
		assert.Contains(t, out, "component_registered component=L1 detail=laser")
		assert.Contains(t, out, "detector_attached node=n_M1_out detail=pd1")
		if strings.Contains(out, "[1] n_L1 -> n_M2_out: [s1 M1 s2]") {
			found = true
			assert.Contains(t, out, "Queries: 1 (1 found, 0 failed)")
		} else {
			assert.Contains(t, out, "[1] n_L1 -> ghost: UNKNOWN_NODE")
		}
	}
	assert.True(t, found)
}

func TestTraceCommand_JSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "lightpath.db")
	_, err := execute(t, "path", "testdata/beamsplitter.hcl", "--from", "n0", "--to", "R", "--journal", db)
	require.NoError(t, err)

	out, err := execute(t, "--format", "json", "trace", "--db", db)
	require.NoError(t, err)
	_, _ = decodeResponse(t, out)
	var list struct {
		Data []struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list.Data, 1)

	out, err = execute(t, "--format", "json", "trace", "--db", db, "--context", list.Data[0].Token)
	require.NoError(t, err)
	resp, data := decodeResponse(t, out)
	assert.Equal(t, list.Data[0].Token, resp.Context)

	stats, ok := data["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), stats["queries"])
	assert.Equal(t, float64(1), stats["found_paths"])
	assert.NotZero(t, stats["events"])
}

func TestTraceCommand_Errors(t *testing.T) {
	_, err := execute(t, "trace", "--db", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	db := filepath.Join(t.TempDir(), "lightpath.db")
	_, err = execute(t, "path", "testdata/linear.cue", "--from", "n_L1", "--to", "n_L1", "--journal", db)
	require.NoError(t, err)

	_, err = execute(t, "trace", "--db", db, "--context", "no-such-context")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "context not found")
}

// =============================================================================
// info
// =============================================================================

func TestInfoCommand_Text(t *testing.T) {
	out, err := execute(t, "info", "testdata/linear.cue")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "node: n_L1 connected:true L1->s1", lines[0])
	assert.Equal(t, "node: n_M1_out connected:true M1->s2 detectors: pd1 gauss: qx=-1.5+2i qy=-1.5+2i by M1", lines[2])
	assert.Equal(t, "component: M2 mirror inline ports: n_M2_out dump", lines[8])
}

func TestInfoCommand_Tree(t *testing.T) {
	out, err := execute(t, "info", "testdata/beamsplitter.hcl", "--tree")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "context "))
	assert.Contains(t, out, "bs1 (beamsplitter)")
	assert.Contains(t, out, "[3] n4 -> -")
}

func TestInfoCommand_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "info", "testdata/beamsplitter.hcl")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   InfoResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "beamsplitter", resp.Data.Bench)
	assert.Len(t, resp.Data.Components, 8)

	byName := map[string]NodeInfo{}
	for _, n := range resp.Data.Nodes {
		byName[n.Name] = n
	}
	assert.Equal(t, [2]string{"bs1", ""}, byName["n4"].Components)
	assert.Equal(t, []string{"pd_r"}, byName["R"].Detectors)
	assert.Equal(t, "qx=0+1.5i qy=0.5+1.5i by bs1", byName["n2"].Gauss)
	assert.Equal(t, []string{"n1", "n2", "n3", "n4"}, resp.Data.Components[2].Ports)
	assert.Equal(t, "branching", resp.Data.Components[2].Role)
}

// =============================================================================
// validate
// =============================================================================

func TestValidateCommand_Valid(t *testing.T) {
	out, err := execute(t, "validate", "testdata/linear.cue")
	require.NoError(t, err)
	assert.Equal(t, "✓ bench linear_chain valid (5 components)\n", out)
}

func TestValidateCommand_Invalid(t *testing.T) {
	out, err := execute(t, "validate", "testdata/invalid.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ bench invalid has 2 error(s):")
	assert.True(t, IsReported(err))
	assert.Contains(t, out, "[E211] components[1].name")
	assert.Contains(t, out, "[E212] components[1].kind")
}

func TestValidateCommand_InvalidJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "validate", "testdata/invalid.yaml")
	require.Error(t, err)

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E211", resp.Error.Code)
	assert.Equal(t, false, data["valid"])
	assert.Len(t, data["errors"], 2)
}

func TestValidateCommand_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bench.txt", "name: x\n")
	out, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}

// =============================================================================
// test
// =============================================================================

func TestTestCommand_Passes(t *testing.T) {
	out, err := execute(t, "test", "testdata/scenarios")
	require.NoError(t, err, "output: %s", out)
	assert.Contains(t, out, "✓ linear_chain\n")
	assert.Contains(t, out, "✓ ring_cavity\n")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommand_Filter(t *testing.T) {
	out, err := execute(t, "test", "testdata/scenarios", "--filter", "ring*")
	require.NoError(t, err)
	assert.NotContains(t, out, "linear_chain")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommand_MissingDir(t *testing.T) {
	_, err := execute(t, "test", "testdata/no-such-dir")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_Empty(t *testing.T) {
	out, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", out)
}

func TestTestCommand_Failure(t *testing.T) {
	bench, err := filepath.Abs("testdata/linear.cue")
	require.NoError(t, err)
	dir := t.TempDir()
	writeFile(t, dir, "wrong.yaml", `
name: wrong
description: expects the wrong path
bench: `+bench+`
steps:
  - find_path: {from: n_L1, to: n_M2_out}
    expect: [M2]
`)

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "path mismatch")
	assert.Contains(t, out, "Test Summary: 0 passed, 1 failed, 1 total")
}

func TestTestCommand_UpdateGolden(t *testing.T) {
	bench, err := filepath.Abs("testdata/linear.cue")
	require.NoError(t, err)
	dir := t.TempDir()
	writeFile(t, dir, "snap.yaml", `
name: snap
description: snapshot of the chain
bench: `+bench+`
steps:
  - find_path: {from: n_L1, to: n_M2_out}
golden: true
`)

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "golden file not found")

	out, err = execute(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ snap (golden updated)")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "snap.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(golden), "step 0 find_path n_L1 -> n_M2_out: [s1 M1 s2]")

	out, err = execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ snap\n")
}

func TestTestCommand_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "test", "testdata/scenarios")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 2, resp.Data.Passed)
	assert.Equal(t, "linear_chain", resp.Data.Scenarios[0].Name)
}
