package harness

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/lightpath/internal/catalog"
	"github.com/roach88/lightpath/internal/journal"
	"github.com/roach88/lightpath/internal/network"
	"github.com/roach88/lightpath/internal/optic"
	"github.com/roach88/lightpath/internal/testutil"
)

// Harness executes scenarios. Each run gets a fresh registry and a fresh
// in-memory journal.
type Harness struct {
	reg      *network.Registry
	journal  *journal.Journal
	recorder *journal.Recorder
	ctx      context.Context
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Load and validate the bench
//  2. Open an in-memory journal and record the registry's events into it
//  3. Build the bench into a registry with a fixed context token
//  4. Execute every step, checking expectations
//  5. Read the events and path queries back from the journal
//
// The returned error covers infrastructure failures (bench loading, the
// journal); failed expectations are reported through Result.
func Run(s *Scenario) (*Result, error) {
	return RunContext(context.Background(), s)
}

// RunContext is Run with an explicit context for journal access.
func RunContext(ctx context.Context, s *Scenario) (*Result, error) {
	bench, err := loadBench(s)
	if err != nil {
		return nil, err
	}
	if err := catalog.Check(bench); err != nil {
		return nil, fmt.Errorf("bench %s: %w", bench.Name, err)
	}

	j, err := journal.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create test journal: %w", err)
	}
	defer j.Close()

	opts := []network.Option{
		network.WithTokenGenerator(testutil.NewFixedContextGenerator(s.Context)),
	}
	if s.MaxHops > 0 {
		opts = append(opts, network.WithMaxHops(s.MaxHops))
	}
	reg := network.New(opts...)

	h := &Harness{
		reg:      reg,
		journal:  j,
		recorder: journal.NewRecorder(ctx, j),
		ctx:      ctx,
	}
	if err := h.recorder.Attach(reg, bench.Name); err != nil {
		return nil, fmt.Errorf("failed to attach journal: %w", err)
	}
	if err := catalog.Build(reg, bench); err != nil {
		return nil, fmt.Errorf("failed to build bench %s: %w", bench.Name, err)
	}

	slog.Debug("running scenario", "scenario", s.Name, "bench", bench.Name, "steps", len(s.Steps))

	result := NewResult()
	result.Context = reg.Context()

	for i, step := range s.Steps {
		sr, err := h.execute(i, step)
		if err != nil {
			return nil, err
		}
		result.Steps = append(result.Steps, sr)
		for _, msg := range check(step, sr) {
			result.AddError(fmt.Sprintf("steps[%d] %s %s: %s", i, sr.Action, sr.Subject, msg))
		}
	}

	if err := h.recorder.Err(); err != nil {
		return nil, fmt.Errorf("journal write failed: %w", err)
	}
	if result.Events, err = j.ReadEvents(ctx, reg.Context()); err != nil {
		return nil, err
	}
	if result.Paths, err = j.ReadPaths(ctx, reg.Context()); err != nil {
		return nil, err
	}
	result.Dump = reg.DumpString()

	return result, nil
}

func loadBench(s *Scenario) (*catalog.Bench, error) {
	if s.Inline != nil {
		return s.Inline, nil
	}
	return catalog.LoadFile(s.Bench)
}

// execute runs one step. Registry errors are part of the step's outcome;
// only journal failures are returned.
func (h *Harness) execute(i int, step Step) (StepResult, error) {
	sr := StepResult{Index: i, Action: step.Action()}
	var opErr error

	// Names that do not resolve are passed to the registry as nil so it
	// reports them with its own error codes.
	switch sr.Action {
	case ActionFindPath:
		from, to := step.FindPath.From, step.FindPath.To
		sr.Subject = from + " -> " + to
		res, err := h.reg.Search(from, to)
		if rerr := h.journal.RecordSearch(h.ctx, h.reg.Context(), from, to, res, err); rerr != nil {
			return sr, fmt.Errorf("failed to journal path query: %w", rerr)
		}
		if err == nil {
			sr.Path = res.Names()
		}
		opErr = err

	case ActionRemoveComponent:
		sr.Subject = step.RemoveComponent
		c, _ := h.reg.Component(step.RemoveComponent)
		opErr = h.reg.RemoveComponent(c)

	case ActionReplaceNode:
		args := step.ReplaceNode
		sr.Subject = fmt.Sprintf("%s %s -> %s", args.Component, args.Old, args.New)
		c, _ := h.reg.Component(args.Component)
		oldNode, _ := h.reg.Node(args.Old)
		existed := h.reg.HasNode(args.New)
		newNode, err := h.reg.CreateNode(args.New)
		if err != nil {
			opErr = err
			break
		}
		opErr = h.reg.ReplaceNode(c, oldNode, newNode)
		// a failed step leaves no node of its own behind
		if opErr != nil && !existed {
			if err := h.reg.RemoveNode(newNode); err != nil {
				return sr, fmt.Errorf("failed to discard node %s: %w", args.New, err)
			}
		}

	case ActionRemoveNode:
		sr.Subject = step.RemoveNode
		n, _ := h.reg.Node(step.RemoveNode)
		opErr = h.reg.RemoveNode(n)

	case ActionCreateNode:
		sr.Subject = step.CreateNode
		_, opErr = h.reg.CreateNode(step.CreateNode)

	case ActionAssertNodes:
		sr.Subject = "[" + strings.Join(nodeNames(h.reg), " ") + "]"
	}

	if opErr != nil {
		sr.Error = network.CodeOf(opErr)
		if sr.Error == "" {
			return sr, opErr
		}
		slog.Debug("step failed", "index", i, "action", sr.Action, "code", string(sr.Error))
	}
	return sr, nil
}

// check compares a step's outcome with its expectations.
func check(step Step, sr StepResult) []string {
	var errs []string

	want := network.ErrorCode(step.ExpectError)
	switch {
	case want != "" && sr.Error != want:
		got := string(sr.Error)
		if got == "" {
			got = "success"
		}
		errs = append(errs, fmt.Sprintf("expected error %s, got %s", want, got))
	case want == "" && sr.Error != "":
		errs = append(errs, fmt.Sprintf("unexpected error %s", sr.Error))
	}

	if step.Expect != nil && sr.Error == "" {
		if diff := cmp.Diff(step.Expect, sr.Path); diff != "" {
			errs = append(errs, fmt.Sprintf("path mismatch (-want +got):\n%s", diff))
		}
	}

	if step.AssertNodes != nil {
		want := make([]string, len(step.AssertNodes))
		for i, n := range step.AssertNodes {
			want[i] = optic.NormalizeName(n)
		}
		slices.Sort(want)
		got := strings.Fields(strings.Trim(sr.Subject, "[]"))
		if diff := cmp.Diff(want, got); diff != "" {
			errs = append(errs, fmt.Sprintf("node set mismatch (-want +got):\n%s", diff))
		}
	}
	return errs
}

func nodeNames(reg *network.Registry) []string {
	nodes := reg.SortedNodes()
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name()
	}
	slices.Sort(names)
	return names
}
