package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/lightpath/internal/journal"
	"github.com/roach88/lightpath/internal/network"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Context  string
}

// TraceResult holds the journal contents of one context.
type TraceResult struct {
	Context journal.ContextInfo  `json:"context"`
	Events  []network.Event      `json:"events"`
	Paths   []journal.PathRecord `json:"paths"`
	Stats   TraceStats           `json:"stats"`
}

// TraceStats holds summary statistics for a context.
type TraceStats struct {
	Events      int `json:"events"`
	Queries     int `json:"queries"`
	FoundPaths  int `json:"found_paths"`
	FailedPaths int `json:"failed_paths"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the journal of a simulation context",
		Long: `Show what a journal recorded for a simulation context: every registry
change in order, then every path query with its outcome.

Without --context, lists the contexts stored in the journal.

Examples:
  lightpath trace --db ./lightpath.db
  lightpath trace --db ./lightpath.db --context 0190f4c1-...
  lightpath trace --db ./lightpath.db --context 0190f4c1-... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite journal (required)")
	cmd.Flags().StringVar(&opts.Context, "context", "", "context token to show")

	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	// Open would create an empty journal for a mistyped path.
	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "journal not found", err)
	}
	j, err := journal.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	if opts.Context == "" {
		contexts, err := j.Contexts(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list contexts", err)
		}
		if opts.Format == "json" {
			return formatter.Success(contexts)
		}
		w := cmd.OutOrStdout()
		if len(contexts) == 0 {
			fmt.Fprintln(w, "No contexts recorded.")
			return nil
		}
		for _, c := range contexts {
			fmt.Fprintf(w, "%s  %s  (lightpath %s, schema %s)\n", c.Token, c.Bench, c.ToolVersion, c.SchemaVersion)
		}
		return nil
	}

	info, found, err := j.ReadContext(ctx, opts.Context)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read context", err)
	}
	if !found {
		return NewExitError(ExitCommandError, fmt.Sprintf("context not found: %s", opts.Context))
	}
	events, err := j.ReadEvents(ctx, opts.Context)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}
	paths, err := j.ReadPaths(ctx, opts.Context)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read path queries", err)
	}

	result := TraceResult{
		Context: info,
		Events:  events,
		Paths:   paths,
		Stats:   TraceStats{Events: len(events), Queries: len(paths)},
	}
	for _, p := range paths {
		if p.Found() {
			result.Stats.FoundPaths++
		} else {
			result.Stats.FailedPaths++
		}
	}

	if opts.Format == "json" {
		return outputTraceJSON(cmd, result)
	}
	return outputTraceText(cmd.OutOrStdout(), result)
}

// outputTraceJSON outputs the trace result as JSON.
func outputTraceJSON(cmd *cobra.Command, result TraceResult) error {
	response := CLIResponse{
		Status:  "ok",
		Data:    result,
		Context: result.Context.Token,
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// outputTraceText outputs the trace result as text.
func outputTraceText(w io.Writer, result TraceResult) error {
	fmt.Fprintf(w, "Trace for Context: %s\n", result.Context.Token)
	fmt.Fprintf(w, "Bench: %s\n", result.Context.Bench)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Events ===")
	if len(result.Events) == 0 {
		fmt.Fprintln(w, "  (no events)")
	}
	for _, ev := range result.Events {
		fmt.Fprintf(w, "  [%d] %s%s\n", ev.Seq, ev.Kind, formatEventSubject(ev))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Paths ===")
	if len(result.Paths) == 0 {
		fmt.Fprintln(w, "  (no queries)")
	}
	for _, p := range result.Paths {
		outcome := string(p.ErrorCode)
		if p.Found() {
			outcome = "[" + strings.Join(p.Components, " ") + "]"
		}
		fmt.Fprintf(w, "  [%d] %s -> %s: %s\n", p.Seq, p.From, p.To, outcome)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Events:  %d\n", result.Stats.Events)
	fmt.Fprintf(w, "  Queries: %d (%d found, %d failed)\n",
		result.Stats.Queries, result.Stats.FoundPaths, result.Stats.FailedPaths)
	return nil
}

func formatEventSubject(ev network.Event) string {
	var parts []string
	if ev.Node != "" {
		parts = append(parts, "node="+ev.Node)
	}
	if ev.Component != "" {
		parts = append(parts, "component="+ev.Component)
	}
	if ev.Detail != "" {
		parts = append(parts, "detail="+ev.Detail)
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}
