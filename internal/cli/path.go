package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/lightpath/internal/network"
)

// PathOptions holds flags for the path command.
type PathOptions struct {
	*RootOptions
	From    string
	To      string
	Tree    bool
	Journal string
	MaxHops int
}

// PathResult is the JSON payload of a successful path query.
type PathResult struct {
	Bench      string                 `json:"bench"`
	Context    string                 `json:"context"`
	From       string                 `json:"from"`
	To         string                 `json:"to"`
	Components []string               `json:"components"`
	Hops       int                    `json:"hops"`
	Branches   []network.BranchRecord `json:"branches,omitempty"`
}

// NewPathCommand creates the path command.
func NewPathCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PathOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "path <bench-file>",
		Short: "Find the components light passes through between two nodes",
		Long: `Resolve the ordered sequence of components between two nodes of a bench.

Beamsplitters are explored reflected arm first. A search fails with
PATH_NOT_FOUND when no arm reaches the target, and with CYCLIC_TOPOLOGY
when the only continuations loop back on themselves.

Examples:
  lightpath path bench.cue --from n_L1 --to n_M2_out
  lightpath path bench.hcl --from n0 --to T --tree
  lightpath path bench.yaml --from a --to d --journal ./lightpath.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPath(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "source node (required)")
	cmd.Flags().StringVar(&opts.To, "to", "", "target node (required)")
	cmd.Flags().BoolVar(&opts.Tree, "tree", false, "print the explored branches as a tree")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "SQLite journal to record the bench and the query in")
	cmd.Flags().IntVar(&opts.MaxHops, "max-hops", network.DefaultMaxHops, "traversal step quota")

	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runPath(ctx context.Context, opts *PathOptions, benchFile string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	if opts.MaxHops < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--max-hops must be positive, got %d", opts.MaxHops))
	}

	bench, err := loadBench(formatter, benchFile)
	if err != nil {
		return err
	}
	s, err := openSession(ctx, formatter, bench, opts.Journal, network.WithMaxHops(opts.MaxHops))
	if err != nil {
		return err
	}
	defer s.Close()

	res, searchErr := s.reg.Search(opts.From, opts.To)
	if s.journal != nil {
		if err := s.journal.RecordSearch(ctx, s.reg.Context(), opts.From, opts.To, res, searchErr); err != nil {
			return formatter.Fail(ExitCommandError, "failed to journal path query", err)
		}
	}
	if searchErr != nil {
		return formatter.Fail(ExitFailure, fmt.Sprintf("no path from %s to %s", opts.From, opts.To), searchErr)
	}

	if opts.Format == "json" {
		result := PathResult{
			Bench:      bench.Name,
			Context:    s.reg.Context(),
			From:       res.From,
			To:         res.To,
			Components: res.Names(),
			Hops:       res.Hops,
		}
		if opts.Tree || opts.Verbose {
			result.Branches = res.Branches
		}
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	if opts.Tree {
		fmt.Fprint(w, res.Tree())
		return nil
	}
	names := res.Names()
	if len(names) == 0 {
		fmt.Fprintf(w, "%s and %s are the same node\n", res.From, res.To)
		return nil
	}
	fmt.Fprintln(w, strings.Join(names, " -> "))
	if opts.Verbose {
		fmt.Fprintf(w, "%d components, %d hops, context %s\n", len(names), res.Hops, s.reg.Context())
	}
	return nil
}
