package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lightpath/internal/catalog"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Bench      string                    `json:"bench,omitempty"`
	Valid      bool                      `json:"valid"`
	Components int                       `json:"components"`
	Errors     []catalog.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <bench-file>",
		Short: "Validate a bench without building it",
		Long: `Validate a bench definition (CUE, HCL, YAML or JSON) against the
registration rules without building a registry.

Reports every problem found rather than stopping at the first: duplicate
names, unknown kinds, port counts that do not match the kind, nodes named
by more than two ports, detectors and beam parameters on undeclared nodes.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, benchFile string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	bench, err := catalog.LoadFile(benchFile)
	if err != nil {
		exit := ExitFailure
		switch ErrorCode(err) {
		case catalog.ErrCodeNotFound, catalog.ErrCodeUnsupportedFormat:
			exit = ExitCommandError
		}
		return formatter.Fail(exit, "failed to load bench", err)
	}

	result := ValidationResult{
		Bench:      bench.Name,
		Components: len(bench.Components),
		Errors:     catalog.Validate(bench),
	}
	result.Valid = len(result.Errors) == 0

	if opts.Format == "json" {
		if result.Valid {
			return formatter.Success(result)
		}
		_ = formatter.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    result.Errors[0].Code,
				Message: fmt.Sprintf("%d validation error(s)", len(result.Errors)),
			},
		})
		return reported(NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(result.Errors))))
	}

	w := cmd.OutOrStdout()
	if result.Valid {
		fmt.Fprintf(w, "✓ bench %s valid (%d components)\n", bench.Name, result.Components)
		return nil
	}
	fmt.Fprintf(w, "✗ bench %s has %d error(s):\n", bench.Name, len(result.Errors))
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  %s\n", e.Error())
	}
	return reported(NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(result.Errors))))
}
