package harness

import (
	"github.com/roach88/lightpath/internal/journal"
	"github.com/roach88/lightpath/internal/network"
)

// StepResult records what one step did.
type StepResult struct {
	Index  int    `json:"index"`
	Action string `json:"action"`

	// Subject describes the step's arguments, e.g. "n_L1 -> n_M2_out".
	Subject string `json:"subject"`

	// Path is set for successful find_path steps.
	Path []string `json:"path,omitempty"`

	// Error is the error code the step failed with, if any.
	Error network.ErrorCode `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation matched.
	Pass bool `json:"pass"`

	// Errors contains expectation failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Context is the registry's context token.
	Context string `json:"context"`

	Steps []StepResult `json:"steps"`

	// Events are the registry change events, read back from the journal.
	Events []network.Event `json:"events"`

	// Paths are the journaled path queries.
	Paths []journal.PathRecord `json:"paths"`

	// Dump is the final DumpInfo listing.
	Dump string `json:"dump"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
		Steps:  []StepResult{},
	}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
