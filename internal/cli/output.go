package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/lightpath/internal/catalog"
	"github.com/roach88/lightpath/internal/network"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Domain failure (no path, invalid bench, failed scenarios)
	ExitCommandError = 2 // Command error (missing files, unreadable journal, bad flags)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Reported is set when the error was already written to the command's
	// output, so main does not print it again.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

func reported(e *ExitError) *ExitError {
	e.Reported = true
	return e
}

// IsReported reports whether err is an ExitError already shown to the user.
func IsReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Reported
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	Verbose bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string    `json:"status"`            // "ok" or "error"
	Data    any       `json:"data,omitempty"`    // success payload
	Error   *CLIError `json:"error,omitempty"`   // error details
	Context string    `json:"context,omitempty"` // simulation context token, when one exists
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "PATH_NOT_FOUND", "E002", ...
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format. Text output
// prints data with fmt.Fprintln; commands with structured text output write
// it themselves.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err and returns it as an ExitError with exitCode.
func (f *OutputFormatter) Fail(exitCode int, message string, err error) error {
	_ = f.Error(ErrorCode(err), message+": "+ErrorMessage(err), ErrorDetails(err))
	return reported(WrapExitError(exitCode, message, err))
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// ErrorCode returns the machine-readable code carried by err: a registry
// code such as PATH_NOT_FOUND, or a catalog code such as E004.
func ErrorCode(err error) string {
	if code := network.CodeOf(err); code != "" {
		return string(code)
	}
	var parseErr *catalog.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Code
	}
	var valErr catalog.ValidationError
	if errors.As(err, &valErr) {
		return valErr.Code
	}
	return catalog.ErrCodeGeneric
}

// ErrorMessage returns the most specific message for err.
func ErrorMessage(err error) string {
	var netErr *network.Error
	if errors.As(err, &netErr) {
		return netErr.Message
	}
	return err.Error()
}

// ErrorDetails returns the graph elements a registry error names, or nil.
func ErrorDetails(err error) map[string]string {
	var netErr *network.Error
	if !errors.As(err, &netErr) {
		return nil
	}
	details := map[string]string{}
	if netErr.Node != "" {
		details["node"] = netErr.Node
	}
	if netErr.Component != "" {
		details["component"] = netErr.Component
	}
	if len(details) == 0 {
		return nil
	}
	return details
}
