package catalog

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/hashicorp/hcl/v2"
)

// Load error codes (E001-E009).
const (
	ErrCodeGeneric           = "E001" // generic/unknown error
	ErrCodeNotFound          = "E002" // bench file not found or unreadable
	ErrCodeUnsupportedFormat = "E003" // unknown file extension
	ErrCodeSyntax            = "E004" // source does not parse
	ErrCodeSchema            = "E005" // source parses but does not match the bench schema
)

// ParseError is a bench loading error with source position, when known.
type ParseError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func (e *ParseError) Error() string {
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", e.File, e.Line, e.Column)
	}
	field := ""
	if e.Field != "" {
		field = e.Field + ": "
	}
	if loc != "" {
		return fmt.Sprintf("%s: %s: %s%s", loc, e.Code, field, e.Message)
	}
	return fmt.Sprintf("%s: %s%s", e.Code, field, e.Message)
}

func errAt(code, field, message string, pos token.Pos) *ParseError {
	e := &ParseError{Code: code, Field: field, Message: message}
	if pos.IsValid() {
		e.File = pos.Filename()
		e.Line = pos.Line()
		e.Column = pos.Column()
	}
	return e
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error, code string) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &ParseError{Code: code, Field: "cue", Message: err.Error()}
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return errAt(code, "cue", first.Error(), positions[0])
	}
	return &ParseError{Code: code, Field: "cue", Message: first.Error()}
}

// formatHCLDiags converts the first error diagnostic into a ParseError.
func formatHCLDiags(diags hcl.Diagnostics, code string) error {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		e := &ParseError{Code: code, Field: "hcl", Message: d.Summary}
		if d.Detail != "" {
			e.Message = d.Summary + ": " + d.Detail
		}
		if d.Subject != nil {
			e.File = d.Subject.Filename
			e.Line = d.Subject.Start.Line
			e.Column = d.Subject.Start.Column
		}
		return e
	}
	return nil
}
