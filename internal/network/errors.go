package network

import (
	"errors"
	"fmt"
)

// Error represents a violated registry or traversal precondition.
//
// Errors are raised at the point of violation and never retried. A failed
// mutation leaves the registry exactly as it was before the call.
//
// Error includes structured fields for diagnostics:
//   - Code identifies the category (see ErrorCode constants)
//   - Node and Component name the graph elements involved, when known
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Node names the node involved, if any.
	Node string

	// Component names the component involved, if any.
	Component string
}

// ErrorCode categorizes registry and traversal errors.
type ErrorCode string

const (
	// ErrCodeDuplicateRegistration indicates a component was registered twice.
	ErrCodeDuplicateRegistration ErrorCode = "DUPLICATE_REGISTRATION"

	// ErrCodeAlreadyConnected indicates a node already has two endpoints,
	// or the component already occupies the target node.
	ErrCodeAlreadyConnected ErrorCode = "ALREADY_CONNECTED"

	// ErrCodeNotAttached indicates a replace or detach on an attachment
	// that does not exist.
	ErrCodeNotAttached ErrorCode = "NOT_ATTACHED"

	// ErrCodeRemovalBlocked indicates node removal while still connected
	// or observed.
	ErrCodeRemovalBlocked ErrorCode = "REMOVAL_BLOCKED"

	// ErrCodeUnknownNode indicates a node name not present in the registry.
	ErrCodeUnknownNode ErrorCode = "UNKNOWN_NODE"

	// ErrCodePathNotFound indicates no light path joins two known nodes.
	ErrCodePathNotFound ErrorCode = "PATH_NOT_FOUND"

	// ErrCodeInvalidComponentType indicates a component whose role is
	// missing or inconsistent with its ports.
	ErrCodeInvalidComponentType ErrorCode = "INVALID_COMPONENT_TYPE"

	// ErrCodeCyclicTopology indicates the only continuations of a search
	// loop back onto themselves.
	ErrCodeCyclicTopology ErrorCode = "CYCLIC_TOPOLOGY"

	// ErrCodeHopLimitExceeded indicates a search exceeded the hop quota.
	ErrCodeHopLimitExceeded ErrorCode = "HOP_LIMIT_EXCEEDED"

	// ErrCodeInvalidName indicates an empty or reserved name.
	ErrCodeInvalidName ErrorCode = "INVALID_NAME"

	// ErrCodeForeignComponent indicates a component built by another registry.
	ErrCodeForeignComponent ErrorCode = "FOREIGN_COMPONENT"
)

// Sentinels for errors.Is. An *Error matches a sentinel when the codes agree.
var (
	ErrDuplicateRegistration = &Error{Code: ErrCodeDuplicateRegistration}
	ErrAlreadyConnected      = &Error{Code: ErrCodeAlreadyConnected}
	ErrNotAttached           = &Error{Code: ErrCodeNotAttached}
	ErrRemovalBlocked        = &Error{Code: ErrCodeRemovalBlocked}
	ErrUnknownNode           = &Error{Code: ErrCodeUnknownNode}
	ErrPathNotFound          = &Error{Code: ErrCodePathNotFound}
	ErrInvalidComponentType  = &Error{Code: ErrCodeInvalidComponentType}
	ErrCyclicTopology        = &Error{Code: ErrCodeCyclicTopology}
	ErrHopLimitExceeded      = &Error{Code: ErrCodeHopLimitExceeded}
	ErrInvalidName           = &Error{Code: ErrCodeInvalidName}
	ErrForeignComponent      = &Error{Code: ErrCodeForeignComponent}
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	switch {
	case e.Node != "" && e.Component != "":
		return fmt.Sprintf("%s: %s (node=%s, component=%s)", e.Code, msg, e.Node, e.Component)
	case e.Node != "":
		return fmt.Sprintf("%s: %s (node=%s)", e.Code, msg, e.Node)
	case e.Component != "":
		return fmt.Sprintf("%s: %s (component=%s)", e.Code, msg, e.Component)
	default:
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the ErrorCode of err, or "" if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsPathNotFound returns true if err is a PATH_NOT_FOUND error.
func IsPathNotFound(err error) bool {
	return CodeOf(err) == ErrCodePathNotFound
}

// IsUnknownNode returns true if err is an UNKNOWN_NODE error.
func IsUnknownNode(err error) bool {
	return CodeOf(err) == ErrCodeUnknownNode
}

// IsCyclicTopology returns true if err is a CYCLIC_TOPOLOGY error.
func IsCyclicTopology(err error) bool {
	return CodeOf(err) == ErrCodeCyclicTopology
}

// IsForeignComponent returns true if err is a FOREIGN_COMPONENT error.
func IsForeignComponent(err error) bool {
	return CodeOf(err) == ErrCodeForeignComponent
}

func newError(code ErrorCode, node, component, format string, args ...any) *Error {
	return &Error{
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
		Node:      node,
		Component: component,
	}
}
