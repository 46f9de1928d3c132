// Package errors provides structured error types for flowlayout.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP server
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - Diagram shape problems: DUPLICATE_NODE, UNKNOWN_PARENT, CONTAINMENT_CYCLE, DANGLING_EDGE
//   - ENGINE_FAILED / NETWORK_ERROR / TIMEOUT: layout engine failures
//   - INTERNAL_ERROR: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateNode, "duplicate node id %q", id)
//	if errors.Is(err, errors.ErrCodeDuplicateNode) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeEngineFailed, origErr, "graphviz layout")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidDiagram Code = "INVALID_DIAGRAM"
	ErrCodeInvalidEngine  Code = "INVALID_ENGINE"

	// Diagram shape errors
	ErrCodeDuplicateNode    Code = "DUPLICATE_NODE"
	ErrCodeUnknownParent    Code = "UNKNOWN_PARENT"
	ErrCodeContainmentCycle Code = "CONTAINMENT_CYCLE"
	ErrCodeDanglingEdge     Code = "DANGLING_EDGE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Engine and network errors
	ErrCodeEngineFailed Code = "ENGINE_FAILED"
	ErrCodeNetwork      Code = "NETWORK_ERROR"
	ErrCodeTimeout      Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Join collects several validation errors into one, keeping the code of the first.
// Returns nil when errs is empty.
func Join(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return &Error{
		Code:    GetCode(errs[0]),
		Message: fmt.Sprintf("%s (and %d more)", UserMessage(errs[0]), len(errs)-1),
		Cause:   errors.Join(errs...),
	}
}

// IsInputError reports whether err rejects the caller's diagram, request or
// configuration, as opposed to a failure while laying it out.
func IsInputError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidDiagram, ErrCodeInvalidEngine,
		ErrCodeDuplicateNode, ErrCodeUnknownParent, ErrCodeContainmentCycle, ErrCodeDanglingEdge,
		ErrCodeFileNotFound:
		return true
	}
	return false
}
