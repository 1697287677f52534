// Package errors provides structured error types for elemflux.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and CLI
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_* / MISSING_*: Input or configuration validation failures
//   - UNKNOWN_*: References to entities that do not exist in the model
//   - SOLVER_*: Failures reported by the MILP backend
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownReaction, "reaction index %d out of range", idx)
//	if errors.Is(err, errors.ErrCodeUnknownReaction) {
//	    // Handle the bad cut set
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSolver, origErr, "populate failed at size %d", size)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration and input validation errors
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeMissingProperty Code = "MISSING_PROPERTY"
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidModel    Code = "INVALID_MODEL"
	ErrCodeUnknownReaction Code = "UNKNOWN_REACTION"

	// Solver errors
	ErrCodeSolver      Code = "SOLVER_ERROR"
	ErrCodeNoSolution  Code = "NO_SOLUTION"
	ErrCodeUnsupported Code = "UNSUPPORTED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
