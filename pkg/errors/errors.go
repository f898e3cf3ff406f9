// Package errors provides structured error types for symtower.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - A clear split between soft-disable reasons and fatal defects
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (model files, options, paths)
//   - UNSUPPORTED_*, ORACLE_*, GENERATOR_*: reasons to switch symmetry
//     handling off for a solve; these are recorded, never surfaced as failures
//   - INTERNAL_*: Logic defects such as a permutation that is not an
//     automorphism of the model
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidModel, "constraint %q references unknown variable %d", name, v)
//	if errors.Is(err, errors.ErrCodeInvalidModel) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeOracle, origErr, "automorphism search failed")
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidModel  Code = "INVALID_MODEL"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Soft-disable reasons
	ErrCodeUnsupportedModel Code = "UNSUPPORTED_MODEL"
	ErrCodeOracle           Code = "ORACLE_FAILURE"
	ErrCodeGeneratorLimit   Code = "GENERATOR_LIMIT"

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

// IsSoftDisable reports whether err carries one of the codes that switch
// symmetry handling off for the rest of a solve instead of failing it.
func IsSoftDisable(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnsupportedModel, ErrCodeOracle, ErrCodeGeneratorLimit:
		return true
	}
	return false
}

// LimitError reports that the automorphism oracle stopped at the configured
// generator cap.
type LimitError struct {
	Limit int // Configured generator cap
	Found int // Generators returned before the cap was hit
}

// Error implements the error interface.
func (e *LimitError) Error() string {
	if e.Found > 0 {
		return fmt.Sprintf("generator limit %d reached after %d generators", e.Limit, e.Found)
	}
	return fmt.Sprintf("generator limit %d reached", e.Limit)
}

// Code returns the error code for this error type.
func (e *LimitError) Code() Code {
	return ErrCodeGeneratorLimit
}
