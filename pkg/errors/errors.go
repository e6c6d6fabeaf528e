// Package errors provides structured error types for lodgrid.
//
// Every failure the generator can report is a configuration problem rather
// than a transient fault, so callers are expected to fix their inputs instead
// of retrying. Codes make the distinction machine-readable across the CLI,
// the HTTP API and library callers.
//
// # Error Codes
//
//   - SUBDIVISION_IMPOSSIBLE: a cell count has no even or border+center layout
//   - GENERATION_NOT_POSSIBLE: a multi-layer build was rejected as a whole
//   - LIST_SIZE_MISMATCH: layers and LOD thresholds differ in length
//   - INVALID_CONFIGURATION: a required input is missing or empty
//   - INVALID_*: other input validation failures
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeSubdivisionImpossible, "cannot subdivide into %d cells", n)
//	if errors.Is(err, errors.ErrCodeSubdivisionImpossible) {
//	    // pick another count
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeGenerationNotPossible, err, "layer %d", k)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Generation errors
	ErrCodeSubdivisionImpossible Code = "SUBDIVISION_IMPOSSIBLE"
	ErrCodeGenerationNotPossible Code = "GENERATION_NOT_POSSIBLE"
	ErrCodeListSizeMismatch      Code = "LIST_SIZE_MISMATCH"
	ErrCodeInvalidConfiguration  Code = "INVALID_CONFIGURATION"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeRateLimited  Code = "RATE_LIMITED"

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

// Is reports whether any *Error in err's chain carries the given code.
// A GENERATION_NOT_POSSIBLE error wrapping a SUBDIVISION_IMPOSSIBLE cause
// therefore matches both codes.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
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

// IsConfiguration reports whether err is one of the generation errors that
// signal bad input. These are never worth retrying.
func IsConfiguration(err error) bool {
	switch GetCode(err) {
	case ErrCodeSubdivisionImpossible, ErrCodeGenerationNotPossible,
		ErrCodeListSizeMismatch, ErrCodeInvalidConfiguration, ErrCodeInvalidInput:
		return true
	}
	return false
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
