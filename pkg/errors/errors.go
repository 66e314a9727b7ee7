// Package errors provides structured error types for slidechart.
//
// Every failure raised by the engines, the pipeline, and the tabular readers
// carries a machine-readable [Code] so the CLI and the HTTP API can react to
// the error class without string matching.
//
// # Error Codes
//
//   - CONFIGURATION_ERROR: mutually exclusive or jointly required options were
//     violated (total category vs computed total, missing weight column for a
//     weighted mean, unknown formula).
//   - NOT_FOUND: a referenced category, period, or sheet is not in the data.
//   - INVALID_INPUT: the input table is malformed (missing column, duplicate
//     key, non-numeric value).
//   - UNSUPPORTED: unknown analysis kind or file format.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfiguration, "formula %q is not supported", f)
//	if errors.Is(err, errors.ErrCodeConfiguration) {
//	    // Ask the caller to fix the options
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Caller configuration errors
	ErrCodeConfiguration Code = "CONFIGURATION_ERROR"

	// Referenced data is missing
	ErrCodeNotFound Code = "NOT_FOUND"

	// Input table errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

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

// Configuration reports violated option constraints.
func Configuration(format string, args ...any) *Error {
	return New(ErrCodeConfiguration, format, args...)
}

// NotFound reports a referenced category, period, or sheet that does not exist.
func NotFound(format string, args ...any) *Error {
	return New(ErrCodeNotFound, format, args...)
}

// MissingColumn reports a required column absent from the input table.
// The field name is always part of the message.
func MissingColumn(field, column string) *Error {
	return New(ErrCodeInvalidInput, "%s column %q not found in input", field, column)
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

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeConfiguration, ErrCodeInvalidInput, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
