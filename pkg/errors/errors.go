// Package errors provides structured error types for shotgrid.
//
// Error codes give the CLI and the HTTP API one vocabulary for failures:
//   - INVALID_*: input validation failures
//   - *_NOT_FOUND: missing edits, files or grouping criteria
//   - STORE_ERROR / CACHE_ERROR: backend failures
//   - INTERNAL_ERROR / UNSUPPORTED: everything else
//
// The layout core never returns errors; degenerate layouts are reported as
// status values. These codes cover the plumbing around it.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidEdit, "shot %q has negative duration", id)
//	if errors.Is(err, errors.ErrCodeInvalidEdit) {
//	    // Handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "load edit %s", id)
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
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidEdit   Code = "INVALID_EDIT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidTag    Code = "INVALID_TAG"

	// Resource not found errors
	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeEditNotFound      Code = "EDIT_NOT_FOUND"
	ErrCodeCriterionNotFound Code = "CRITERION_NOT_FOUND"
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"

	// Backend errors
	ErrCodeStore Code = "STORE_ERROR"
	ErrCodeCache Code = "CACHE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string // shown to users without the code prefix
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns a coded error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap attaches a code and context message to cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether the outermost coded error in err's chain has code.
// Codes further down the chain are not consulted.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost coded error, or
// err.Error() for uncoded errors. The server puts it in response bodies.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsNotFound reports whether err carries any of the not-found codes.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeEditNotFound, ErrCodeCriterionNotFound, ErrCodeFileNotFound:
		return true
	}
	return false
}
