// Package errors provides structured error types for bpserial.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the library packages
//   - Machine-readable error codes shared with document diagnostics
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The document codes mirror the serializer's failure taxonomy:
//   - MALFORMED_JSON, MALFORMED_TYPE: syntactic failures
//   - MISSING_REQUIRED_FIELD, UNRESOLVED_REFERENCE: node-level problems
//   - DUPLICATE_IDENTITY, DANGLING_LINK: structural integrity problems
//   - VERSION_MISMATCH: serializer version skew
//   - IO_FAILURE: file could not be read or written
//
// Codes prefixed with INVALID_ and INTERNAL_ cover input validation and
// unexpected failures outside the document itself.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedType, "unknown container %q", name)
//	if errors.Is(err, errors.ErrCodeMalformedType) {
//	    // report as a malformed-type diagnostic
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Document errors
	ErrCodeMalformedJSON   Code = "MALFORMED_JSON"
	ErrCodeMalformedType   Code = "MALFORMED_TYPE"
	ErrCodeMissingField    Code = "MISSING_REQUIRED_FIELD"
	ErrCodeUnresolved      Code = "UNRESOLVED_REFERENCE"
	ErrCodeDuplicate       Code = "DUPLICATE_IDENTITY"
	ErrCodeDanglingLink    Code = "DANGLING_LINK"
	ErrCodeVersionMismatch Code = "VERSION_MISMATCH"

	// I/O errors (CLI layer)
	ErrCodeIO Code = "IO_FAILURE"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"
	ErrCodeInvalidKey   Code = "INVALID_KEY"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Tag returns the lowercase taxonomy tag for the code (e.g. "dangling-link").
func (c Code) Tag() string {
	b := []byte(c)
	for i, ch := range b {
		switch {
		case ch == '_':
			b[i] = '-'
		case ch >= 'A' && ch <= 'Z':
			b[i] = ch + ('a' - 'A')
		}
	}
	return string(b)
}

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
