package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for neorest errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Transport error codes
const (
	TRANSPORT_REQUEST_FAILED ErrorCode = "TRANSPORT_REQUEST_FAILED"
	TRANSPORT_BAD_RESPONSE   ErrorCode = "TRANSPORT_BAD_RESPONSE"
)

// Batch error codes
const (
	BATCH_CONSTRUCTION         ErrorCode = "BATCH_CONSTRUCTION"
	BATCH_FINISHED             ErrorCode = "BATCH_FINISHED"
	BATCH_UNRESOLVED_REFERENCE ErrorCode = "BATCH_UNRESOLVED_REFERENCE"
	BATCH_FAILED               ErrorCode = "BATCH_FAILED"
)

// Remote condition codes resolved from server exception kinds
const (
	BATCH_UNIQUENESS_VIOLATION ErrorCode = "BATCH_UNIQUENESS_VIOLATION"
	BATCH_CONSTRAINT_VIOLATION ErrorCode = "BATCH_CONSTRAINT_VIOLATION"
	BATCH_SYNTAX_ERROR         ErrorCode = "BATCH_SYNTAX_ERROR"
	BATCH_NOT_FOUND            ErrorCode = "BATCH_NOT_FOUND"
)

// Hydration error codes
const (
	HYDRATE_BAD_SHAPE ErrorCode = "HYDRATE_BAD_SHAPE"
)

// Related-set error codes
const (
	RELSET_NOT_LOADED      ErrorCode = "RELSET_NOT_LOADED"
	RELSET_UNBOUND_SUBJECT ErrorCode = "RELSET_UNBOUND_SUBJECT"
)

// Error represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type Error struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
// This enables using errors.Is() and errors.As() with wrapped errors.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is an Error with the same Code.
func (e *Error) Is(target error) bool {
	var restErr *Error
	if errors.As(target, &restErr) {
		return e.Code == restErr.Code
	}
	return false
}

// NewError creates a new non-retryable Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     nil,
	}
}

// NewRetryableError creates a new retryable Error with the given code and message.
// Use this for transient errors that may succeed on retry (e.g., network timeouts).
func NewRetryableError(code ErrorCode, message string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     nil,
	}
}

// WrapError creates a new non-retryable Error that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     cause,
	}
}

// IsCode reports whether err carries the given error code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	var restErr *Error
	if errors.As(err, &restErr) {
		return restErr.Code == code
	}
	return false
}
