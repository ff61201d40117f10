// File: api/errors.go
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-net.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrNotSupported    = fmt.Errorf("operation not supported on this platform")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrSocketClosed    = fmt.Errorf("socket is closed")
	ErrAddressInvalid  = fmt.Errorf("address is invalid")
	ErrAlreadyExists   = fmt.Errorf("resource already exists")
	ErrNotFound        = fmt.Errorf("resource not found")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeUnsupported
	ErrCodeClosed
	ErrCodeResolve
	ErrCodeInternal
)

// OpError represents a structured error with code and context.
// Transport outcomes use Status instead; OpError is reserved for
// misuse of the API and platform-level failures.
type OpError struct {
	Code    ErrorCode
	Op      string
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s (context: %+v)", e.Op, e.Message, e.Context)
}

// NewOpError creates a new structured error.
func NewOpError(code ErrorCode, op, message string) *OpError {
	return &OpError{
		Code:    code,
		Op:      op,
		Message: message,
	}
}

// WithContext adds context information to the error.
func (e *OpError) WithContext(key string, value any) *OpError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
