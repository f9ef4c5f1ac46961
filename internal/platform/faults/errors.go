// Package faults classifies infrastructure failures raised by validation collaborators.
//
// Validation outcomes never travel through this package; they are diagnostics.
// Anything wrapped here aborts the whole validation pass.
package faults

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes infrastructure failure semantics.
type ErrorCode string

const (
	CodeNotFound     ErrorCode = "not_found"
	CodeUnavailable  ErrorCode = "unavailable"
	CodeRetryable    ErrorCode = "retryable"
	CodeInvalidState ErrorCode = "invalid_state"
	CodeInternal     ErrorCode = "internal"
)

// Error is the canonical fault wrapper.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a fault with explicit code + operation.
func New(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates an existing error with fault semantics.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(code, op, err.Error(), err)
}

// IsCode checks whether err (or wrapped err) carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var fe *Error
	if !errors.As(err, &fe) {
		return false
	}
	return fe.Code == code
}

// CodeOf extracts the fault code when available.
func CodeOf(err error) ErrorCode {
	var fe *Error
	if !errors.As(err, &fe) {
		return ""
	}
	return fe.Code
}

// Retryable reports whether re-running the whole pass may succeed.
func Retryable(err error) bool {
	switch CodeOf(err) {
	case CodeRetryable, CodeUnavailable:
		return true
	default:
		return false
	}
}
