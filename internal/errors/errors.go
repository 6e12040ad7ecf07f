// SPDX-License-Identifier: AGPL-3.0-only

// Package errors defines the error taxonomy shared across the engine.
// Failures inside delivery channels and trigger callbacks are logged and
// degraded, never propagated as panics; only the facade surface returns
// these typed errors to callers.
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an error for callers that need to branch on it.
type Code string

const (
	// CodeInvalidInput indicates malformed caller-supplied parameters.
	CodeInvalidInput Code = "invalid_input"
	// CodeInvalidSchedule indicates a malformed time or an empty/unknown day set.
	CodeInvalidSchedule Code = "invalid_schedule"
	// CodeNotFound indicates a referenced entity does not exist.
	CodeNotFound Code = "not_found"
	// CodeAlreadyExists indicates an id collision.
	CodeAlreadyExists Code = "already_exists"
	// CodeDeliveryFailed indicates a single delivery channel attempt failed.
	CodeDeliveryFailed Code = "delivery_failed"
	// CodeInternal indicates an unexpected internal failure.
	CodeInternal Code = "internal"
)

// Error is the concrete error type carried by every constructor below.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// InvalidInput creates an invalid input error
func InvalidInput(message string) error {
	return &Error{Code: CodeInvalidInput, Message: message}
}

// InvalidSchedule creates an invalid schedule error
func InvalidSchedule(message string) error {
	return &Error{Code: CodeInvalidSchedule, Message: message}
}

// NotFound creates a not found error for the given entity kind and id
func NotFound(kind, id string) error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", kind, id)}
}

// AlreadyExists creates an already exists error for the given entity kind and id
func AlreadyExists(kind, id string) error {
	return &Error{Code: CodeAlreadyExists, Message: fmt.Sprintf("%s %s already exists", kind, id)}
}

// DeliveryFailed wraps a single delivery channel failure
func DeliveryFailed(channel string, cause error) error {
	return &Error{
		Code:    CodeDeliveryFailed,
		Message: fmt.Sprintf("delivery via %s failed: %v", channel, cause),
		cause:   cause,
	}
}

// Internal wraps an unexpected error
func Internal(cause error) error {
	return &Error{Code: CodeInternal, Message: cause.Error(), cause: cause}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsInvalidSchedule reports whether err is an invalid schedule error
func IsInvalidSchedule(err error) bool { return HasCode(err, CodeInvalidSchedule) }

// IsNotFound reports whether err is a not found error
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

// IsInvalidInput reports whether err is an invalid input error
func IsInvalidInput(err error) bool { return HasCode(err, CodeInvalidInput) }
