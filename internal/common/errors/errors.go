// internal/common/errors/errors.go
// Package errors provides the tagged error taxonomy shared by every layer.
// Storage and transport adapters translate their provider-specific failures
// into one of these kinds so the rest of the service never inspects driver
// error codes directly.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies an error for boundary handling.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindDelivery   Kind = "DELIVERY"
	KindInternal   Kind = "INTERNAL"
)

// Error is a structured application error.
type Error struct {
	Kind      Kind                   `json:"kind"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// ==========================
// Constructors
// ==========================

func NewValidationError(message, details string) *Error {
	return &Error{
		Kind:      KindValidation,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotFoundError(resource, id string) *Error {
	return &Error{
		Kind:      KindNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   id,
		Timestamp: time.Now().UTC(),
	}
}

func NewConflictError(message, details string) *Error {
	return &Error{
		Kind:      KindConflict,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeliveryError reports a failed outbound delivery to an external service.
func NewDeliveryError(target string, err error) *Error {
	return &Error{
		Kind:      KindDelivery,
		Message:   fmt.Sprintf("delivery to %s failed", target),
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewInternalError(message string, err error) *Error {
	e := &Error{
		Kind:      KindInternal,
		Message:   message,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// ==========================
// Inspection helpers
// ==========================

// KindOf returns the Kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// As and Is re-export the stdlib helpers so callers don't need two imports.
func As(err error, target interface{}) bool { return errors.As(err, target) }
func Is(err, target error) bool             { return errors.Is(err, target) }

func IsNotFound(err error) bool   { return IsKind(err, KindNotFound) }
func IsValidation(err error) bool { return IsKind(err, KindValidation) }
func IsConflict(err error) bool   { return IsKind(err, KindConflict) }
func IsDelivery(err error) bool   { return IsKind(err, KindDelivery) }
