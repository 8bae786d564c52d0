package common

import (
	"errors"
	"fmt"
)

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Workflow errors
	ErrInvalidTransition = errors.New("record is not pending")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	// Validation errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

// ValidationError marks invalid input to a mutation. Surfaced as 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError creates a ValidationError with a message
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps database failures (connectivity, constraint
// violations). The store does not retry; callers may retry the whole
// operation.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

// ConfigurationError means a subsystem has no usable configuration
// (e.g. zero mail providers). Never retried.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

// DeliveryExhaustedError means every provider and the local sink failed.
// Carries the last real provider error.
type DeliveryExhaustedError struct {
	LastErr error
}

func (e *DeliveryExhaustedError) Error() string {
	return fmt.Sprintf("delivery exhausted: %v", e.LastErr)
}

func (e *DeliveryExhaustedError) Unwrap() error { return e.LastErr }
