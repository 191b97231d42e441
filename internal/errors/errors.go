// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrEmptyCatalog indicates the topic catalog contains no topics.
	ErrEmptyCatalog = errors.New("catalog contains no topics")

	// ErrNoMessages indicates a topic has an empty message list.
	ErrNoMessages = errors.New("topic has no messages")

	// ErrMissingCredential indicates the chat credential is not configured.
	ErrMissingCredential = errors.New("missing chat credential")

	// ErrMissingChannels indicates the destination channel list is not configured.
	ErrMissingChannels = errors.New("missing destination channel list")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrContextCanceled indicates context was canceled.
	ErrContextCanceled = errors.New("context canceled")
)

// ValidationError represents catalog or configuration validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// DeliveryError represents a per-channel delivery failure with context.
// Delivery errors are recovered locally by the dispatcher and never
// terminate a run.
type DeliveryError struct {
	Channel string
	Reason  string
	Err     error
}

func (e *DeliveryError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("delivery error (channel=%s, reason=%s): %v", e.Channel, e.Reason, e.Err)
	}
	return fmt.Sprintf("delivery error (channel=%s): %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// NewDeliveryError creates a new delivery error.
func NewDeliveryError(channel, reason string, err error) *DeliveryError {
	return &DeliveryError{
		Channel: channel,
		Reason:  reason,
		Err:     err,
	}
}
