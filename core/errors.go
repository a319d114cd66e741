package core

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for comparison using errors.Is()
// These are generic errors that can be wrapped with additional context
var (
	// Network errors
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRequestFailed      = errors.New("request failed")

	// Lookup errors
	ErrNotFound         = errors.New("not found")
	ErrCatalogNotLoaded = errors.New("catalog not loaded")

	// Auth errors
	ErrRoleMismatch       = errors.New("account role does not match portal")
	ErrBadCredentials     = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("missing credentials")

	// Input errors
	ErrInvalidInput = errors.New("invalid input")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingConfiguration = errors.New("missing required configuration")

	// Image preload errors
	ErrImageLoadFailed = errors.New("image failed to load")
)

// StorefrontError provides structured error information with context.
// It implements the error interface and supports error wrapping.
type StorefrontError struct {
	Op      string // Operation that failed (e.g., "api.CreateOrder")
	Kind    string // Error kind (e.g., "network", "auth", "validation")
	ID      string // Optional ID of the entity involved
	Message string // Human-readable message, safe to display
	Err     error  // Underlying error for wrapping
}

// Error returns the string representation of the error
func (e *StorefrontError) Error() string {
	if e.Op != "" && e.Err != nil {
		if e.ID != "" {
			return fmt.Sprintf("%s [%s]: %v", e.Op, e.ID, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s error", e.Kind)
}

// Unwrap returns the underlying error for use with errors.Is/As
func (e *StorefrontError) Unwrap() error {
	return e.Err
}

// DisplayMessage returns a bounded, user-displayable message. Every
// failure that reaches a caller must resolve to one of these; raw
// internals are never leaked.
func (e *StorefrontError) DisplayMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return "Something went wrong. Please try again."
}

// NewStorefrontError creates a new StorefrontError
func NewStorefrontError(op, kind string, err error) *StorefrontError {
	return &StorefrontError{
		Op:   op,
		Kind: kind,
		Err:  err,
	}
}

// IsRetryable checks if an error is a transient network or
// availability issue worth retrying or falling back on
func IsRetryable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRequestFailed)
}

// IsNotFound checks if an error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRoleMismatch checks if an error is a wrong-portal login, distinct
// from bad credentials
func IsRoleMismatch(err error) bool {
	return errors.Is(err, ErrRoleMismatch)
}

// IsConfigurationError checks if an error is configuration-related
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrMissingConfiguration)
}
