// ABOUTME: Custom error types for the page publishing core
// ABOUTME: Provides structured errors for better error handling and API responses

package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// SaveError represents a failed write to the page store. Saves are never
// retried automatically; the error is surfaced to whoever asked for the save.
type SaveError struct {
	PageID string
	Err    error
}

// Error implements the error interface
func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to save page %s: %v", e.PageID, e.Err)
}

// Unwrap exposes the underlying store error
func (e *SaveError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsSave checks if an error is a SaveError
func IsSave(err error) bool {
	var saveErr *SaveError
	return errors.As(err, &saveErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
