package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError_Error(t *testing.T) {
	err := &NotFoundError{
		Resource: "page",
		ID:       "123",
	}
	
	expected := "page not found: 123"
	if err.Error() != expected {
		t.Errorf("NotFoundError.Error() = %v, want %v", err.Error(), expected)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Field:   "content",
		Message: "invalid json",
	}
	
	expected := "validation error on field 'content': invalid json"
	if err.Error() != expected {
		t.Errorf("ValidationError.Error() = %v, want %v", err.Error(), expected)
	}
}

func TestSaveError_Error(t *testing.T) {
	err := &SaveError{
		PageID: "home",
		Err:    errors.New("disk full"),
	}
	
	expected := "failed to save page home: disk full"
	if err.Error() != expected {
		t.Errorf("SaveError.Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIsNotFound_True(t *testing.T) {
	err := &NotFoundError{
		Resource: "page",
		ID:       "abc",
	}
	
	if !IsNotFound(err) {
		t.Error("IsNotFound should return true for NotFoundError")
	}
}

func TestIsNotFound_False(t *testing.T) {
	err := errors.New("some other error")
	
	if IsNotFound(err) {
		t.Error("IsNotFound should return false for non-NotFoundError")
	}
}

func TestIsNotFound_WrappedError(t *testing.T) {
	notFound := &NotFoundError{
		Resource: "page",
		ID:       "123",
	}
	wrapped := fmt.Errorf("failed to get page: %w", notFound)
	
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should return true for wrapped NotFoundError")
	}
}

func TestIsValidation_True(t *testing.T) {
	err := &ValidationError{
		Field:   "page_id",
		Message: "must not be empty",
	}
	
	if !IsValidation(err) {
		t.Error("IsValidation should return true for ValidationError")
	}
}

func TestIsValidation_False(t *testing.T) {
	err := errors.New("some other error")
	
	if IsValidation(err) {
		t.Error("IsValidation should return false for non-ValidationError")
	}
}

func TestIsSave_True(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("store: %w", &SaveError{PageID: "p1", Err: cause})
	
	if !IsSave(err) {
		t.Error("IsSave should return true for wrapped SaveError")
	}
	if !errors.Is(err, cause) {
		t.Error("SaveError should unwrap to its cause")
	}
}

func TestIsSave_False(t *testing.T) {
	err := errors.New("some other error")
	
	if IsSave(err) {
		t.Error("IsSave should return false for non-SaveError")
	}
}

func TestWrapError_PreservesOriginalError(t *testing.T) {
	originalErr := &NotFoundError{Resource: "page", ID: "abc"}
	wrappedErr := WrapError(originalErr, "failed to fetch page")
	
	if wrappedErr == nil {
		t.Fatal("WrapError should not return nil for non-nil error")
	}
	
	// Check error message contains both context and original error
	expectedMsg := "failed to fetch page: page not found: abc"
	if wrappedErr.Error() != expectedMsg {
		t.Errorf("WrapError message = %v, want %v", wrappedErr.Error(), expectedMsg)
	}
	
	// Should still be identifiable as NotFoundError
	if !IsNotFound(wrappedErr) {
		t.Error("Wrapped error should still be identifiable as NotFoundError")
	}
}

func TestWrapError_AddsContextMessage(t *testing.T) {
	originalErr := errors.New("network timeout")
	wrappedErr := WrapError(originalErr, "store call failed")
	
	expected := "store call failed: network timeout"
	if wrappedErr.Error() != expected {
		t.Errorf("WrapError = %v, want %v", wrappedErr.Error(), expected)
	}
}

func TestWrapError_HandlesNilError(t *testing.T) {
	wrappedErr := WrapError(nil, "this should not happen")
	
	if wrappedErr != nil {
		t.Error("WrapError should return nil when wrapping nil error")
	}
}