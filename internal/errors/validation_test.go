package errors

import (
	"testing"
)

func TestValidationError(t *testing.T) {
	// Test NewValidationError
	err := NewValidationError("response_time_ms", "must be at least 0", -5)

	if err.Field != "response_time_ms" {
		t.Errorf("Expected field to be 'response_time_ms', got '%s'", err.Field)
	}

	if err.Message != "must be at least 0" {
		t.Errorf("Expected message to be 'must be at least 0', got '%s'", err.Message)
	}

	if err.Value != -5 {
		t.Errorf("Expected value to be -5, got '%v'", err.Value)
	}

	// Test Error method
	expected := "validation error on field 'response_time_ms': must be at least 0"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	// Test empty ValidationErrors
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	// Test single ValidationError
	errs = append(errs, *NewValidationError("topic", "must be a non-blank topic label", ""))
	expected := "validation failed: topic must be a non-blank topic label"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	// Test multiple ValidationErrors
	errs = append(errs, *NewValidationError("difficulty", "must be between 0 and 1", 1.5))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("session_id", "is required", "required", "")

	if err.Rule != "required" {
		t.Errorf("Expected rule to be 'required', got '%s'", err.Rule)
	}

	if err.Field != "session_id" {
		t.Errorf("Expected field to be 'session_id', got '%s'", err.Field)
	}
}
