package errors

import (
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("quiz_weight", "must be a non-negative fraction", -0.5)

	if err.Field != "quiz_weight" {
		t.Errorf("Expected field to be 'quiz_weight', got '%s'", err.Field)
	}

	if err.Message != "must be a non-negative fraction" {
		t.Errorf("Unexpected message: '%s'", err.Message)
	}

	expected := "validation error on field 'quiz_weight': must be a non-negative fraction"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	errs = append(errs, *NewValidationError("course_id", "is required", nil))
	expected := "validation failed: course_id is required"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	errs = append(errs, *NewValidationError("format", "must be xlsx or csv", "pdf"))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}
