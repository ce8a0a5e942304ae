package services

import (
	"errors"

	apperrors "github.com/skilltrack/certification-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")

	// Course / enrollment errors
	ErrCourseNotFound     = errors.New("course not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	// Certificate errors
	ErrCertificateNotFound     = errors.New("certificate not found")
	ErrCertificateNotViewable  = errors.New("certificate results not yet available")
	ErrCertificateNotGenerated = errors.New("certificate has not been generated yet")

	// Test publication errors
	ErrTestNotFound = errors.New("test not found")

	// Export errors
	ErrExportFormatUnsupported = errors.New("unsupported export format")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrEnrollmentNotFound) ||
		errors.Is(err, ErrCertificateNotFound) ||
		errors.Is(err, ErrCertificateNotGenerated) ||
		errors.Is(err, ErrTestNotFound)
}

// IsNotViewable checks if error represents a gated-but-existing certificate
func IsNotViewable(err error) bool {
	return errors.Is(err, ErrCertificateNotViewable)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}
