// Package common defines shared constants and sentinel errors used across
// the service and transport layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation errors. Concrete failures are reported as *ValidationError.
	ErrorValidation = errors.New("validation error")

	// Registration uniqueness errors.
	ErrDuplicateEmail    = errors.New("user with this email already exists")
	ErrDuplicateUsername = errors.New("username is already taken")

	// Login errors. The same value is used for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Auth errors (missing, malformed or rejected token).
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidToken    = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError describes a single rejected input field. The message is
// meant to be shown to the client as is.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap makes errors.Is(err, ErrorValidation) hold for every ValidationError.
func (e *ValidationError) Unwrap() error {
	return ErrorValidation
}
