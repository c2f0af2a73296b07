package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Validation and quota errors from the domain pass through unchanged
// 3. Store failures are wrapped in a ServiceError that keeps the store sentinel reachable
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password. The two cases are deliberately indistinguishable.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidRefreshToken is returned when a refresh token is malformed,
	// expired, revoked or presented by another user.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrInvalidResetToken is returned when a password reset token is
	// unknown, already used or expired.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")

	// ErrNoActor is returned when an operation runs without an
	// authenticated actor.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrNoActor = errors.New("no authenticated user")
)

// ServiceError is the error type for unexpected failures inside a service
// operation, typically from the store.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
