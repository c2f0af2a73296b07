package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/phrazzld/tatame-api/internal/api/shared"
	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/phrazzld/tatame-api/internal/domain/quota"
	"github.com/phrazzld/tatame-api/internal/service"
	"github.com/phrazzld/tatame-api/internal/service/auth"
	"github.com/phrazzld/tatame-api/internal/store"
)

// UpgradePath is where quota refusals point the client.
const UpgradePath = "/api/subscription"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Quota refusals are an upsell
	case errors.Is(err, quota.ErrExceeded):
		return http.StatusPaymentRequired

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrNoActor):
		return http.StatusUnauthorized

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrEmptyUserID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrInvalidResetToken):
		return http.StatusBadRequest

	// Not found covers records owned by someone else
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	case store.IsUnavailableError(err):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		vErr     *domain.ValidationError
		quotaErr *quota.ExceededError
	)
	switch {
	case errors.As(err, &quotaErr):
		return fmt.Sprintf("The free plan allows %d %ss. Upgrade to add more.", quotaErr.Limit, quotaErr.Resource)

	case errors.As(err, &vErr):
		return fmt.Sprintf("Invalid %s: %s", vErr.Field, vErr.Reason)

	// Authentication errors
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrNoActor):
		return "Authentication required"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, service.ErrInvalidRefreshToken):
		return "Invalid refresh token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid email or password"

	case errors.Is(err, service.ErrInvalidResetToken):
		return "Invalid or expired reset token"

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidFormat):
		return "Invalid request format"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrEmptyUserID):
		return "Validation error"

	// Not found errors are deliberately generic
	case store.IsNotFoundError(err):
		return "Resource not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case store.IsDuplicateError(err):
		return "Resource already exists"

	case store.IsUnavailableError(err):
		return "Service temporarily unavailable, try again"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the error envelope for err: status from
// MapErrorToStatusCode, message from GetSafeErrorMessage, plus the offending
// field for validation errors and the upsell details for quota refusals.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)

	var opts []shared.ResponseOption
	var (
		vErr     *domain.ValidationError
		quotaErr *quota.ExceededError
	)
	if errors.As(err, &quotaErr) {
		opts = append(opts, shared.WithQuota(string(quotaErr.Resource), quotaErr.Limit, UpgradePath))
	} else if errors.As(err, &vErr) {
		opts = append(opts, shared.WithField(vErr.Field))
	}
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}
