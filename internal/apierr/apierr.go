// Package apierr defines the API error taxonomy. Every failure a handler can
// surface maps to exactly one of these values (or a copy with a custom
// message), so clients always see {error:true, message, code} with a stable
// code and status.
package apierr

import (
	"context"
	"errors"
	"net/http"
)

// APIError is a client-visible error with a machine-readable code.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Is matches errors by code, so a WithMessage copy still satisfies
// errors.Is against its sentinel.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy of the error carrying a custom message.
func (e *APIError) WithMessage(message string) *APIError {
	return &APIError{Code: e.Code, Message: message, Status: e.Status}
}

// Auth failures. Client-facing messages stay generic: login never reveals
// which of email/password was wrong, and every token failure reads the same
// even though the code distinguishes the cause for logs.
var (
	ErrAuthFailed = &APIError{
		Code:    "auth_failed",
		Message: "Invalid credentials",
		Status:  http.StatusUnauthorized,
	}
	ErrMissingAuthHeader = &APIError{
		Code:    "missing_auth_header",
		Message: "Authorization required",
		Status:  http.StatusUnauthorized,
	}
	ErrTokenMalformed = &APIError{
		Code:    "malformed",
		Message: "Invalid or expired session",
		Status:  http.StatusUnauthorized,
	}
	ErrInvalidSignature = &APIError{
		Code:    "invalid_signature",
		Message: "Invalid or expired session",
		Status:  http.StatusUnauthorized,
	}
	ErrTokenExpired = &APIError{
		Code:    "expired",
		Message: "Invalid or expired session",
		Status:  http.StatusUnauthorized,
	}
	ErrTokenRevoked = &APIError{
		Code:    "revoked",
		Message: "Invalid or expired session",
		Status:  http.StatusUnauthorized,
	}
	ErrUserInactive = &APIError{
		Code:    "user_inactive",
		Message: "Invalid or expired session",
		Status:  http.StatusUnauthorized,
	}
	ErrForbidden = &APIError{
		Code:    "forbidden",
		Message: "Admin access required",
		Status:  http.StatusForbidden,
	}
)

// Request and store failures.
var (
	ErrNotFound = &APIError{
		Code:    "not_found",
		Message: "Resource not found",
		Status:  http.StatusNotFound,
	}
	ErrValidationFailed = &APIError{
		Code:    "validation_failed",
		Message: "Invalid request",
		Status:  http.StatusBadRequest,
	}
	ErrNoValidFields = &APIError{
		Code:    "no_valid_fields",
		Message: "No recognized fields to update",
		Status:  http.StatusBadRequest,
	}
	ErrConflict = &APIError{
		Code:    "conflict",
		Message: "Resource conflicts with an existing one",
		Status:  http.StatusConflict,
	}
	ErrRateLimited = &APIError{
		Code:    "rate_limited",
		Message: "Too many requests. Please try again later.",
		Status:  http.StatusTooManyRequests,
	}
	ErrUpstreamUnavailable = &APIError{
		Code:    "upstream_unavailable",
		Message: "Service temporarily unavailable",
		Status:  http.StatusServiceUnavailable,
	}
	ErrInternal = &APIError{
		Code:    "internal_error",
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
	}
)

// AsAPIError converts any error into an *APIError. Store timeouts and
// cancellations become 503; anything unrecognized becomes a generic 500 so
// raw driver errors never reach the client.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrUpstreamUnavailable
	}
	return ErrInternal
}
