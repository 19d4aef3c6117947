// Package apierrors defines the user-facing error family translated to HTTP responses.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an APIError for logging and metrics.
type Kind string

const (
	KindMissingCredential    Kind = "missing_credential"
	KindInvalidCredential    Kind = "invalid_credential"
	KindPrincipalNotFound    Kind = "principal_not_found"
	KindStaleIdentitySession Kind = "stale_identity_session"
	KindEmailUnverified      Kind = "email_unverified"
	KindInsufficientRole     Kind = "insufficient_role"
	KindInvalidLogin         Kind = "invalid_login"
	KindValidation           Kind = "validation"
	KindBadRequest           Kind = "bad_request"
	KindNotFound             Kind = "not_found"
	KindConflict             Kind = "conflict"
)

const (
	msgAuthRequired = "Authentication required. Please log in."
	msgLoginAgain   = "Invalid authentication. Please log in again."
)

// FieldError describes one failed request field.
type FieldError struct {
	Field   string
	Message string
}

// APIError is an error that is safe to show to the client.
type APIError struct {
	Status  int
	Kind    Kind
	Message string
	Fields  []FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// KindOf returns the kind of the first APIError in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// NewErrMissingCredential is returned when no session cookie is present.
func NewErrMissingCredential() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Kind: KindMissingCredential, Message: msgAuthRequired}
}

// NewErrInvalidCredential shares its message with NewErrMissingCredential so the
// two cannot be told apart by the client.
func NewErrInvalidCredential() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Kind: KindInvalidCredential, Message: msgAuthRequired}
}

func NewErrPrincipalNotFound() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Kind: KindPrincipalNotFound, Message: msgAuthRequired}
}

func NewErrStaleIdentitySession() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Kind: KindStaleIdentitySession, Message: msgLoginAgain}
}

func NewErrEmailUnverified() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Kind: KindEmailUnverified, Message: "Email not verified. Please verify your email."}
}

func NewErrInsufficientRole() *APIError {
	return &APIError{Status: http.StatusForbidden, Kind: KindInsufficientRole, Message: "Access forbidden for this account type."}
}

func NewErrInvalidLogin() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Kind: KindInvalidLogin, Message: "Invalid email or password."}
}

func NewErrValidation(fields []FieldError) *APIError {
	return &APIError{Status: http.StatusBadRequest, Kind: KindValidation, Message: "Invalid request parameters", Fields: fields}
}

func NewErrBadRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Kind: KindBadRequest, Message: message}
}

func NewErrNotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Kind: KindNotFound, Message: message}
}

func NewErrConflict(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Kind: KindConflict, Message: message}
}
