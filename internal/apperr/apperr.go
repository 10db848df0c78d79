// Package apperr defines the wire error shape used by the API:
// every error body is {"message": ..., "cause": ...}.
package apperr

import "net/http"

// Error is the JSON error model returned by all endpoints.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Cause   string `json:"cause"`
}

func (e *Error) Error() string { return e.Message }

// GetStatus implements huma.StatusError.
func (e *Error) GetStatus() int { return e.Status }

// Well-known cause identifiers.
const (
	CauseAuthRequired       = "AUTHENTICATION_REQUIRED"
	CausePermissionRequired = "PERMISSION_REQUIRED"
	CauseValidation         = "VALIDATION_FAILED"
	CauseNotFound           = "NOT_FOUND"
	CauseConflict           = "CONFLICT"
	CauseInternal           = "INTERNAL"
)

// New builds an Error with an explicit status and cause.
func New(status int, message, cause string) *Error {
	return &Error{Status: status, Message: message, Cause: cause}
}

// AuthRequired is the fixed 401 returned before any domain logic runs.
func AuthRequired() *Error {
	return New(http.StatusUnauthorized, "Authentication required", CauseAuthRequired)
}

// PermissionRequired is the fixed 403 for an authenticated caller lacking a slug.
func PermissionRequired() *Error {
	return New(http.StatusForbidden, "Permission required", CausePermissionRequired)
}

// NotFound reports a missing entity.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, CauseNotFound)
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *Error {
	return New(http.StatusConflict, message, CauseConflict)
}

// ValidationError is the 422 body with per-field details attached.
type ValidationError struct {
	Status  int          `json:"-"`
	Message string       `json:"message"`
	Cause   string       `json:"cause"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *ValidationError) Error() string { return e.Message }

// GetStatus implements huma.StatusError.
func (e *ValidationError) GetStatus() int { return e.Status }

// FieldError names one malformed or missing field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewValidation builds a 422 carrying all accumulated field errors.
func NewValidation(message string, fields []FieldError) *ValidationError {
	return &ValidationError{
		Status:  http.StatusUnprocessableEntity,
		Message: message,
		Cause:   CauseValidation,
		Errors:  fields,
	}
}
