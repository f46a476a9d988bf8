// Package errors defines the client-facing error taxonomy of the API.
// Every expected ("operational") failure is an AppError carrying the HTTP
// status and a stable business code; anything else is treated as an internal
// defect and rendered as a generic 500 by the delivery layer.
package errors

import (
	"net/http"

	"catalog/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails returns a copy of the error carrying detailed information
// intended for the client (e.g. joined validation violations).
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Validation errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"input validation failed",
		"",
	)

	// Authentication errors, subtyped by cause so the gate can report
	// missing vs expired vs invalid distinctly.
	ErrTokenMissing = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_MISSING",
		"authorization token is missing or malformed",
		"",
	)

	ErrTokenExpired = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
		"authorization token has expired",
		"",
	)

	ErrTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_INVALID",
		"authorization token is invalid",
		"",
	)

	// ErrInvalidCredentials deliberately carries the same message for an
	// unknown email and a wrong password to resist account enumeration.
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"invalid email or password",
		"",
	)

	ErrAccountInactive = NewBaseError(
		http.StatusUnauthorized,
		"ACCOUNT_INACTIVE",
		"account has been deactivated",
		"",
	)

	ErrRefreshTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_INVALID",
		"refresh token is invalid or no longer active",
		"",
	)

	// Authorization errors
	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"insufficient permissions for this operation",
		"",
	)

	ErrSelfAction = NewBaseError(
		http.StatusForbidden,
		"SELF_ACTION_BLOCKED",
		"administrators cannot perform this action on their own account",
		"",
	)

	// Not-found errors
	ErrAccountNotFound = NewBaseError(
		http.StatusNotFound,
		"ACCOUNT_NOT_FOUND",
		"account not found",
		"",
	)

	ErrProductNotFound = NewBaseError(
		http.StatusNotFound,
		"PRODUCT_NOT_FOUND",
		"product not found",
		"",
	)

	// Conflict errors, raised when the store reports a duplicate key.
	ErrEmailTaken = NewBaseError(
		http.StatusConflict,
		"EMAIL_TAKEN",
		"an account with this email already exists",
		"",
	)

	ErrSKUTaken = NewBaseError(
		http.StatusConflict,
		"SKU_TAKEN",
		"a product with this SKU already exists",
		"",
	)

	// Password errors
	ErrPasswordStrength = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_STRENGTH",
		"password does not meet the strength requirements",
		"",
	)

	ErrPasswordMismatch = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_MISMATCH",
		"current password is incorrect",
		"",
	)
)

// NewDatabaseError wraps an unexpected store failure. The cause stays attached
// for internal logging while the client only ever sees the generic message.
func NewDatabaseError(cause error, message string) error {
	base := NewBaseError(
		http.StatusInternalServerError,
		"DATABASE_ERROR",
		"internal server error",
		"",
	)

	return errors.Wrap(errors.Join(base, cause), message)
}
