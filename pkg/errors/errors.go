// Package errors provides standardized error definitions for the music platform backend.
package errors

import (
	"fmt"
	"net/http"
)

// Error represents a structured application error.
type Error struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	HTTPStatus int         `json:"-"`
	Details    interface{} `json:"details,omitempty"`
	Err        error       `json:"-"` // Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetails adds details to the error.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// WithError wraps another error.
func (e *Error) WithError(err error) *Error {
	e.Err = err
	return e
}

// New creates a new Error.
func New(code, message string, httpStatus int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an existing error with error code and message.
func Wrap(err error, code, message string, httpStatus int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Common error codes
const (
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeUnauthorized   = "UNAUTHORIZED"

	// Authentication errors
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "TOKEN_INVALID"

	// Resource errors
	ErrCodeSongNotFound    = "SONG_NOT_FOUND"
	ErrCodeUserNotFound    = "USER_NOT_FOUND"
	ErrCodeHistoryNotFound = "HISTORY_NOT_FOUND"

	// Service errors
	ErrCodeDatabaseError = "DATABASE_ERROR"
	ErrCodeCacheError    = "CACHE_ERROR"
)

// Predefined errors
var (
	ErrInternal       = New(ErrCodeInternal, "Internal server error", http.StatusInternalServerError)
	ErrInvalidRequest = New(ErrCodeInvalidRequest, "Invalid request", http.StatusBadRequest)
	ErrNotFound       = New(ErrCodeNotFound, "Resource not found", http.StatusNotFound)
	ErrForbidden      = New(ErrCodeForbidden, "Access forbidden", http.StatusForbidden)
	ErrUnauthorized   = New(ErrCodeUnauthorized, "Unauthorized", http.StatusUnauthorized)

	ErrTokenExpired = New(ErrCodeTokenExpired, "Token has expired", http.StatusUnauthorized)
	ErrTokenInvalid = New(ErrCodeTokenInvalid, "Invalid token", http.StatusUnauthorized)

	ErrSongNotFound    = New(ErrCodeSongNotFound, "Song not found", http.StatusNotFound)
	ErrUserNotFound    = New(ErrCodeUserNotFound, "User not found", http.StatusNotFound)
	ErrHistoryNotFound = New(ErrCodeHistoryNotFound, "History not found", http.StatusNotFound)

	ErrDatabase = New(ErrCodeDatabaseError, "Database error", http.StatusInternalServerError)
	ErrCache    = New(ErrCodeCacheError, "Cache error", http.StatusInternalServerError)
)

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
