// Package apperror defines the closed set of application error variants and
// their mapping to HTTP status codes. Resolvers and repositories return these;
// the GraphQL gateway is the single point of translation to HTTP responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an application error.
type ErrorType int

const (
	// UnknownError is for unspecified errors.
	UnknownError ErrorType = iota
	// ValidationError represents an input validation failure (422).
	ValidationError
	// AuthError represents an authentication failure (401).
	AuthError
	// ConflictError represents a uniqueness conflict, e.g. a duplicate email (409).
	ConflictError
	// NotFoundError represents a missing resource (404).
	NotFoundError
	// DatabaseError represents an error originating from the document store (500).
	DatabaseError
	// ConfigError represents an error in application configuration (500).
	ConfigError
	// InternalError represents a generic internal server error (500).
	InternalError
)

// FieldMessage is a single per-field validation message, e.g. {"message": "email is invalid"}.
type FieldMessage struct {
	Message string `json:"message"`
}

// AppError is the application's error type. Data carries per-field validation
// messages and is nil for every other variant. Err wraps an underlying cause.
type AppError struct {
	Type    ErrorType
	Message string
	Data    []FieldMessage
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error, supporting errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for the error variant.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError:
		return http.StatusUnprocessableEntity
	case AuthError:
		return http.StatusUnauthorized
	case ConflictError:
		return http.StatusConflict
	case NotFoundError:
		return http.StatusNotFound
	case DatabaseError, ConfigError, InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates an AppError with an explicit type.
func NewAppError(errType ErrorType, message string, underlying error) *AppError {
	return &AppError{Type: errType, Message: message, Err: underlying}
}

// NewValidationError creates a 422 error carrying the collected field messages.
func NewValidationError(message string, data []FieldMessage) *AppError {
	return &AppError{Type: ValidationError, Message: message, Data: data}
}

// NewAuthError creates a 401 error.
func NewAuthError(message string, underlying error) *AppError {
	return NewAppError(AuthError, message, underlying)
}

// NewConflictError creates a 409 error.
func NewConflictError(message string, underlying error) *AppError {
	return NewAppError(ConflictError, message, underlying)
}

// NewNotFoundError creates a 404 error.
func NewNotFoundError(message string, underlying error) *AppError {
	return NewAppError(NotFoundError, message, underlying)
}

// NewDatabaseError creates a 500 error for storage failures.
func NewDatabaseError(message string, underlying error) *AppError {
	return NewAppError(DatabaseError, message, underlying)
}

// NewConfigError creates a 500 error for configuration failures.
func NewConfigError(message string, underlying error) *AppError {
	return NewAppError(ConfigError, message, underlying)
}

// NewInternalError creates a generic 500 error.
func NewInternalError(message string, underlying error) *AppError {
	return NewAppError(InternalError, message, underlying)
}

// ErrorResponse is the HTTP error envelope: {"message": ..., "data": [...]}.
// Data is omitted unless the error carries field messages.
type ErrorResponse struct {
	Message string         `json:"message"`
	Data    []FieldMessage `json:"data,omitempty"`
}

// ToResponse converts an AppError to its client-facing envelope. The wrapped
// underlying error is intentionally excluded.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Message: e.Message, Data: e.Data}
}

// FromError extracts an *AppError from anywhere in err's chain.
func FromError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ValidationError
}

// IsAuthError reports whether err is an AuthError.
func IsAuthError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == AuthError
}

// IsConflictError reports whether err is a ConflictError.
func IsConflictError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ConflictError
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}
