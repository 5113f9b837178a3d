// Package apperror defines a centralized system for application-specific errors.
// Every handler in the API funnels its failures through an *AppError so that the
// HTTP status code and the JSON body are decided in exactly one place.
package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/user/movievault-go/logutil"
)

// ErrorType categorizes application errors. Each type maps onto one HTTP status.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the database
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// AuthError represents an authentication error (missing, invalid or expired token)
	AuthError
	// PermissionDeniedError represents an authenticated caller touching somebody else's resource.
	// The movie API answers these with 400, not 403, because existing clients depend on it.
	PermissionDeniedError
	// NotFoundError represents a resource not found error
	NotFoundError
	// ValidationError represents an input validation error
	ValidationError
	// BadRequestError represents a generic bad request
	BadRequestError
	// InternalError represents a generic internal server error
	InternalError
	// ConflictError represents a conflict, e.g., resource already exists
	ConflictError
)

// AppError is a custom error type for the application.
// Message is what the client sees; Err is only for logs and errors.Is/As.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error // Underlying error
}

// Error returns the string representation of the error, satisfying the `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type
func (e *AppError) StatusCode() int {
	switch e.Type {
	case DatabaseError:
		return http.StatusInternalServerError
	case ConfigError:
		return http.StatusInternalServerError
	case AuthError:
		return http.StatusUnauthorized
	case PermissionDeniedError:
		return http.StatusBadRequest
	case NotFoundError:
		// The original clients expect 400 for unknown movies, genres, directors and users.
		return http.StatusBadRequest
	case ValidationError:
		return http.StatusUnprocessableEntity
	case BadRequestError:
		return http.StatusBadRequest
	case InternalError:
		return http.StatusInternalServerError
	case ConflictError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsServerError reports whether the error should be treated as a 5xx.
// Server errors never expose their Message verbatim if it could carry internals; see ToResponse.
func (e *AppError) IsServerError() bool {
	return e.StatusCode() >= http.StatusInternalServerError
}

// NewAppError creates a new AppError. This is a generic constructor.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewAuthError creates a new AuthError (for authentication issues)
func NewAuthError(message string, underlyingError error) *AppError {
	return NewAppError(AuthError, message, underlyingError)
}

// NewPermissionDeniedError creates a new PermissionDeniedError (for authorization issues)
func NewPermissionDeniedError(message string, underlyingError error) *AppError {
	return NewAppError(PermissionDeniedError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewValidationError creates a new ValidationError
func NewValidationError(message string, underlyingError error) *AppError {
	return NewAppError(ValidationError, message, underlyingError)
}

// NewBadRequestError creates a new BadRequestError
func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// NewConflictError creates a new ConflictError
func NewConflictError(message string, underlyingError error) *AppError {
	return NewAppError(ConflictError, message, underlyingError)
}

// ErrorResponse represents a generic error response payload for API clients.
type ErrorResponse struct {
	Error string `json:"error" example:"A description of the error"`
}

// ToResponse converts an AppError to an ErrorResponse suitable for API responses.
// Only the user-facing Message is included, never the wrapped Err.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// FromError attempts to convert a generic error to an *AppError.
// Wrapped AppErrors are found too.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsAuthError checks if an error is an AuthError (authentication problem)
func IsAuthError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == AuthError
}

// IsPermissionDenied checks if an error is a PermissionDeniedError (authorization problem)
func IsPermissionDenied(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == PermissionDeniedError
}

// WriteJSON serializes data to JSON and writes it with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil { // Avoid writing nil, which can result in "null" response body
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteError converts any error into a standardized ErrorResponse.
// Plain errors become a generic 500 so their text never reaches the client.
func WriteError(w http.ResponseWriter, err error) {
	appErr, ok := FromError(err)
	if !ok {
		appErr = NewInternalError("an unexpected error occurred", err)
	}
	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}

// WriteRequestError is WriteError for handlers: 5xx errors are logged with the
// request's logger before the generic body is written. Rejected credentials and
// denied permissions are logged at lower levels; other client errors are not logged.
func WriteRequestError(w http.ResponseWriter, r *http.Request, err error) {
	log := logutil.GetOrDefault(r.Context())
	appErr, ok := FromError(err)
	switch {
	case !ok || appErr.IsServerError():
		log.Error().Err(err).Str("http.path", r.URL.Path).Msg("request failed")
	case IsPermissionDenied(err):
		log.Info().Str("http.path", r.URL.Path).Msg("permission denied")
	case IsAuthError(err):
		log.Debug().Str("http.path", r.URL.Path).Str("error", appErr.Message).Msg("request unauthenticated")
	}
	WriteError(w, err)
}
