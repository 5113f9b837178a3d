package auth

import (
	"errors"

	"github.com/user/movievault-go/apperror"
)

// Authentication and authorization failure kinds. They stay distinct inside the
// process for logs, metrics and tests; ToAppError collapses them for clients.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrMissingToken       = errors.New("auth: missing bearer token")
	ErrMalformedToken     = errors.New("auth: malformed token")
	ErrInvalidSignature   = errors.New("auth: invalid token signature")
	ErrExpiredToken       = errors.New("auth: token expired")
	ErrUnknownSubject     = errors.New("auth: token subject not found")
	ErrPermissionDenied   = errors.New("auth: permission denied")
	ErrStoreUnavailable   = errors.New("auth: credential store unavailable")

	// ErrUserNotFound is returned by a CredentialStore when no record matches.
	ErrUserNotFound = errors.New("user not found")
)

// Client facing messages.
const (
	InvalidLoginMessage     = "Invalid login. Please check your Username or Password."
	UnauthorizedMessage     = "Unauthorized"
	PermissionDeniedMessage = "Permission denied."
	ServerErrorMessage      = "Internal server error"
)

// Reason returns a short stable label for err, used as a log field and metric label.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrMissingToken):
		return "missing"
	case errors.Is(err, ErrMalformedToken):
		return "malformed"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrExpiredToken):
		return "expired"
	case errors.Is(err, ErrUnknownSubject):
		return "unknown_subject"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "internal"
	}
}

// ToAppError maps an auth failure onto the HTTP error taxonomy. Every token problem
// becomes the same 401, store failures a generic 500.
func ToAppError(err error) *apperror.AppError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return apperror.NewBadRequestError(InvalidLoginMessage, err)
	case errors.Is(err, ErrMissingToken),
		errors.Is(err, ErrMalformedToken),
		errors.Is(err, ErrInvalidSignature),
		errors.Is(err, ErrExpiredToken),
		errors.Is(err, ErrUnknownSubject):
		return apperror.NewAuthError(UnauthorizedMessage, err)
	case errors.Is(err, ErrPermissionDenied):
		return apperror.NewPermissionDeniedError(PermissionDeniedMessage, err)
	case errors.Is(err, ErrStoreUnavailable):
		return apperror.NewDatabaseError(ServerErrorMessage, err)
	default:
		return apperror.NewInternalError(ServerErrorMessage, err)
	}
}
