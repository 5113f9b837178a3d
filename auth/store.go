package auth

import "context"

// CredentialStore is the persistence the auth core reads from. Implementations
// return ErrUserNotFound when no record matches and any other error when the store
// itself failed; the two must never be confused.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}
