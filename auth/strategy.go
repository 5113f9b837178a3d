package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Credentials is what a caller presents at login. It is never stored.
type Credentials struct {
	Username string
	Password string
}

// Strategy answers "is this login valid?". LocalStrategy checks a username and
// password against the credential store; other mechanisms can implement the same
// interface without touching token issuance or verification.
type Strategy interface {
	Name() string
	Authenticate(ctx context.Context, creds Credentials) (*User, error)
}

// LocalStrategy authenticates a username/password pair against stored bcrypt hashes.
type LocalStrategy struct {
	store         CredentialStore
	hasher        PasswordHasher
	lookupTimeout time.Duration

	// decoyHash is verified against when the username is unknown, so that path pays
	// for one hash comparison like a wrong password does.
	decoyHash string
}

// NewLocalStrategy wires the store and hasher used to check passwords.
func NewLocalStrategy(store CredentialStore, hasher PasswordHasher, lookupTimeout time.Duration) *LocalStrategy {
	decoy, _ := hasher.Hash("movievault-decoy-password")
	return &LocalStrategy{store: store, hasher: hasher, lookupTimeout: lookupTimeout, decoyHash: decoy}
}

// Name implements Strategy.
func (s *LocalStrategy) Name() string {
	return "local"
}

// Authenticate implements Strategy. An unknown username and a wrong password both
// produce ErrInvalidCredentials so callers cannot tell which one it was.
func (s *LocalStrategy) Authenticate(ctx context.Context, creds Credentials) (*User, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}

	lookupCtx := ctx
	if s.lookupTimeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, s.lookupTimeout)
		defer cancel()
	}

	user, err := s.store.FindByUsername(lookupCtx, creds.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.hasher.Verify(creds.Password, s.decoyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if user == nil {
		s.hasher.Verify(creds.Password, s.decoyHash)
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(creds.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user.Sanitized(), nil
}
