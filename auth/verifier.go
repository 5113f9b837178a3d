package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates presented bearer tokens and resolves them to a principal.
type TokenVerifier struct {
	secret        []byte
	store         CredentialStore
	lookupTimeout time.Duration
	now           func() time.Time
}

// NewTokenVerifier builds a verifier sharing the issuer's secret. lookupTimeout bounds
// the store lookup; zero means only the caller's context applies.
func NewTokenVerifier(secret string, store CredentialStore, lookupTimeout time.Duration) (*TokenVerifier, error) {
	if secret == "" {
		return nil, errors.New("auth: token verification secret is empty")
	}
	if store == nil {
		return nil, errors.New("auth: token verifier needs a credential store")
	}
	return &TokenVerifier{
		secret:        []byte(secret),
		store:         store,
		lookupTimeout: lookupTimeout,
		now:           time.Now,
	}, nil
}

// BearerToken extracts the token from an Authorization header value.
// An empty header is ErrMissingToken; anything not shaped "Bearer <token>" is ErrMalformedToken.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMalformedToken
	}
	return parts[1], nil
}

// VerifyRequest runs the whole check for a raw Authorization header value.
func (v *TokenVerifier) VerifyRequest(ctx context.Context, header string) (*User, error) {
	token, err := BearerToken(header)
	if err != nil {
		return nil, err
	}
	return v.Verify(ctx, token)
}

// Verify checks signature and expiry of tokenString and resolves its `_id` claim
// through the credential store. It never returns a principal together with an error.
func (v *TokenVerifier) Verify(ctx context.Context, tokenString string) (*User, error) {
	claims, err := v.parse(tokenString)
	if err != nil {
		return nil, err
	}

	lookupCtx := ctx
	if v.lookupTimeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, v.lookupTimeout)
		defer cancel()
	}

	user, err := v.store.FindByID(lookupCtx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if user == nil {
		return nil, ErrUnknownSubject
	}
	return user.Sanitized(), nil
}

func (v *TokenVerifier) parse(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, mapJWTError(err)
	}
	if claims.UserID == "" || claims.Subject == "" {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to auth package errors.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		// includes a disallowed "alg" header
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpiredToken, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
}
