package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signingMethod is the only algorithm tokens are signed with and the only one accepted.
var signingMethod = jwt.SigningMethodHS256

// Claims is the payload of a bearer token. The subject is the username; the user id
// travels in `_id` and is what the verifier resolves the principal by.
type Claims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// TokenIssuer mints signed, time-limited bearer tokens.
type TokenIssuer struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenIssuer builds an issuer from the process-wide secret. An empty secret or a
// non-positive lifetime is a configuration error; the caller is expected to abort startup.
func NewTokenIssuer(secret string, lifetime time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("auth: token signing secret is empty")
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("auth: token lifetime must be positive, got %s", lifetime)
	}
	return &TokenIssuer{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// Lifetime returns the fixed validity period of issued tokens.
func (i *TokenIssuer) Lifetime() time.Duration {
	return i.lifetime
}

// Issue signs a token for user. Expiry is issued-at plus the fixed lifetime.
func (i *TokenIssuer) Issue(user *User) (string, error) {
	if user == nil || user.ID == "" || user.Username == "" {
		return "", errors.New("auth: cannot issue a token without user id and username")
	}
	issuedAt := i.now()
	claims := &Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.lifetime)),
		},
	}
	token := jwt.NewWithClaims(signingMethod, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
