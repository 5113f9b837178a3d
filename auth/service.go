// Package auth is responsible for authentication and authorization.
// It verifies credentials against stored bcrypt hashes, issues HS256 bearer tokens,
// resolves presented tokens back to a user and enforces the rule that a caller may
// only change their own account.
package auth

import (
	"context"
	"errors"

	"github.com/user/movievault-go/config"
	"github.com/user/movievault-go/logutil"
	"github.com/user/movievault-go/metrics"
)

// LoginResult is what a successful login hands back to the routing layer.
type LoginResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// AuthService is the facade the HTTP layer talks to.
type AuthService struct {
	strategy Strategy
	issuer   *TokenIssuer
	verifier *TokenVerifier
	metrics  *metrics.Metrics
}

// NewAuthService wires a login strategy with the token issuer and verifier.
// m may be nil.
func NewAuthService(strategy Strategy, issuer *TokenIssuer, verifier *TokenVerifier, m *metrics.Metrics) *AuthService {
	return &AuthService{
		strategy: strategy,
		issuer:   issuer,
		verifier: verifier,
		metrics:  m,
	}
}

// NewFromConfig builds the default service: local username/password strategy,
// issuer and verifier sharing the configured secret.
func NewFromConfig(cfg config.AuthConfig, store CredentialStore, m *metrics.Metrics) (*AuthService, error) {
	issuer, err := NewTokenIssuer(cfg.JWTSecret, cfg.TokenDuration)
	if err != nil {
		return nil, err
	}
	verifier, err := NewTokenVerifier(cfg.JWTSecret, store, cfg.LookupTimeout)
	if err != nil {
		return nil, err
	}
	strategy := NewLocalStrategy(store, NewHasher(cfg.BcryptCost), cfg.LookupTimeout)
	return NewAuthService(strategy, issuer, verifier, m), nil
}

// Login authenticates the credentials and, on success, issues a token for the user.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	log := logutil.GetOrDefault(ctx)

	user, err := s.strategy.Authenticate(ctx, Credentials{Username: username, Password: password})
	if err != nil {
		s.countLogin(Reason(err))
		if errors.Is(err, ErrStoreUnavailable) {
			log.Error().Err(err).Str("strategy", s.strategy.Name()).Msg("login failed: credential store unavailable")
		} else {
			log.Info().Str("strategy", s.strategy.Name()).Str("reason", Reason(err)).Msg("login rejected")
		}
		return nil, err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		s.countLogin("issue_failed")
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to issue token")
		return nil, err
	}

	s.countLogin("success")
	log.Info().Str("user_id", user.ID).Str("strategy", s.strategy.Name()).
		Dur("token_lifetime", s.issuer.Lifetime()).Msg("login succeeded")
	return &LoginResult{User: user, Token: token}, nil
}

// VerifyRequest resolves a raw Authorization header value to a principal.
func (s *AuthService) VerifyRequest(ctx context.Context, header string) (*User, error) {
	user, err := s.verifier.VerifyRequest(ctx, header)
	if err != nil {
		log := logutil.GetOrDefault(ctx)
		if errors.Is(err, ErrStoreUnavailable) {
			log.Error().Err(err).Msg("token verification failed: credential store unavailable")
		} else {
			log.Debug().Err(err).Str("reason", Reason(err)).Msg("bearer token rejected")
		}
		if s.metrics != nil {
			s.metrics.AuthFailuresTotal.WithLabelValues(Reason(err)).Inc()
		}
		return nil, err
	}
	return user, nil
}

// AuthorizeSelf reports whether principal may mutate the account named targetUsername.
func (s *AuthService) AuthorizeSelf(principal *User, targetUsername string) bool {
	ok := AuthorizeSelf(principal, targetUsername)
	if !ok && s.metrics != nil {
		s.metrics.PermissionDenials.Inc()
	}
	return ok
}

func (s *AuthService) countLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.LoginsTotal.WithLabelValues(outcome).Inc()
	}
}
