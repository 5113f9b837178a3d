package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signClaims(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func claimsFor(u *User, issuedAt time.Time, lifetime time.Duration) *Claims {
	return &Claims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(lifetime)),
		},
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "surrounding space", header: "  Bearer   abc.def.ghi ", want: "abc.def.ghi"},
		{name: "empty", header: "", wantErr: ErrMissingToken},
		{name: "blank", header: "   ", wantErr: ErrMissingToken},
		{name: "scheme only", header: "Bearer", wantErr: ErrMalformedToken},
		{name: "wrong scheme", header: "Basic dXNlcjk6cGFzcw==", wantErr: ErrMalformedToken},
		{name: "no scheme", header: "abc.def.ghi", wantErr: ErrMalformedToken},
		{name: "extra parts", header: "Bearer a b", wantErr: ErrMalformedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerify_Rejections(t *testing.T) {
	store := newMemStore()
	u := store.add(t, "user9", "user9pass")
	now := time.Now()

	verifier, err := NewTokenVerifier(testSecret, store, time.Second)
	require.NoError(t, err)

	ghost := &User{ID: "000000000000000000000000", Username: "ghost"}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:    "garbage",
			token:   "garbage.token.value",
			wantErr: ErrMalformedToken,
		},
		{
			name:    "not a jwt",
			token:   "plainstring",
			wantErr: ErrMalformedToken,
		},
		{
			name:    "signed with another secret",
			token:   signClaims(t, jwt.SigningMethodHS256, []byte("some-other-secret"), claimsFor(u, now, time.Hour)),
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "disallowed algorithm",
			token:   signClaims(t, jwt.SigningMethodHS512, []byte(testSecret), claimsFor(u, now, time.Hour)),
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "unsigned",
			token:   signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claimsFor(u, now, time.Hour)),
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "expired eight days ago",
			token:   signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor(u, now.Add(-8*24*time.Hour), 7*24*time.Hour)),
			wantErr: ErrExpiredToken,
		},
		{
			name: "no expiry",
			token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), &Claims{
				UserID:           u.ID,
				RegisteredClaims: jwt.RegisteredClaims{Subject: u.Username, IssuedAt: jwt.NewNumericDate(now)},
			}),
			wantErr: ErrMalformedToken,
		},
		{
			name: "no user id",
			token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), &Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   u.Username,
					IssuedAt:  jwt.NewNumericDate(now),
					ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				},
			}),
			wantErr: ErrMalformedToken,
		},
		{
			name:    "unknown subject",
			token:   signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor(ghost, now, time.Hour)),
			wantErr: ErrUnknownSubject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := verifier.Verify(context.Background(), tt.token)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, http.StatusUnauthorized, ToAppError(err).StatusCode())
		})
	}
}

func TestVerify_DeletedUserTokenStopsWorking(t *testing.T) {
	store := newMemStore()
	u := store.add(t, "user9", "user9pass")
	svc := newTestService(t, store)

	res, err := svc.Login(context.Background(), "user9", "user9pass")
	require.NoError(t, err)

	_, err = svc.VerifyRequest(context.Background(), "Bearer "+res.Token)
	require.NoError(t, err)

	store.remove(u.ID)
	_, err = svc.VerifyRequest(context.Background(), "Bearer "+res.Token)
	assert.ErrorIs(t, err, ErrUnknownSubject)
}

func TestVerify_StoreFailureIsNotAuthFailure(t *testing.T) {
	store := newMemStore()
	u := store.add(t, "user9", "user9pass")
	issuer, err := NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	signed, err := issuer.Issue(u)
	require.NoError(t, err)

	verifier, err := NewTokenVerifier(testSecret, store, 50*time.Millisecond)
	require.NoError(t, err)
	store.fail(errors.New("connection refused"))

	got, err := verifier.Verify(context.Background(), signed)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, http.StatusInternalServerError, ToAppError(err).StatusCode())
	assert.True(t, store.sawDeadline, "lookup should run under a deadline")
}

func TestVerify_PrincipalHasNoHash(t *testing.T) {
	store := newMemStore()
	u := store.add(t, "user9", "user9pass")
	issuer, err := NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	signed, err := issuer.Issue(u)
	require.NoError(t, err)
	verifier, err := NewTokenVerifier(testSecret, store, time.Second)
	require.NoError(t, err)

	got, err := verifier.VerifyRequest(context.Background(), "Bearer "+signed)
	require.NoError(t, err)
	assert.Equal(t, "user9", got.Username)
	assert.Empty(t, got.PasswordHash)
}

func TestNewTokenVerifier_RejectsBadConfig(t *testing.T) {
	_, err := NewTokenVerifier("", newMemStore(), time.Second)
	assert.Error(t, err)
	_, err = NewTokenVerifier(testSecret, nil, time.Second)
	assert.Error(t, err)
}
