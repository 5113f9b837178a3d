// This file, `context.go`, deals with carrying the authenticated principal in the
// request's context.Context from JWTMiddleware down to the handlers.
package auth

import (
	"context"
)

// `contextKey` is a custom type for context keys. Using a custom type prevents collisions
// with context keys defined in other packages.
type contextKey string

const (
	principalContextKey contextKey = "auth_principal"
)

// NewContextWithPrincipal returns a child context carrying user.
func NewContextWithPrincipal(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, principalContextKey, user)
}

// PrincipalFromContext extracts the principal stored by JWTMiddleware.
// The second return value reports whether one was present.
func PrincipalFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(principalContextKey).(*User)
	return user, ok && user != nil
}
