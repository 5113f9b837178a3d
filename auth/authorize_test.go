package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeSelf(t *testing.T) {
	alice := &User{ID: "a", Username: "alice"}

	assert.True(t, AuthorizeSelf(alice, "alice"))
	assert.False(t, AuthorizeSelf(alice, "bob"))
	assert.False(t, AuthorizeSelf(alice, "Alice"))
	assert.False(t, AuthorizeSelf(alice, ""))
	assert.False(t, AuthorizeSelf(nil, "alice"))
	assert.False(t, AuthorizeSelf(&User{ID: "x"}, ""))
}

func TestContextPrincipal(t *testing.T) {
	_, ok := PrincipalFromContext(t.Context())
	assert.False(t, ok)

	alice := &User{ID: "a", Username: "alice"}
	got, ok := PrincipalFromContext(NewContextWithPrincipal(t.Context(), alice))
	assert.True(t, ok)
	assert.Same(t, alice, got)

	_, ok = PrincipalFromContext(NewContextWithPrincipal(t.Context(), nil))
	assert.False(t, ok)
}
