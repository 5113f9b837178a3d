package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-must-be-32-bytes"

// memStore is an in-memory CredentialStore for tests.
type memStore struct {
	mu          sync.RWMutex
	users       map[string]*User
	err         error
	sawDeadline bool
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*User{}}
}

func (m *memStore) add(t *testing.T, username, password string) *User {
	t.Helper()
	hash, err := NewHasher(bcrypt.MinCost).Hash(password)
	require.NoError(t, err)
	u := &User{
		ID:             uuid.NewString(),
		Username:       username,
		PasswordHash:   hash,
		Email:          username + "@example.com",
		FavoriteMovies: []string{},
	}
	m.mu.Lock()
	m.users[u.ID] = u
	m.mu.Unlock()
	return u
}

func (m *memStore) remove(id string) {
	m.mu.Lock()
	delete(m.users, id)
	m.mu.Unlock()
}

func (m *memStore) fail(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

func (m *memStore) note(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := ctx.Deadline(); ok {
		m.sawDeadline = true
	}
	return m.err
}

func (m *memStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	if err := m.note(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memStore) FindByID(ctx context.Context, id string) (*User, error) {
	if err := m.note(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func newTestService(t *testing.T, store CredentialStore) *AuthService {
	t.Helper()
	issuer, err := NewTokenIssuer(testSecret, 7*24*time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenVerifier(testSecret, store, time.Second)
	require.NoError(t, err)
	return NewAuthService(NewLocalStrategy(store, NewHasher(bcrypt.MinCost), time.Second), issuer, verifier, nil)
}
