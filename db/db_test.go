package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/user/movievault-go/config"
)

func TestDSN(t *testing.T) {
	cfg := &config.PoolConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "movies"}
	assert.Equal(t, "postgres://u:p@db:5433/movies?sslmode=disable", DSN(cfg))

	cfg.SSLMode = "require"
	assert.Equal(t, "postgres://u:p@db:5433/movies?sslmode=require", DSN(cfg))
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: PgUniqueViolation, ConstraintName: "users_username_key"}
	assert.True(t, IsUniqueViolation(dup))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert user: %w", dup)))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}
