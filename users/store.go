// Package users implements the user account resource: the PostgreSQL store that backs
// authentication, and the registration and profile endpoints.
//
// This file, `store.go`, is the data access layer. Store satisfies auth.CredentialStore.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/user/movievault-go/auth"
	"github.com/user/movievault-go/db"
)

// ErrUsernameTaken is returned when a create or rename collides with an existing username.
var ErrUsernameTaken = errors.New("username already exists")

// userColumns is the select list every query scans with scanUser.
const userColumns = `id::text, username, password, email, birthday, favorite_movies::text[], created_at`

// Store reads and writes user records.
type Store struct {
	db db.Querier
}

// NewStore creates a Store on top of a pool (or anything that looks like one).
func NewStore(q db.Querier) *Store {
	return &Store{db: q}
}

var _ auth.CredentialStore = (*Store)(nil)

func scanUser(row pgx.Row) (*auth.User, error) {
	var (
		u        auth.User
		birthday pgtype.Date
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &birthday, &u.FavoriteMovies, &u.CreatedAt); err != nil {
		return nil, err
	}
	if birthday.Valid {
		d := auth.NewDate(birthday.Time)
		u.Birthday = &d
	}
	if u.FavoriteMovies == nil {
		u.FavoriteMovies = []string{}
	}
	return &u, nil
}

// one runs a single-row query and maps "no rows" to auth.ErrUserNotFound.
func (s *Store) one(ctx context.Context, op, query string, args ...any) (*auth.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		if db.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindByUsername implements auth.CredentialStore. The match is exact and case-sensitive.
func (s *Store) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	return s.one(ctx, "find user by username",
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// FindByID implements auth.CredentialStore. An id that is not a UUID cannot exist.
func (s *Store) FindByID(ctx context.Context, id string) (*auth.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, auth.ErrUserNotFound
	}
	return s.one(ctx, "find user by id",
		`SELECT `+userColumns+` FROM users WHERE id = $1::uuid`, id)
}

// Create inserts u with a fresh id. u.PasswordHash must already be a bcrypt hash.
func (s *Store) Create(ctx context.Context, u *auth.User) (*auth.User, error) {
	return s.one(ctx, "create user",
		`INSERT INTO users (id, username, password, email, birthday)
		 VALUES ($1::uuid, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		uuid.NewString(), u.Username, u.PasswordHash, u.Email, birthdayArg(u.Birthday))
}

// List returns every user ordered by username.
func (s *Store) List(ctx context.Context) ([]*auth.User, error) {
	rows, err := s.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*auth.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// Update replaces the profile of the user currently named username.
func (s *Store) Update(ctx context.Context, username string, u *auth.User) (*auth.User, error) {
	return s.one(ctx, "update user",
		`UPDATE users SET username = $2, password = $3, email = $4, birthday = $5
		 WHERE username = $1
		 RETURNING `+userColumns,
		username, u.Username, u.PasswordHash, u.Email, birthdayArg(u.Birthday))
}

// Delete removes the user named username.
func (s *Store) Delete(ctx context.Context, username string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// AddFavorite appends movieID to the user's favorites unless it is already there.
func (s *Store) AddFavorite(ctx context.Context, username, movieID string) (*auth.User, error) {
	return s.one(ctx, "add favorite",
		`UPDATE users SET favorite_movies = CASE
		     WHEN $2::uuid = ANY(favorite_movies) THEN favorite_movies
		     ELSE array_append(favorite_movies, $2::uuid)
		 END
		 WHERE username = $1
		 RETURNING `+userColumns,
		username, movieID)
}

// RemoveFavorite drops movieID from the user's favorites.
func (s *Store) RemoveFavorite(ctx context.Context, username, movieID string) (*auth.User, error) {
	return s.one(ctx, "remove favorite",
		`UPDATE users SET favorite_movies = array_remove(favorite_movies, $2::uuid)
		 WHERE username = $1
		 RETURNING `+userColumns,
		username, movieID)
}

func birthdayArg(d *auth.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
