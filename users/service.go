// This file, `service.go`, contains the business logic of the user resource. It turns
// store results into apperror values carrying the messages clients expect.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/movievault-go/apperror"
	"github.com/user/movievault-go/auth"
	"github.com/user/movievault-go/logutil"
)

// UserService provides account operations on top of Store.
type UserService struct {
	store  *Store
	hasher *auth.Hasher
}

// NewUserService creates a new UserService. hasher must be the one the login strategy verifies with.
func NewUserService(store *Store, hasher *auth.Hasher) *UserService {
	return &UserService{store: store, hasher: hasher}
}

// toUser hashes the password and parses the birthday of an already validated request.
func (s *UserService) toUser(req *UserRequest) (*auth.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.NewInternalError("Failed to hash password", err)
	}
	u := &auth.User{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
	}
	if req.Birthday != "" {
		d, err := auth.ParseDate(req.Birthday)
		if err != nil {
			return nil, apperror.NewValidationError("Birthday does not appear to be valid Date.", err)
		}
		u.Birthday = &d
	}
	return u, nil
}

func alreadyExists(username string, err error) *apperror.AppError {
	return apperror.NewConflictError(username+" already exists.", err)
}

// Register creates an account. An existing username is a conflict, whether it is seen by
// the pre-check or only by the unique index when two registrations race.
func (s *UserService) Register(ctx context.Context, req *UserRequest) (*auth.User, error) {
	_, err := s.store.FindByUsername(ctx, req.Username)
	switch {
	case err == nil:
		return nil, alreadyExists(req.Username, nil)
	case !errors.Is(err, auth.ErrUserNotFound):
		return nil, apperror.NewDatabaseError("Failed to check username", err)
	}

	u, err := s.toUser(req)
	if err != nil {
		return nil, err
	}
	created, err := s.store.Create(ctx, u)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, alreadyExists(req.Username, err)
		}
		return nil, apperror.NewDatabaseError("Failed to create user", err)
	}

	log := logutil.GetOrDefault(ctx)
	log.Info().Str("user_id", created.ID).Msg("user registered")
	return created.Sanitized(), nil
}

// List returns all users without their password hashes.
func (s *UserService) List(ctx context.Context) ([]*auth.User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, apperror.NewDatabaseError("Failed to list users", err)
	}
	for i, u := range users {
		users[i] = u.Sanitized()
	}
	return users, nil
}

// Get returns the user named username.
func (s *UserService) Get(ctx context.Context, username string) (*auth.User, error) {
	u, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, apperror.NewNotFoundError(username+" was not found.", err)
		}
		return nil, apperror.NewDatabaseError("Failed to get user", err)
	}
	return u.Sanitized(), nil
}

// Update replaces every profile field of username, re-hashing the password.
func (s *UserService) Update(ctx context.Context, username string, req *UserRequest) (*auth.User, error) {
	u, err := s.toUser(req)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, username, u)
	if err != nil {
		return nil, s.mutationError(err, "Failed to update user", req.Username)
	}
	log := logutil.GetOrDefault(ctx)
	log.Info().Str("user_id", updated.ID).Msg("user updated")
	return updated.Sanitized(), nil
}

// Delete removes username and returns the confirmation text.
func (s *UserService) Delete(ctx context.Context, username string) (string, error) {
	if err := s.store.Delete(ctx, username); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return "", apperror.NewNotFoundError(username+" was not found.", err)
		}
		return "", apperror.NewDatabaseError("Failed to delete user", err)
	}
	log := logutil.GetOrDefault(ctx)
	log.Info().Str("username", username).Msg("user deleted")
	return username + " was deleted.", nil
}

// AddFavorite adds movieID to the favorites of username.
func (s *UserService) AddFavorite(ctx context.Context, username, movieID string) (*auth.User, error) {
	u, err := s.store.AddFavorite(ctx, username, movieID)
	if err != nil {
		return nil, s.mutationError(err, "Failed to add favorite", username)
	}
	return u.Sanitized(), nil
}

// RemoveFavorite removes movieID from the favorites of username.
func (s *UserService) RemoveFavorite(ctx context.Context, username, movieID string) (*auth.User, error) {
	u, err := s.store.RemoveFavorite(ctx, username, movieID)
	if err != nil {
		return nil, s.mutationError(err, "Failed to remove favorite", username)
	}
	return u.Sanitized(), nil
}

func (s *UserService) mutationError(err error, msg, username string) error {
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		return apperror.NewNotFoundError("User not found.", err)
	case errors.Is(err, ErrUsernameTaken):
		return alreadyExists(username, err)
	default:
		return apperror.NewDatabaseError(msg, fmt.Errorf("user %q: %w", username, err))
	}
}
