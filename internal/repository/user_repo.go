package repository

import (
	"context"
	"errors"

	"github.com/SimpnicServerTeam/catalog-auth-server/internal/models"
)

// UserRepository defines operations for storing/retrieving user credentials
type UserRepository interface {
	// CheckIfUserExists reports whether the username is already registered.
	// Callers pass the lower-cased username.
	CheckIfUserExists(ctx context.Context, username string) (bool, error)

	// GetUserByUsername retrieves a user with its stored credential.
	// It should return ErrUserNotFound if the user does not exist.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves a user by its identifier.
	// It should return ErrUserNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// CreateUser stores a new user and returns it with ID and CreatedAt assigned.
	// It must return ErrUserExists if the username is already taken, including when
	// two inserts for the same username race; other errors are persistence faults.
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)

	// ListUsers returns every user ordered by username.
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// Common errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)
