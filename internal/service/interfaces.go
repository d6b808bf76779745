package service

import (
	"context"
	"time"

	"github.com/SimpnicServerTeam/catalog-auth-server/internal/models"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/repository"
)

// JWTService issues signed bearer tokens
type JWTService struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

// AuthService runs the registration and login flows
type AuthService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokenSvc JWTGenerator
	policy   PasswordPolicy

	// dummy is verified against when the username is unknown so both rejection
	// paths do the same hashing work.
	dummy PasswordHash
}

// PasswordPolicy bounds the accepted password length at registration.
type PasswordPolicy struct {
	MinLength int
	MaxLength int
}

type PasswordHasher interface {
	// Hash derives a fresh random salt and the keyed digest of password under it.
	Hash(password string) (PasswordHash, error)
	// Verify reports whether password matches the stored salt and digest.
	// Malformed stored values yield false.
	Verify(password string, salt, digest []byte) bool
}

type JWTGenerator interface {
	// GenerateToken issues a bearer token for the user and returns it with its expiry.
	GenerateToken(userID int64, username string) (string, time.Time, error)
}

type AuthGenerator interface {
	// Register creates an account; it returns ErrUserExists for a taken username.
	Register(ctx context.Context, req models.RegisterRequest) (*models.UserResponse, error)
	// Login checks the credentials and issues a token; it returns ErrInvalidCredentials
	// for both an unknown username and a wrong password.
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

type UserGenerator interface {
	ListUsers(ctx context.Context) ([]*models.UserResponse, error)
	GetUser(ctx context.Context, id int64) (*models.UserResponse, error)
}
