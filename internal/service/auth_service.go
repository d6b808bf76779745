package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/catalog-auth-server/internal/models"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/repository"
)

// ErrInvalidCredentials is returned for an unknown username and for a wrong
// password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

var _ AuthGenerator = (*AuthService)(nil)

// NewAuthService creates an AuthService. It derives a throwaway credential used to
// equalize work between unknown-user and wrong-password rejections.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	tokenSvc JWTGenerator,
	policy PasswordPolicy,
) (*AuthService, error) {
	dummy, err := hasher.Hash("dummy-password")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare auth service: %w", err)
	}
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokenSvc: tokenSvc,
		policy:   policy,
		dummy:    dummy,
	}, nil
}

// normalizeUsername folds case so usernames differing only by case collide.
func normalizeUsername(username string) string {
	return strings.ToLower(username)
}

// Register handles user registration
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.UserResponse, error) {
	if err := req.Validate(s.policy.MinLength, s.policy.MaxLength); err != nil {
		return nil, err
	}
	username := normalizeUsername(req.Username)

	isUserExists, err := s.userRepo.CheckIfUserExists(ctx, username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to check if user exists")
		return nil, fmt.Errorf("failed to check if user exists: %w", err)
	}
	if isUserExists {
		log.Info().Str("username", username).Msg("Registration rejected, username taken")
		return nil, repository.ErrUserExists
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, &models.User{
		Username:       username,
		PasswordSalt:   hash.Salt,
		PasswordDigest: hash.Digest,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			log.Info().Str("username", username).Msg("Registration lost race for username")
			return nil, repository.ErrUserExists
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to register user")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	log.Info().Int64("userId", user.ID).Str("username", user.Username).Msg("User registered")
	return models.NewUserResponse(user), nil
}

// Login verifies the credentials and issues a bearer token
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}
	username := normalizeUsername(req.Username)

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.Verify(req.Password, s.dummy.Salt, s.dummy.Digest)
			log.Info().Str("username", username).Msg("Login rejected")
			return nil, ErrInvalidCredentials
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to look up user")
		return nil, fmt.Errorf("failed to get user credentials: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordSalt, user.PasswordDigest) {
		log.Info().Str("username", username).Msg("Login rejected")
		return nil, ErrInvalidCredentials
	}

	token, expiry, err := s.tokenSvc.GenerateToken(user.ID, user.Username)
	if err != nil {
		log.Error().Err(err).Int64("userId", user.ID).Msg("Failed to issue token")
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info().Int64("userId", user.ID).Time("expiresAt", expiry).Msg("User logged in")
	return &models.LoginResponse{Token: token}, nil
}
