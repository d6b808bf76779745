package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrEmptySigningKey = errors.New("token signing key must not be empty")
	ErrInvalidToken    = errors.New("invalid token")
)

var _ JWTGenerator = (*JWTService)(nil)

// Claims is the payload of an issued token. nameid and unique_name are the
// short names for the name-identifier and name claim types.
type Claims struct {
	NameID     string `json:"nameid"`
	UniqueName string `json:"unique_name"`
	jwt.RegisteredClaims
}

// UserID returns the numeric subject id carried in nameid.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.NameID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad nameid claim", ErrInvalidToken)
	}
	return id, nil
}

// NewTokenService creates a JWTService signing with secret. An empty secret is
// a configuration fault and is rejected here, before any token is issued.
func NewTokenService(secret string, ttl time.Duration) (*JWTService, error) {
	if secret == "" {
		return nil, ErrEmptySigningKey
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTService{jwtSecret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// GenerateToken creates a new HS512 JWT for a user
func (s *JWTService) GenerateToken(userID int64, username string) (string, time.Time, error) {
	exp := jwt.NewNumericDate(s.now().Add(s.ttl))
	claims := Claims{
		NameID:     strconv.FormatInt(userID, 10),
		UniqueName: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: exp,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	// header.payload, each segment base64url encoded
	signingString, err := token.SigningString()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to encode token: %w", err)
	}

	sig, err := token.Method.Sign(signingString, s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signingString + "." + token.EncodeSegment(sig), exp.Time, nil
}

// ParseToken verifies the signature and expiry of tokenString and returns its claims.
func (s *JWTService) ParseToken(tokenString string) (*jwt.Token, *Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return token, claims, nil
}
