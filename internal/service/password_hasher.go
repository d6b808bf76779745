package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"
	"io"
)

const (
	// SaltSize matches the HMAC-SHA512 block-sized key class.
	SaltSize = 64
	// DigestSize is the HMAC-SHA512 output length.
	DigestSize = sha512.Size
)

// PasswordHash is the credential persisted with a user.
type PasswordHash struct {
	Salt   []byte
	Digest []byte
}

var _ PasswordHasher = (*HMACPasswordHasher)(nil)

// HMACPasswordHasher digests passwords with HMAC-SHA512 keyed by a per-user random salt.
// It holds no mutable state and is safe for concurrent use.
type HMACPasswordHasher struct {
	random io.Reader
}

func NewHMACPasswordHasher() *HMACPasswordHasher {
	return &HMACPasswordHasher{random: rand.Reader}
}

func (h *HMACPasswordHasher) Hash(password string) (PasswordHash, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(h.random, salt); err != nil {
		return PasswordHash{}, fmt.Errorf("failed to generate salt: %w", err)
	}
	return PasswordHash{
		Salt:   salt,
		Digest: digest(salt, password),
	}, nil
}

func (h *HMACPasswordHasher) Verify(password string, salt, expected []byte) bool {
	if len(salt) != SaltSize || len(expected) != DigestSize {
		return false
	}
	return subtle.ConstantTimeCompare(digest(salt, password), expected) == 1
}

func digest(salt []byte, password string) []byte {
	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))
	return mac.Sum(nil)
}
