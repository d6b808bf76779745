package models

import (
	"time"
)

// User is a registered account together with its stored credential.
// Salt and digest are written once at registration and never updated.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	PasswordSalt   []byte    `json:"passwordSalt"`
	PasswordDigest []byte    `json:"passwordDigest"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UserResponse is the public view of a user. It never carries credential material.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func NewUserResponse(u *User) *UserResponse {
	return &UserResponse{ID: u.ID, Username: u.Username}
}

// TokenInfo describes the identity carried by a verified bearer token.
type TokenInfo struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}
