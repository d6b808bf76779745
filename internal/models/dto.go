package models

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

const MaxUsernameLength = 255

// RegisterRequest is the input for account registration
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the registration input against the password length policy.
func (r RegisterRequest) Validate(minPasswordLen, maxPasswordLen int) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.Length(1, MaxUsernameLength),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(minPasswordLen, maxPasswordLen),
		),
	)
}

// LoginRequest is the input for the login flow
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token string `json:"token"`
}
