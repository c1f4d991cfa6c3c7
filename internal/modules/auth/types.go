package auth

import (
	"errors"
	"time"
)

type LoginDTO struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterDTO struct {
	Email    string `json:"email"    binding:"required,portfolio_email"`
	Password string `json:"password" binding:"required,min=6"`
}

type adminResponse struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastLoginTime *time.Time `json:"lastLoginTime,omitempty"`
}

type loginResponse struct {
	Token string         `json:"token"`
	Admin *adminResponse `json:"admin"`
}

type registerResponse struct {
	Message string         `json:"message"`
	Admin   *adminResponse `json:"admin"`
}

const minPasswordLength = 6

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminExists        = errors.New("admin with this email already exists")
	errEmailInvalid       = errors.New("invalid email format")
	errPasswordTooShort   = errors.New("password must be at least 6 characters long")
	errCredentialsMissing = errors.New("email and password are required")
)
