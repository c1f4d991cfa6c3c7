package contact

import "errors"

type SendDTO struct {
	Name    string `json:"name"    binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"   binding:"required,portfolio_email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type sendResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

var (
	// ErrEmailUnavailable means the message was stored but no mail went out.
	ErrEmailUnavailable = errors.New("contact email unavailable")

	errContactRequired = errors.New("name, email, subject, and message are required")
	errEmailInvalid    = errors.New("invalid email format")
)
