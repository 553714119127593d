package dto

import (
	"time"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
)

// SignupRequest represents the request payload for user registration
type SignupRequest struct {
	Name            string `json:"name" validate:"required,min=3,max=40"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest represents the request to start a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest sets a new password with a reset token
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// UpdatePasswordRequest changes the password of the logged in user
type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Status string       `json:"status"`
	Token  string       `json:"token"`
	Data   AuthUserData `json:"data"`
}

// AuthUserData wraps the authenticated user
type AuthUserData struct {
	User UserResponse `json:"user"`
}

// UserResponse represents user data in API responses
type UserResponse struct {
	ID        string      `json:"_id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Photo     string      `json:"photo"`
	Role      models.Role `json:"role"`
	CreatedAt string      `json:"createdAt,omitempty"`
}

// NewUserResponse converts a user to its public representation
func NewUserResponse(u *models.User) UserResponse {
	resp := UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Photo: u.Photo,
		Role:  u.Role,
	}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

// UserSummary is the author or guide attached to reviews and tours
type UserSummary struct {
	ID    string      `json:"_id"`
	Name  string      `json:"name"`
	Photo string      `json:"photo"`
	Role  models.Role `json:"role,omitempty"`
	Email string      `json:"email,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// MessageResponse carries a status and a human readable message
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
