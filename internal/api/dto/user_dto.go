package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the access token together with the account.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserRequest payload for account creation and updates. Password is required
// on create and optional on update.
type UserRequest struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Password   string          `json:"password"`
	Department string          `json:"department"`
	Position   string          `json:"position"`
	Phone      string          `json:"phone"`
	Role       domain.UserRole `json:"role"`
}

// UserResponse never includes the password hash.
type UserResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Department string          `json:"department"`
	Position   string          `json:"position"`
	Phone      string          `json:"phone"`
	Role       domain.UserRole `json:"role"`
	CreatedAt  time.Time       `json:"created_at"`
}
