package model

import (
	"github.com/google/uuid"
)

type AccountRole string

const (
	RolePatient      AccountRole = "patient"
	RoleDoctor       AccountRole = "doctor"
	RoleReceptionist AccountRole = "receptionist"
	RoleAdmin        AccountRole = "admin"
)

type Account struct {
	Base
	Email        string      `db:"email" json:"email"`
	Name         string      `db:"name" json:"name"`
	Phone        string      `db:"phone" json:"phone,omitempty"`
	PasswordHash string      `db:"password_hash" json:"-"`
	Role         AccountRole `db:"role" json:"role"`
	Status       string      `db:"status" json:"status"`
}

// AuthenticatedUser is the identity threaded explicitly through every
// operation that needs it; there is no ambient auth state.
type AuthenticatedUser struct {
	AccountID uuid.UUID   `json:"account_id"`
	Email     string      `json:"email"`
	Role      AccountRole `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required,oneof=patient doctor receptionist admin"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
