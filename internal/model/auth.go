package model

import "github.com/google/uuid"

// Identity is the authenticated principal attached to the request context by
// the auth middleware. The password hash is never carried here.
type Identity struct {
	ID           uuid.UUID `json:"id"`
	Role         Role      `json:"role"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	TokenVersion int       `json:"-"`
}

// AuthResponse is returned by registration and login.
type AuthResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
	Token string    `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type RequestResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResolveResetRequest struct {
	Email       string `json:"email" binding:"required,email"`
	ResetCode   string `json:"reset_code" binding:"required,len=6,numeric"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}
