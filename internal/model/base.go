package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Role discriminates the two user populations. It is carried explicitly on
// every identity and compared by value, never derived from the concrete type.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Valid reports whether the role is one of the recognized roles.
func (r Role) Valid() bool {
	return r == RoleDoctor || r == RolePatient
}
