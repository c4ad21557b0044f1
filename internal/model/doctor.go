package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// AvailabilityWindow is one recurring slot in a doctor's weekly schedule.
type AvailabilityWindow struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AvailabilityList is stored as a single JSONB column.
type AvailabilityList []AvailabilityWindow

func (a AvailabilityList) Value() (driver.Value, error) {
	if len(a) == 0 {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *AvailabilityList) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported availability column type %T", src)
	}
	return json.Unmarshal(b, a)
}

type Doctor struct {
	Base
	Name             string           `db:"name" json:"name"`
	Email            string           `db:"email" json:"email"`
	PasswordHash     string           `db:"password_hash" json:"-"`
	Department       string           `db:"department" json:"department"`
	Specializations  pq.StringArray   `db:"specializations" json:"specializations"`
	Experience       int              `db:"experience" json:"experience"`
	Fee              int64            `db:"fee" json:"fee"`
	Availability     AvailabilityList `db:"availability" json:"availability,omitempty"`
	ProfilePicture   string           `db:"profile_picture" json:"profile_picture,omitempty"`
	Bio              string           `db:"bio" json:"bio,omitempty"`
	PhoneNumber      string           `db:"phone_number" json:"phone_number,omitempty"`
	Address          string           `db:"address" json:"address,omitempty"`
	IsApproved       bool             `db:"is_approved" json:"is_approved"`
	ResetCode        *string          `db:"reset_code" json:"-"`
	ResetCodeExpires *time.Time       `db:"reset_code_expires" json:"-"`
	TokenVersion     int              `db:"token_version" json:"-"`
}

// DoctorSummary is the public directory projection of a doctor record.
type DoctorSummary struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Department      string         `json:"department"`
	Specializations pq.StringArray `json:"specializations"`
	Fee             int64          `json:"fee"`
}

type RegisterDoctorRequest struct {
	Name            string   `json:"name" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	Password        string   `json:"password" binding:"required,min=8"`
	Department      string   `json:"department" binding:"required"`
	Specializations []string `json:"specializations"`
	Fee             int64    `json:"fee" binding:"required,gt=0"`
	PhoneNumber     string   `json:"phone_number"`
}

type UpdateDoctorProfileRequest struct {
	Name            *string           `json:"name"`
	Email           *string           `json:"email" binding:"omitempty,email"`
	Password        *string           `json:"password" binding:"omitempty,min=8"`
	Department      *string           `json:"department"`
	Specializations *[]string         `json:"specializations"`
	Experience      *int              `json:"experience"`
	Fee             *int64            `json:"fee" binding:"omitempty,gt=0"`
	Availability    *AvailabilityList `json:"availability"`
	Bio             *string           `json:"bio"`
	PhoneNumber     *string           `json:"phone_number"`
	Address         *string           `json:"address"`
}
