package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// EmergencyContact is stored as a single JSONB column.
type EmergencyContact struct {
	Name         string `json:"name,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
}

func (e EmergencyContact) Value() (driver.Value, error) {
	if e == (EmergencyContact{}) {
		return nil, nil
	}
	return json.Marshal(e)
}

func (e *EmergencyContact) Scan(src interface{}) error {
	if src == nil {
		*e = EmergencyContact{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported emergency contact column type %T", src)
	}
	return json.Unmarshal(b, e)
}

type Patient struct {
	Base
	Name             string           `db:"name" json:"name"`
	Email            string           `db:"email" json:"email"`
	PasswordHash     string           `db:"password_hash" json:"-"`
	Age              int              `db:"age" json:"age"`
	Gender           Gender           `db:"gender" json:"gender"`
	BloodGroup       string           `db:"blood_group" json:"blood_group,omitempty"`
	MedicalHistory   pq.StringArray   `db:"medical_history" json:"medical_history"`
	Allergies        pq.StringArray   `db:"allergies" json:"allergies"`
	PhoneNumber      string           `db:"phone_number" json:"phone_number"`
	Address          string           `db:"address" json:"address,omitempty"`
	ProfilePicture   string           `db:"profile_picture" json:"profile_picture,omitempty"`
	EmergencyContact EmergencyContact `db:"emergency_contact" json:"emergency_contact"`
	ResetCode        *string          `db:"reset_code" json:"-"`
	ResetCodeExpires *time.Time       `db:"reset_code_expires" json:"-"`
	TokenVersion     int              `db:"token_version" json:"-"`
}

type RegisterPatientRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Age         int    `json:"age" binding:"required,gt=0"`
	Gender      Gender `json:"gender" binding:"required,oneof=Male Female Other"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Address     string `json:"address"`
}

type UpdatePatientProfileRequest struct {
	Name             *string           `json:"name"`
	Email            *string           `json:"email" binding:"omitempty,email"`
	Password         *string           `json:"password" binding:"omitempty,min=8"`
	Age              *int              `json:"age" binding:"omitempty,gt=0"`
	Gender           *Gender           `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	BloodGroup       *string           `json:"blood_group"`
	MedicalHistory   *[]string         `json:"medical_history"`
	Allergies        *[]string         `json:"allergies"`
	PhoneNumber      *string           `json:"phone_number"`
	Address          *string           `json:"address"`
	EmergencyContact *EmergencyContact `json:"emergency_contact"`
}
