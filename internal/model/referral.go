package model

import (
	"time"

	"github.com/google/uuid"
)

type ReferralStatus string

const (
	ReferralStatusPending  ReferralStatus = "pending"
	ReferralStatusAccepted ReferralStatus = "accepted"
	ReferralStatusDeclined ReferralStatus = "declined"
)

// Referral actions, accepted by the resolve endpoint.
const (
	ReferralActionAccept  = "accept"
	ReferralActionDecline = "decline"
)

type Referral struct {
	Base
	PatientID    uuid.UUID      `db:"patient_id" json:"patient_id"`
	FromDoctorID uuid.UUID      `db:"from_doctor_id" json:"from_doctor_id"`
	ToDoctorID   uuid.UUID      `db:"to_doctor_id" json:"to_doctor_id"`
	ReferralDate time.Time      `db:"referral_date" json:"referral_date"`
	Notes        string         `db:"notes" json:"notes"`
	Status       ReferralStatus `db:"status" json:"status"`
}

type CreateReferralRequest struct {
	PatientID    uuid.UUID `json:"patient_id" binding:"required"`
	ToDoctorID   uuid.UUID `json:"to_doctor_id" binding:"required"`
	ReferralDate time.Time `json:"referral_date" binding:"required"`
	Notes        string    `json:"notes" binding:"max=2000"`
}
