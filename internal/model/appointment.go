package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "Pending"
	AppointmentStatusConfirmed AppointmentStatus = "Confirmed"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
	PaymentStatusRefunded  PaymentStatus = "Refunded"
)

// PaymentInfo is the payment axis of an appointment. It is flattened into
// payment_* columns and selected back with "payment.x" aliases.
type PaymentInfo struct {
	Amount           int64         `db:"amount" json:"amount"`
	Status           PaymentStatus `db:"status" json:"status"`
	GatewayOrderID   string        `db:"gateway_order_id" json:"gateway_order_id,omitempty"`
	GatewayPaymentID string        `db:"gateway_payment_id" json:"gateway_payment_id,omitempty"`
}

// Prescription is stored as a single JSONB column; an empty value means no
// prescription has been written yet.
type Prescription struct {
	Medications  []string   `json:"medications"`
	Notes        string     `json:"notes,omitempty"`
	FollowUpDate *time.Time `json:"follow_up_date,omitempty"`
}

func (p Prescription) Value() (driver.Value, error) {
	if len(p.Medications) == 0 && p.Notes == "" && p.FollowUpDate == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *Prescription) Scan(src interface{}) error {
	if src == nil {
		*p = Prescription{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported prescription column type %T", src)
	}
	return json.Unmarshal(b, p)
}

type Appointment struct {
	Base
	PatientID       uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	TimeSlot        string            `db:"time_slot" json:"time_slot"`
	Problem         string            `db:"problem" json:"problem"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Payment         PaymentInfo       `db:"payment" json:"payment"`
	Prescription    Prescription      `db:"prescription" json:"prescription"`
	Notes           string            `db:"notes" json:"notes,omitempty"`
}

type BookAppointmentRequest struct {
	DoctorID        uuid.UUID `json:"doctor_id" binding:"required"`
	AppointmentDate time.Time `json:"appointment_date" binding:"required"`
	TimeSlot        string    `json:"time_slot" binding:"required,timeslot"`
	Problem         string    `json:"problem" binding:"required,max=2000"`
}

type VerifyPaymentRequest struct {
	AppointmentID    uuid.UUID `json:"appointment_id" binding:"required"`
	GatewayOrderID   string    `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string    `json:"gateway_payment_id" binding:"required"`
	Signature        string    `json:"signature" binding:"required"`
}

type UpdateAppointmentStatusRequest struct {
	AppointmentID uuid.UUID         `json:"appointment_id" binding:"required"`
	Status        AppointmentStatus `json:"status" binding:"required,oneof=Pending Confirmed Completed Cancelled"`
}

type AddPrescriptionRequest struct {
	AppointmentID uuid.UUID  `json:"appointment_id" binding:"required"`
	Medications   []string   `json:"medications" binding:"required,min=1"`
	Notes         string     `json:"notes"`
	FollowUpDate  *time.Time `json:"follow_up_date"`
}

// Bill is the patient-facing invoice projection of a paid appointment.
type Bill struct {
	BillNumber string    `json:"bill_number"`
	Date       time.Time `json:"date"`
	Patient    struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number"`
	} `json:"patient"`
	Doctor struct {
		Name       string `json:"name"`
		Department string `json:"department"`
	} `json:"doctor"`
	Appointment struct {
		Date     time.Time `json:"date"`
		TimeSlot string    `json:"time_slot"`
		Problem  string    `json:"problem"`
	} `json:"appointment"`
	Payment PaymentInfo `json:"payment"`
}
