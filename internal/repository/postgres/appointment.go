package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/hospital-api/internal/model"
	apperrors "github.com/medibook/hospital-api/pkg/errors"
)

// payment_* columns are aliased into the nested PaymentInfo struct.
const appointmentColumns = `
	id, patient_id, doctor_id, appointment_date, time_slot, problem, status,
	payment_amount AS "payment.amount",
	payment_status AS "payment.status",
	gateway_order_id AS "payment.gateway_order_id",
	gateway_payment_id AS "payment.gateway_payment_id",
	prescription, notes, created_at, updated_at
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, appointment_date, time_slot, problem,
			status, payment_amount, payment_status, gateway_order_id,
			gateway_payment_id, prescription, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.AppointmentDate,
		appointment.TimeSlot,
		appointment.Problem,
		appointment.Status,
		appointment.Payment.Amount,
		appointment.Payment.Status,
		appointment.Payment.GatewayOrderID,
		appointment.Payment.GatewayPaymentID,
		appointment.Prescription,
		appointment.Notes,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments SET
			appointment_date = $1, time_slot = $2, problem = $3, status = $4,
			payment_amount = $5, payment_status = $6, gateway_order_id = $7,
			gateway_payment_id = $8, prescription = $9, notes = $10,
			updated_at = $11
		WHERE id = $12
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.AppointmentDate,
		appointment.TimeSlot,
		appointment.Problem,
		appointment.Status,
		appointment.Payment.Amount,
		appointment.Payment.Status,
		appointment.Payment.GatewayOrderID,
		appointment.Payment.GatewayPaymentID,
		appointment.Prescription,
		appointment.Notes,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1
		ORDER BY appointment_date ASC`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1
		ORDER BY appointment_date ASC`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForDoctorBetween(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1
		AND appointment_date >= $2
		AND appointment_date <= $3
		ORDER BY appointment_date ASC`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, start, end); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments in range: %w", err)
	}
	return appointments, nil
}
