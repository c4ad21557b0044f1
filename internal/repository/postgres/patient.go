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

const patientColumns = `
	id, name, email, password_hash, age, gender, blood_group, medical_history,
	allergies, phone_number, address, profile_picture, emergency_contact,
	reset_code, reset_code_expires, token_version, created_at, updated_at
`

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, name, email, password_hash, age, gender, blood_group,
			medical_history, allergies, phone_number, address, profile_picture,
			emergency_contact, token_version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.Name,
		patient.Email,
		patient.PasswordHash,
		patient.Age,
		patient.Gender,
		patient.BloodGroup,
		patient.MedicalHistory,
		patient.Allergies,
		patient.PhoneNumber,
		patient.Address,
		patient.ProfilePicture,
		patient.EmergencyContact,
		patient.TokenVersion,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE email = $1`

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient by email: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients SET
			name = $1, email = $2, password_hash = $3, age = $4, gender = $5,
			blood_group = $6, medical_history = $7, allergies = $8,
			phone_number = $9, address = $10, profile_picture = $11,
			emergency_contact = $12, reset_code = $13, reset_code_expires = $14,
			token_version = $15, updated_at = $16
		WHERE id = $17
	`
	patient.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.Email,
		patient.PasswordHash,
		patient.Age,
		patient.Gender,
		patient.BloodGroup,
		patient.MedicalHistory,
		patient.Allergies,
		patient.PhoneNumber,
		patient.Address,
		patient.ProfilePicture,
		patient.EmergencyContact,
		patient.ResetCode,
		patient.ResetCodeExpires,
		patient.TokenVersion,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("patient", nil)
	}
	return nil
}
