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

const doctorColumns = `
	id, name, email, password_hash, department, specializations, experience,
	fee, availability, profile_picture, bio, phone_number, address,
	is_approved, reset_code, reset_code_expires, token_version,
	created_at, updated_at
`

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, name, email, password_hash, department, specializations,
			experience, fee, availability, profile_picture, bio, phone_number,
			address, is_approved, token_version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Email,
		doctor.PasswordHash,
		doctor.Department,
		doctor.Specializations,
		doctor.Experience,
		doctor.Fee,
		doctor.Availability,
		doctor.ProfilePicture,
		doctor.Bio,
		doctor.PhoneNumber,
		doctor.Address,
		doctor.IsApproved,
		doctor.TokenVersion,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1`

	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE email = $1`

	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor by email: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors SET
			name = $1, email = $2, password_hash = $3, department = $4,
			specializations = $5, experience = $6, fee = $7, availability = $8,
			profile_picture = $9, bio = $10, phone_number = $11, address = $12,
			is_approved = $13, reset_code = $14, reset_code_expires = $15,
			token_version = $16, updated_at = $17
		WHERE id = $18
	`
	doctor.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		doctor.Name,
		doctor.Email,
		doctor.PasswordHash,
		doctor.Department,
		doctor.Specializations,
		doctor.Experience,
		doctor.Fee,
		doctor.Availability,
		doctor.ProfilePicture,
		doctor.Bio,
		doctor.PhoneNumber,
		doctor.Address,
		doctor.IsApproved,
		doctor.ResetCode,
		doctor.ResetCodeExpires,
		doctor.TokenVersion,
		doctor.UpdatedAt,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) ListApproved(ctx context.Context) ([]*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE is_approved = TRUE ORDER BY name ASC`

	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) ListByDepartment(ctx context.Context, department string) ([]*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE department = $1 AND is_approved = TRUE ORDER BY name ASC`

	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query, department); err != nil {
		return nil, fmt.Errorf("failed to list doctors by department: %w", err)
	}
	return doctors, nil
}
