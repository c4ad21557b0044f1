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

const referralColumns = `
	id, patient_id, from_doctor_id, to_doctor_id, referral_date, notes,
	status, created_at, updated_at
`

func (r *referralRepository) Create(ctx context.Context, referral *model.Referral) error {
	query := `
		INSERT INTO referrals (
			id, patient_id, from_doctor_id, to_doctor_id, referral_date,
			notes, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	referral.ID = uuid.New()
	referral.CreatedAt = time.Now()
	referral.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		referral.ID,
		referral.PatientID,
		referral.FromDoctorID,
		referral.ToDoctorID,
		referral.ReferralDate,
		referral.Notes,
		referral.Status,
		referral.CreatedAt,
		referral.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create referral: %w", err)
	}
	return nil
}

func (r *referralRepository) Get(ctx context.Context, id uuid.UUID) (*model.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE id = $1`

	var referral model.Referral
	if err := r.db.GetContext(ctx, &referral, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("referral", err)
		}
		return nil, fmt.Errorf("failed to get referral: %w", err)
	}
	return &referral, nil
}

func (r *referralRepository) Update(ctx context.Context, referral *model.Referral) error {
	query := `
		UPDATE referrals SET
			referral_date = $1, notes = $2, status = $3, updated_at = $4
		WHERE id = $5
	`
	referral.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		referral.ReferralDate,
		referral.Notes,
		referral.Status,
		referral.UpdatedAt,
		referral.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update referral: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("referral", nil)
	}
	return nil
}

func (r *referralRepository) ListSent(ctx context.Context, fromDoctorID uuid.UUID) ([]*model.Referral, error) {
	query := `SELECT ` + referralColumns + `
		FROM referrals
		WHERE from_doctor_id = $1
		ORDER BY created_at DESC`

	var referrals []*model.Referral
	if err := r.db.SelectContext(ctx, &referrals, query, fromDoctorID); err != nil {
		return nil, fmt.Errorf("failed to list sent referrals: %w", err)
	}
	return referrals, nil
}

func (r *referralRepository) ListReceived(ctx context.Context, toDoctorID uuid.UUID) ([]*model.Referral, error) {
	query := `SELECT ` + referralColumns + `
		FROM referrals
		WHERE to_doctor_id = $1
		ORDER BY created_at DESC`

	var referrals []*model.Referral
	if err := r.db.SelectContext(ctx, &referrals, query, toDoctorID); err != nil {
		return nil, fmt.Errorf("failed to list received referrals: %w", err)
	}
	return referrals, nil
}

func (r *referralRepository) ListForDoctorBetween(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.Referral, error) {
	query := `SELECT ` + referralColumns + `
		FROM referrals
		WHERE (from_doctor_id = $1 OR to_doctor_id = $1)
		AND created_at >= $2
		AND created_at <= $3
		ORDER BY created_at ASC`

	var referrals []*model.Referral
	if err := r.db.SelectContext(ctx, &referrals, query, doctorID, start, end); err != nil {
		return nil, fmt.Errorf("failed to list referrals in range: %w", err)
	}
	return referrals, nil
}
