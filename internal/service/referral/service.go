package referral

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medibook/hospital-api/internal/model"
	"github.com/medibook/hospital-api/internal/repository"
	apperrors "github.com/medibook/hospital-api/pkg/errors"
)

type Service struct {
	referrals repository.ReferralRepository
	doctors   repository.DoctorRepository
	patients  repository.PatientRepository
}

func NewService(referrals repository.ReferralRepository, doctors repository.DoctorRepository,
	patients repository.PatientRepository) *Service {
	return &Service{
		referrals: referrals,
		doctors:   doctors,
		patients:  patients,
	}
}

// Create opens a pending referral after confirming both the patient and the
// receiving doctor exist.
func (s *Service) Create(ctx context.Context, fromDoctorID uuid.UUID, req *model.CreateReferralRequest) (*model.Referral, error) {
	if req.ToDoctorID == fromDoctorID {
		return nil, apperrors.NewBadRequest("cannot refer a patient to yourself", nil)
	}
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, err
	}
	if _, err := s.doctors.Get(ctx, req.ToDoctorID); err != nil {
		return nil, err
	}

	referral := &model.Referral{
		PatientID:    req.PatientID,
		FromDoctorID: fromDoctorID,
		ToDoctorID:   req.ToDoctorID,
		ReferralDate: req.ReferralDate,
		Notes:        req.Notes,
		Status:       model.ReferralStatusPending,
	}
	if err := s.referrals.Create(ctx, referral); err != nil {
		return nil, fmt.Errorf("failed to create referral: %w", err)
	}
	return referral, nil
}

// Resolve accepts or declines a pending referral. Only the receiving doctor
// may resolve it, and only once.
func (s *Service) Resolve(ctx context.Context, doctorID, referralID uuid.UUID, action string) (*model.Referral, error) {
	var target model.ReferralStatus
	switch action {
	case model.ReferralActionAccept:
		target = model.ReferralStatusAccepted
	case model.ReferralActionDecline:
		target = model.ReferralStatusDeclined
	default:
		return nil, apperrors.NewBadRequest(fmt.Sprintf("unknown referral action %q", action), nil)
	}

	referral, err := s.referrals.Get(ctx, referralID)
	if err != nil {
		return nil, err
	}
	if referral.ToDoctorID != doctorID {
		return nil, apperrors.NewForbidden("referral is addressed to another doctor", nil)
	}
	if referral.Status != model.ReferralStatusPending {
		return nil, apperrors.NewConflict(
			fmt.Sprintf("referral already %s", referral.Status), nil)
	}

	referral.Status = target
	if err := s.referrals.Update(ctx, referral); err != nil {
		return nil, fmt.Errorf("failed to resolve referral: %w", err)
	}
	return referral, nil
}

func (s *Service) ListSent(ctx context.Context, doctorID uuid.UUID) ([]*model.Referral, error) {
	return s.referrals.ListSent(ctx, doctorID)
}

func (s *Service) ListReceived(ctx context.Context, doctorID uuid.UUID) ([]*model.Referral, error) {
	return s.referrals.ListReceived(ctx, doctorID)
}
