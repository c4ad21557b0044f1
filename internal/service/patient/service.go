package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/medibook/hospital-api/internal/model"
	"github.com/medibook/hospital-api/internal/repository"
)

const bcryptCost = 10

type Service struct {
	patients repository.PatientRepository
}

func NewService(patients repository.PatientRepository) *Service {
	return &Service{patients: patients}
}

func (s *Service) GetProfile(ctx context.Context, patientID uuid.UUID) (*model.Patient, error) {
	return s.patients.Get(ctx, patientID)
}

// UpdateProfile applies a partial update; supplying a password re-hashes it.
func (s *Service) UpdateProfile(ctx context.Context, patientID uuid.UUID, req *model.UpdatePatientProfileRequest) (*model.Patient, error) {
	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Age != nil {
		patient.Age = *req.Age
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.BloodGroup != nil {
		patient.BloodGroup = *req.BloodGroup
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = pq.StringArray(*req.MedicalHistory)
	}
	if req.Allergies != nil {
		patient.Allergies = pq.StringArray(*req.Allergies)
	}
	if req.PhoneNumber != nil {
		patient.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.EmergencyContact != nil {
		patient.EmergencyContact = *req.EmergencyContact
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		patient.PasswordHash = string(hash)
	}

	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}
