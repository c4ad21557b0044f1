package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/medibook/hospital-api/internal/email"
	"github.com/medibook/hospital-api/internal/model"
	"github.com/medibook/hospital-api/internal/repository"
	"github.com/medibook/hospital-api/pkg/auth"
	apperrors "github.com/medibook/hospital-api/pkg/errors"
)

const (
	bcryptCost      = 10
	resetCodeExpiry = 1 * time.Hour
)

type Service struct {
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	tokens   auth.TokenIssuer
	emailSvc email.Service
}

func NewService(doctors repository.DoctorRepository, patients repository.PatientRepository,
	tokens auth.TokenIssuer, emailSvc email.Service) *Service {
	return &Service{
		doctors:  doctors,
		patients: patients,
		tokens:   tokens,
		emailSvc: emailSvc,
	}
}

func (s *Service) RegisterDoctor(ctx context.Context, req *model.RegisterDoctorRequest) (*model.AuthResponse, error) {
	if existing, _ := s.doctors.GetByEmail(ctx, req.Email); existing != nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	doctor := &model.Doctor{
		Name:            req.Name,
		Email:           req.Email,
		PasswordHash:    hash,
		Department:      req.Department,
		Specializations: pq.StringArray(req.Specializations),
		Fee:             req.Fee,
		PhoneNumber:     req.PhoneNumber,
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}

	return s.authResponse(doctor.ID, doctor.Name, doctor.Email, model.RoleDoctor, doctor.TokenVersion)
}

func (s *Service) RegisterPatient(ctx context.Context, req *model.RegisterPatientRequest) (*model.AuthResponse, error) {
	if existing, _ := s.patients.GetByEmail(ctx, req.Email); existing != nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	patient := &model.Patient{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Age:          req.Age,
		Gender:       req.Gender,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	return s.authResponse(patient.ID, patient.Name, patient.Email, model.RolePatient, patient.TokenVersion)
}

func (s *Service) LoginDoctor(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	doctor, err := s.doctors.GetByEmail(ctx, req.Email)
	if err != nil || !passwordMatches(doctor.PasswordHash, req.Password) {
		return nil, apperrors.NewUnauthorized("invalid email or password", nil)
	}
	return s.authResponse(doctor.ID, doctor.Name, doctor.Email, model.RoleDoctor, doctor.TokenVersion)
}

func (s *Service) LoginPatient(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	patient, err := s.patients.GetByEmail(ctx, req.Email)
	if err != nil || !passwordMatches(patient.PasswordHash, req.Password) {
		return nil, apperrors.NewUnauthorized("invalid email or password", nil)
	}
	return s.authResponse(patient.ID, patient.Name, patient.Email, model.RolePatient, patient.TokenVersion)
}

// ChangeDoctorPassword re-hashes the new password, bumps the token version so
// every previously issued token dies on its next live lookup, and returns a
// token bound to the new version.
func (s *Service) ChangeDoctorPassword(ctx context.Context, doctorID uuid.UUID, req *model.ChangePasswordRequest) (string, error) {
	doctor, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		return "", err
	}
	if !passwordMatches(doctor.PasswordHash, req.CurrentPassword) {
		return "", apperrors.NewUnauthorized("current password is incorrect", nil)
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return "", err
	}
	doctor.PasswordHash = hash
	doctor.TokenVersion++
	if err := s.doctors.Update(ctx, doctor); err != nil {
		return "", fmt.Errorf("failed to update doctor password: %w", err)
	}

	return s.tokens.Issue(doctor.ID, model.RoleDoctor, doctor.TokenVersion)
}

func (s *Service) ChangePatientPassword(ctx context.Context, patientID uuid.UUID, req *model.ChangePasswordRequest) (string, error) {
	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return "", err
	}
	if !passwordMatches(patient.PasswordHash, req.CurrentPassword) {
		return "", apperrors.NewUnauthorized("current password is incorrect", nil)
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return "", err
	}
	patient.PasswordHash = hash
	patient.TokenVersion++
	if err := s.patients.Update(ctx, patient); err != nil {
		return "", fmt.Errorf("failed to update patient password: %w", err)
	}

	return s.tokens.Issue(patient.ID, model.RolePatient, patient.TokenVersion)
}

func (s *Service) RequestDoctorReset(ctx context.Context, emailAddr string) error {
	doctor, err := s.doctors.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	code, expires, err := newResetCode()
	if err != nil {
		return err
	}
	doctor.ResetCode = &code
	doctor.ResetCodeExpires = &expires
	if err := s.doctors.Update(ctx, doctor); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	if err := s.emailSvc.SendResetCode(ctx, doctor.Email, code); err != nil {
		log.Error().Err(err).Msg("failed to deliver reset code")
	}
	return nil
}

func (s *Service) RequestPatientReset(ctx context.Context, emailAddr string) error {
	patient, err := s.patients.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	code, expires, err := newResetCode()
	if err != nil {
		return err
	}
	patient.ResetCode = &code
	patient.ResetCodeExpires = &expires
	if err := s.patients.Update(ctx, patient); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	if err := s.emailSvc.SendResetCode(ctx, patient.Email, code); err != nil {
		log.Error().Err(err).Msg("failed to deliver reset code")
	}
	return nil
}

// ResolveDoctorReset consumes a reset code: on success the new password hash
// is stored and the code cleared, so it cannot be replayed.
func (s *Service) ResolveDoctorReset(ctx context.Context, req *model.ResolveResetRequest) (string, error) {
	doctor, err := s.doctors.GetByEmail(ctx, req.Email)
	if err != nil || !resetCodeValid(doctor.ResetCode, doctor.ResetCodeExpires, req.ResetCode) {
		return "", apperrors.NewBadRequest("invalid or expired reset code", nil)
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return "", err
	}
	doctor.PasswordHash = hash
	doctor.ResetCode = nil
	doctor.ResetCodeExpires = nil
	if err := s.doctors.Update(ctx, doctor); err != nil {
		return "", fmt.Errorf("failed to reset doctor password: %w", err)
	}

	return s.tokens.Issue(doctor.ID, model.RoleDoctor, doctor.TokenVersion)
}

func (s *Service) ResolvePatientReset(ctx context.Context, req *model.ResolveResetRequest) (string, error) {
	patient, err := s.patients.GetByEmail(ctx, req.Email)
	if err != nil || !resetCodeValid(patient.ResetCode, patient.ResetCodeExpires, req.ResetCode) {
		return "", apperrors.NewBadRequest("invalid or expired reset code", nil)
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return "", err
	}
	patient.PasswordHash = hash
	patient.ResetCode = nil
	patient.ResetCodeExpires = nil
	if err := s.patients.Update(ctx, patient); err != nil {
		return "", fmt.Errorf("failed to reset patient password: %w", err)
	}

	return s.tokens.Issue(patient.ID, model.RolePatient, patient.TokenVersion)
}

// LogoutAllDoctor bumps the token version, invalidating every token issued
// before this call.
func (s *Service) LogoutAllDoctor(ctx context.Context, doctorID uuid.UUID) error {
	doctor, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		return err
	}
	doctor.TokenVersion++
	if err := s.doctors.Update(ctx, doctor); err != nil {
		return fmt.Errorf("failed to bump doctor token version: %w", err)
	}
	return nil
}

func (s *Service) LogoutAllPatient(ctx context.Context, patientID uuid.UUID) error {
	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return err
	}
	patient.TokenVersion++
	if err := s.patients.Update(ctx, patient); err != nil {
		return fmt.Errorf("failed to bump patient token version: %w", err)
	}
	return nil
}

func (s *Service) authResponse(id uuid.UUID, name, emailAddr string, role model.Role, tokenVersion int) (*model.AuthResponse, error) {
	token, err := s.tokens.Issue(id, role, tokenVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &model.AuthResponse{
		ID:    id,
		Name:  name,
		Email: emailAddr,
		Role:  role,
		Token: token,
	}, nil
}

func hashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func passwordMatches(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// newResetCode generates a single-use 6-digit numeric code with a one hour
// expiry.
func newResetCode() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate reset code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)
	return code, time.Now().Add(resetCodeExpiry), nil
}

func resetCodeValid(stored *string, expires *time.Time, supplied string) bool {
	if stored == nil || expires == nil {
		return false
	}
	if *stored != supplied {
		return false
	}
	return time.Now().Before(*expires)
}
