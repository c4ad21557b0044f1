package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/hospital-api/internal/model"
	"github.com/medibook/hospital-api/pkg/auth"
	apperrors "github.com/medibook/hospital-api/pkg/errors"
)

type fakeDoctorRepo struct {
	byID    map[uuid.UUID]*model.Doctor
	byEmail map[string]*model.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{
		byID:    make(map[uuid.UUID]*model.Doctor),
		byEmail: make(map[string]*model.Doctor),
	}
}

func (r *fakeDoctorRepo) Create(_ context.Context, d *model.Doctor) error {
	d.ID = uuid.New()
	r.byID[d.ID] = d
	r.byEmail[d.Email] = d
	return nil
}

func (r *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NewNotFound("doctor", nil)
	}
	return d, nil
}

func (r *fakeDoctorRepo) GetByEmail(_ context.Context, email string) (*model.Doctor, error) {
	d, ok := r.byEmail[email]
	if !ok {
		return nil, apperrors.NewNotFound("doctor", nil)
	}
	return d, nil
}

func (r *fakeDoctorRepo) Update(_ context.Context, d *model.Doctor) error {
	if _, ok := r.byID[d.ID]; !ok {
		return apperrors.NewNotFound("doctor", nil)
	}
	r.byID[d.ID] = d
	r.byEmail[d.Email] = d
	return nil
}

func (r *fakeDoctorRepo) ListApproved(_ context.Context) ([]*model.Doctor, error) { return nil, nil }
func (r *fakeDoctorRepo) ListByDepartment(_ context.Context, _ string) ([]*model.Doctor, error) {
	return nil, nil
}

type fakePatientRepo struct {
	byID    map[uuid.UUID]*model.Patient
	byEmail map[string]*model.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{
		byID:    make(map[uuid.UUID]*model.Patient),
		byEmail: make(map[string]*model.Patient),
	}
}

func (r *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	p.ID = uuid.New()
	r.byID[p.ID] = p
	r.byEmail[p.Email] = p
	return nil
}

func (r *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NewNotFound("patient", nil)
	}
	return p, nil
}

func (r *fakePatientRepo) GetByEmail(_ context.Context, email string) (*model.Patient, error) {
	p, ok := r.byEmail[email]
	if !ok {
		return nil, apperrors.NewNotFound("patient", nil)
	}
	return p, nil
}

func (r *fakePatientRepo) Update(_ context.Context, p *model.Patient) error {
	if _, ok := r.byID[p.ID]; !ok {
		return apperrors.NewNotFound("patient", nil)
	}
	r.byID[p.ID] = p
	r.byEmail[p.Email] = p
	return nil
}

type capturingEmail struct {
	to   string
	code string
}

func (e *capturingEmail) SendResetCode(_ context.Context, to, code string) error {
	e.to = to
	e.code = code
	return nil
}

func newTestService() (*Service, *fakeDoctorRepo, *fakePatientRepo, *capturingEmail) {
	doctors := newFakeDoctorRepo()
	patients := newFakePatientRepo()
	mail := &capturingEmail{}
	svc := NewService(doctors, patients, auth.NewJWTIssuer("test-secret"), mail)
	return svc, doctors, patients, mail
}

func doctorRegistration() *model.RegisterDoctorRequest {
	return &model.RegisterDoctorRequest{
		Name:       "Dr. Rao",
		Email:      "rao@example.com",
		Password:   "correct-horse",
		Department: "Cardiology",
		Fee:        500,
	}
}

func patientRegistration() *model.RegisterPatientRequest {
	return &model.RegisterPatientRequest{
		Name:        "Asha",
		Email:       "asha@example.com",
		Password:    "battery-staple",
		Age:         31,
		Gender:      model.GenderFemale,
		PhoneNumber: "9999999999",
	}
}

func TestRegisterAndLoginDoctor(t *testing.T) {
	svc, doctors, _, _ := newTestService()

	resp, err := svc.RegisterDoctor(context.Background(), doctorRegistration())
	require.NoError(t, err)
	assert.Equal(t, model.RoleDoctor, resp.Role)
	assert.NotEmpty(t, resp.Token)

	stored := doctors.byEmail["rao@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "correct-horse", stored.PasswordHash)

	login, err := svc.LoginDoctor(context.Background(), &model.LoginRequest{
		Email: "rao@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.ID, login.ID)
}

func TestRegisterDoctorDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.RegisterDoctor(context.Background(), doctorRegistration())
	require.NoError(t, err)

	_, err = svc.RegisterDoctor(context.Background(), doctorRegistration())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.RegisterPatient(context.Background(), patientRegistration())
	require.NoError(t, err)

	_, err = svc.LoginPatient(context.Background(), &model.LoginRequest{
		Email: "asha@example.com", Password: "wrong",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))

	_, err = svc.LoginPatient(context.Background(), &model.LoginRequest{
		Email: "nobody@example.com", Password: "wrong",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestChangePasswordInvalidatesOldTokens(t *testing.T) {
	svc, _, patients, _ := newTestService()
	resp, err := svc.RegisterPatient(context.Background(), patientRegistration())
	require.NoError(t, err)

	before := patients.byID[resp.ID].TokenVersion

	_, err = svc.ChangePatientPassword(context.Background(), resp.ID, &model.ChangePasswordRequest{
		CurrentPassword: "battery-staple",
		NewPassword:     "new-passphrase",
	})
	require.NoError(t, err)
	assert.Equal(t, before+1, patients.byID[resp.ID].TokenVersion)

	_, err = svc.LoginPatient(context.Background(), &model.LoginRequest{
		Email: "asha@example.com", Password: "new-passphrase",
	})
	assert.NoError(t, err)
}

func TestChangePasswordRejectsWrongCurrent(t *testing.T) {
	svc, _, _, _ := newTestService()
	resp, err := svc.RegisterPatient(context.Background(), patientRegistration())
	require.NoError(t, err)

	_, err = svc.ChangePatientPassword(context.Background(), resp.ID, &model.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-passphrase",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestResetFlow(t *testing.T) {
	svc, _, patients, mail := newTestService()
	resp, err := svc.RegisterPatient(context.Background(), patientRegistration())
	require.NoError(t, err)

	require.NoError(t, svc.RequestPatientReset(context.Background(), "asha@example.com"))
	assert.Equal(t, "asha@example.com", mail.to)
	assert.Len(t, mail.code, 6)

	token, err := svc.ResolvePatientReset(context.Background(), &model.ResolveResetRequest{
		Email:       "asha@example.com",
		ResetCode:   mail.code,
		NewPassword: "reset-passphrase",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Code is single use.
	stored := patients.byID[resp.ID]
	assert.Nil(t, stored.ResetCode)
	assert.Nil(t, stored.ResetCodeExpires)

	_, err = svc.ResolvePatientReset(context.Background(), &model.ResolveResetRequest{
		Email:       "asha@example.com",
		ResetCode:   mail.code,
		NewPassword: "another",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	_, err = svc.LoginPatient(context.Background(), &model.LoginRequest{
		Email: "asha@example.com", Password: "reset-passphrase",
	})
	assert.NoError(t, err)
}

func TestResetRejectsWrongAndExpiredCodes(t *testing.T) {
	svc, _, patients, mail := newTestService()
	resp, err := svc.RegisterPatient(context.Background(), patientRegistration())
	require.NoError(t, err)

	require.NoError(t, svc.RequestPatientReset(context.Background(), "asha@example.com"))

	// Wrong and expired codes both answer as bad requests.
	_, err = svc.ResolvePatientReset(context.Background(), &model.ResolveResetRequest{
		Email:       "asha@example.com",
		ResetCode:   "000000",
		NewPassword: "whatever",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	expired := time.Now().Add(-time.Minute)
	patients.byID[resp.ID].ResetCodeExpires = &expired
	_, err = svc.ResolvePatientReset(context.Background(), &model.ResolveResetRequest{
		Email:       "asha@example.com",
		ResetCode:   mail.code,
		NewPassword: "whatever",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestLogoutAllBumpsTokenVersion(t *testing.T) {
	svc, doctors, _, _ := newTestService()
	resp, err := svc.RegisterDoctor(context.Background(), doctorRegistration())
	require.NoError(t, err)

	before := doctors.byID[resp.ID].TokenVersion
	require.NoError(t, svc.LogoutAllDoctor(context.Background(), resp.ID))
	assert.Equal(t, before+1, doctors.byID[resp.ID].TokenVersion)
}
