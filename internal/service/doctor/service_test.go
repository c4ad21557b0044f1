package doctor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/hospital-api/internal/model"
	apperrors "github.com/medibook/hospital-api/pkg/errors"
)

type fakeDoctorRepo struct {
	doctors   map[uuid.UUID]*model.Doctor
	listCalls int
}

func (r *fakeDoctorRepo) Create(_ context.Context, _ *model.Doctor) error { return nil }
func (r *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, apperrors.NewNotFound("doctor", nil)
	}
	return d, nil
}
func (r *fakeDoctorRepo) GetByEmail(_ context.Context, _ string) (*model.Doctor, error) {
	return nil, apperrors.NewNotFound("doctor", nil)
}
func (r *fakeDoctorRepo) Update(_ context.Context, d *model.Doctor) error {
	r.doctors[d.ID] = d
	return nil
}
func (r *fakeDoctorRepo) ListApproved(_ context.Context) ([]*model.Doctor, error) {
	r.listCalls++
	var out []*model.Doctor
	for _, d := range r.doctors {
		if d.IsApproved {
			out = append(out, d)
		}
	}
	return out, nil
}
func (r *fakeDoctorRepo) ListByDepartment(_ context.Context, department string) ([]*model.Doctor, error) {
	var out []*model.Doctor
	for _, d := range r.doctors {
		if d.IsApproved && d.Department == department {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeAppointmentRepo struct {
	items []*model.Appointment
}

func (r *fakeAppointmentRepo) Create(_ context.Context, _ *model.Appointment) error { return nil }
func (r *fakeAppointmentRepo) Get(_ context.Context, _ uuid.UUID) (*model.Appointment, error) {
	return nil, apperrors.NewNotFound("appointment", nil)
}
func (r *fakeAppointmentRepo) Update(_ context.Context, _ *model.Appointment) error { return nil }
func (r *fakeAppointmentRepo) ListForPatient(_ context.Context, _ uuid.UUID) ([]*model.Appointment, error) {
	return nil, nil
}
func (r *fakeAppointmentRepo) ListForDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range r.items {
		if a.DoctorID == doctorID {
			out = append(out, a)
		}
	}
	return out, nil
}
func (r *fakeAppointmentRepo) ListForDoctorBetween(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*model.Appointment, error) {
	return nil, nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func (r *fakePatientRepo) Create(_ context.Context, _ *model.Patient) error { return nil }
func (r *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, apperrors.NewNotFound("patient", nil)
	}
	return p, nil
}
func (r *fakePatientRepo) GetByEmail(_ context.Context, _ string) (*model.Patient, error) {
	return nil, apperrors.NewNotFound("patient", nil)
}
func (r *fakePatientRepo) Update(_ context.Context, _ *model.Patient) error { return nil }

func approvedDoctor(name string) *model.Doctor {
	d := &model.Doctor{Name: name, Department: "Cardiology", Fee: 500, IsApproved: true}
	d.ID = uuid.New()
	return d
}

func TestListApprovedUsesCache(t *testing.T) {
	d := approvedDoctor("Dr. Rao")
	repo := &fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{d.ID: d}}
	svc := NewService(repo, &fakeAppointmentRepo{}, &fakePatientRepo{})

	first, err := svc.ListApproved(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 1)

	_, err = svc.ListApproved(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestUpdateProfileFlushesDirectoryCache(t *testing.T) {
	d := approvedDoctor("Dr. Rao")
	repo := &fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{d.ID: d}}
	svc := NewService(repo, &fakeAppointmentRepo{}, &fakePatientRepo{})

	_, err := svc.ListApproved(context.Background())
	require.NoError(t, err)

	newFee := int64(750)
	_, err = svc.UpdateProfile(context.Background(), d.ID, &model.UpdateDoctorProfileRequest{Fee: &newFee})
	require.NoError(t, err)

	listed, err := svc.ListApproved(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
	assert.Equal(t, int64(750), listed[0].Fee)
}

func TestUpdateProfileRehashesPassword(t *testing.T) {
	d := approvedDoctor("Dr. Rao")
	d.PasswordHash = "old-hash"
	repo := &fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{d.ID: d}}
	svc := NewService(repo, &fakeAppointmentRepo{}, &fakePatientRepo{})

	password := "new-passphrase"
	updated, err := svc.UpdateProfile(context.Background(), d.ID, &model.UpdateDoctorProfileRequest{Password: &password})
	require.NoError(t, err)
	assert.NotEqual(t, "old-hash", updated.PasswordHash)
	assert.NotEqual(t, password, updated.PasswordHash)
}

func TestPatientsSeenAggregatesCompletedVisits(t *testing.T) {
	d := approvedDoctor("Dr. Rao")
	p1 := &model.Patient{Name: "Asha", Age: 31, Gender: model.GenderFemale}
	p1.ID = uuid.New()
	p2 := &model.Patient{Name: "Ravi", Age: 40, Gender: model.GenderMale}
	p2.ID = uuid.New()

	older := time.Now().Add(-72 * time.Hour)
	newer := time.Now().Add(-24 * time.Hour)
	appointments := &fakeAppointmentRepo{items: []*model.Appointment{
		{DoctorID: d.ID, PatientID: p1.ID, AppointmentDate: older, Status: model.AppointmentStatusCompleted},
		{DoctorID: d.ID, PatientID: p1.ID, AppointmentDate: newer, Status: model.AppointmentStatusCompleted},
		{DoctorID: d.ID, PatientID: p2.ID, AppointmentDate: older, Status: model.AppointmentStatusCompleted},
		{DoctorID: d.ID, PatientID: p2.ID, AppointmentDate: newer, Status: model.AppointmentStatusCancelled},
	}}
	repo := &fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{d.ID: d}}
	patients := &fakePatientRepo{patients: map[uuid.UUID]*model.Patient{p1.ID: p1, p2.ID: p2}}
	svc := NewService(repo, appointments, patients)

	seen, err := svc.PatientsSeen(context.Background(), d.ID)
	require.NoError(t, err)
	require.Len(t, seen, 2)

	// Most recent visit first.
	assert.Equal(t, "Asha", seen[0].Name)
	assert.Equal(t, 2, seen[0].TotalVisits)
	assert.WithinDuration(t, newer, seen[0].LastVisit, time.Second)

	assert.Equal(t, "Ravi", seen[1].Name)
	assert.Equal(t, 1, seen[1].TotalVisits)
	assert.WithinDuration(t, older, seen[1].LastVisit, time.Second)
}
