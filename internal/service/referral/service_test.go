package referral

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

type fakeReferralRepo struct {
	items map[uuid.UUID]*model.Referral
}

func (r *fakeReferralRepo) Create(_ context.Context, ref *model.Referral) error {
	ref.ID = uuid.New()
	copied := *ref
	r.items[ref.ID] = &copied
	return nil
}

func (r *fakeReferralRepo) Get(_ context.Context, id uuid.UUID) (*model.Referral, error) {
	ref, ok := r.items[id]
	if !ok {
		return nil, apperrors.NewNotFound("referral", nil)
	}
	copied := *ref
	return &copied, nil
}

func (r *fakeReferralRepo) Update(_ context.Context, ref *model.Referral) error {
	if _, ok := r.items[ref.ID]; !ok {
		return apperrors.NewNotFound("referral", nil)
	}
	copied := *ref
	r.items[ref.ID] = &copied
	return nil
}

func (r *fakeReferralRepo) ListSent(_ context.Context, fromDoctorID uuid.UUID) ([]*model.Referral, error) {
	var out []*model.Referral
	for _, ref := range r.items {
		if ref.FromDoctorID == fromDoctorID {
			out = append(out, ref)
		}
	}
	return out, nil
}

func (r *fakeReferralRepo) ListReceived(_ context.Context, toDoctorID uuid.UUID) ([]*model.Referral, error) {
	var out []*model.Referral
	for _, ref := range r.items {
		if ref.ToDoctorID == toDoctorID {
			out = append(out, ref)
		}
	}
	return out, nil
}

func (r *fakeReferralRepo) ListForDoctorBetween(_ context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.Referral, error) {
	return nil, nil
}

type fakeDoctorRepo struct {
	ids map[uuid.UUID]bool
}

func (r *fakeDoctorRepo) Create(_ context.Context, _ *model.Doctor) error { return nil }
func (r *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	if !r.ids[id] {
		return nil, apperrors.NewNotFound("doctor", nil)
	}
	d := &model.Doctor{}
	d.ID = id
	return d, nil
}
func (r *fakeDoctorRepo) GetByEmail(_ context.Context, _ string) (*model.Doctor, error) {
	return nil, apperrors.NewNotFound("doctor", nil)
}
func (r *fakeDoctorRepo) Update(_ context.Context, _ *model.Doctor) error { return nil }
func (r *fakeDoctorRepo) ListApproved(_ context.Context) ([]*model.Doctor, error) {
	return nil, nil
}
func (r *fakeDoctorRepo) ListByDepartment(_ context.Context, _ string) ([]*model.Doctor, error) {
	return nil, nil
}

type fakePatientRepo struct {
	ids map[uuid.UUID]bool
}

func (r *fakePatientRepo) Create(_ context.Context, _ *model.Patient) error { return nil }
func (r *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	if !r.ids[id] {
		return nil, apperrors.NewNotFound("patient", nil)
	}
	p := &model.Patient{}
	p.ID = id
	return p, nil
}
func (r *fakePatientRepo) GetByEmail(_ context.Context, _ string) (*model.Patient, error) {
	return nil, apperrors.NewNotFound("patient", nil)
}
func (r *fakePatientRepo) Update(_ context.Context, _ *model.Patient) error { return nil }

type fixture struct {
	svc        *Service
	fromDoctor uuid.UUID
	toDoctor   uuid.UUID
	patient    uuid.UUID
}

func newFixture() *fixture {
	from, to, patient := uuid.New(), uuid.New(), uuid.New()
	svc := NewService(
		&fakeReferralRepo{items: make(map[uuid.UUID]*model.Referral)},
		&fakeDoctorRepo{ids: map[uuid.UUID]bool{from: true, to: true}},
		&fakePatientRepo{ids: map[uuid.UUID]bool{patient: true}},
	)
	return &fixture{svc: svc, fromDoctor: from, toDoctor: to, patient: patient}
}

func (f *fixture) createRequest() *model.CreateReferralRequest {
	return &model.CreateReferralRequest{
		PatientID:    f.patient,
		ToDoctorID:   f.toDoctor,
		ReferralDate: time.Now().Add(24 * time.Hour),
		Notes:        "needs a cardiology opinion",
	}
}

func TestCreateReferral(t *testing.T) {
	f := newFixture()

	ref, err := f.svc.Create(context.Background(), f.fromDoctor, f.createRequest())
	require.NoError(t, err)
	assert.Equal(t, model.ReferralStatusPending, ref.Status)
	assert.Equal(t, f.fromDoctor, ref.FromDoctorID)
}

func TestCreateReferralValidatesParticipants(t *testing.T) {
	f := newFixture()

	req := f.createRequest()
	req.PatientID = uuid.New()
	_, err := f.svc.Create(context.Background(), f.fromDoctor, req)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))

	req = f.createRequest()
	req.ToDoctorID = uuid.New()
	_, err = f.svc.Create(context.Background(), f.fromDoctor, req)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))

	req = f.createRequest()
	req.ToDoctorID = f.fromDoctor
	_, err = f.svc.Create(context.Background(), f.fromDoctor, req)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestResolveReferral(t *testing.T) {
	f := newFixture()
	ref, err := f.svc.Create(context.Background(), f.fromDoctor, f.createRequest())
	require.NoError(t, err)

	resolved, err := f.svc.Resolve(context.Background(), f.toDoctor, ref.ID, model.ReferralActionAccept)
	require.NoError(t, err)
	assert.Equal(t, model.ReferralStatusAccepted, resolved.Status)

	// Resolution is final.
	_, err = f.svc.Resolve(context.Background(), f.toDoctor, ref.ID, model.ReferralActionDecline)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestResolveChecksActionBeforeLookup(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Resolve(context.Background(), f.toDoctor, uuid.New(), "approve")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestResolveRejectsOtherDoctor(t *testing.T) {
	f := newFixture()
	ref, err := f.svc.Create(context.Background(), f.fromDoctor, f.createRequest())
	require.NoError(t, err)

	_, err = f.svc.Resolve(context.Background(), f.fromDoctor, ref.ID, model.ReferralActionAccept)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}

func TestListSentAndReceived(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), f.fromDoctor, f.createRequest())
	require.NoError(t, err)

	sent, err := f.svc.ListSent(context.Background(), f.fromDoctor)
	require.NoError(t, err)
	assert.Len(t, sent, 1)

	received, err := f.svc.ListReceived(context.Background(), f.toDoctor)
	require.NoError(t, err)
	assert.Len(t, received, 1)

	none, err := f.svc.ListSent(context.Background(), f.toDoctor)
	require.NoError(t, err)
	assert.Empty(t, none)
}
