package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/hospital-api/internal/model"
)

// All repository interfaces in one file
type (
	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		ListApproved(ctx context.Context) ([]*model.Doctor, error)
		ListByDepartment(ctx context.Context, department string) ([]*model.Doctor, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByEmail(ctx context.Context, email string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error)
		ListForDoctorBetween(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.Appointment, error)
	}

	ReferralRepository interface {
		Create(ctx context.Context, referral *model.Referral) error
		Get(ctx context.Context, id uuid.UUID) (*model.Referral, error)
		Update(ctx context.Context, referral *model.Referral) error
		ListSent(ctx context.Context, fromDoctorID uuid.UUID) ([]*model.Referral, error)
		ListReceived(ctx context.Context, toDoctorID uuid.UUID) ([]*model.Referral, error)
		ListForDoctorBetween(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.Referral, error)
	}
)
