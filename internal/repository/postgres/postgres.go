package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/medibook/hospital-api/internal/repository"
)

type doctorRepository struct {
	db *sqlx.DB
}

type patientRepository struct {
	db *sqlx.DB
}

type appointmentRepository struct {
	db *sqlx.DB
}

type referralRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewReferralRepository(db *sqlx.DB) repository.ReferralRepository {
	return &referralRepository{db: db}
}
