package report

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/hospital-api/internal/model"
	"github.com/medibook/hospital-api/internal/repository"
	apperrors "github.com/medibook/hospital-api/pkg/errors"
)

// Report is a doctor's activity over a date range.
type Report struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`

	Appointments []*model.Appointment `json:"appointments"`
	Referrals    []*model.Referral    `json:"referrals"`

	Summary struct {
		TotalAppointments int   `json:"total_appointments"`
		Completed         int   `json:"completed"`
		Cancelled         int   `json:"cancelled"`
		Revenue           int64 `json:"revenue"`
		TotalReferrals    int   `json:"total_referrals"`
	} `json:"summary"`
}

type Service struct {
	appointments repository.AppointmentRepository
	referrals    repository.ReferralRepository
}

func NewService(appointments repository.AppointmentRepository, referrals repository.ReferralRepository) *Service {
	return &Service{appointments: appointments, referrals: referrals}
}

// Generate builds the activity report for [from, to]. The end date is
// inclusive: it is extended to the end of its day before querying.
func (s *Service) Generate(ctx context.Context, doctorID uuid.UUID, from, to time.Time) (*Report, error) {
	if to.Before(from) {
		return nil, apperrors.NewBadRequest("end date precedes start date", nil)
	}
	end := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999999999, to.Location())

	appointments, err := s.appointments.ListForDoctorBetween(ctx, doctorID, from, end)
	if err != nil {
		return nil, err
	}
	referrals, err := s.referrals.ListForDoctorBetween(ctx, doctorID, from, end)
	if err != nil {
		return nil, err
	}

	report := &Report{
		DoctorID:     doctorID,
		From:         from,
		To:           end,
		Appointments: appointments,
		Referrals:    referrals,
	}
	report.Summary.TotalAppointments = len(appointments)
	report.Summary.TotalReferrals = len(referrals)
	for _, appt := range appointments {
		switch appt.Status {
		case model.AppointmentStatusCompleted:
			report.Summary.Completed++
		case model.AppointmentStatusCancelled:
			report.Summary.Cancelled++
		}
		if appt.Payment.Status == model.PaymentStatusCompleted {
			report.Summary.Revenue += appt.Payment.Amount
		}
	}
	return report, nil
}
