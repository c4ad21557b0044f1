package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medibook/hospital-api/internal/model"
	"github.com/medibook/hospital-api/internal/repository"
	apperrors "github.com/medibook/hospital-api/pkg/errors"
	"github.com/medibook/hospital-api/pkg/metrics"
	"github.com/medibook/hospital-api/pkg/payment"
)

// statusTransitions is the only authority on appointment status changes.
// Completed and Cancelled are terminal.
var statusTransitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusPending:   {model.AppointmentStatusConfirmed, model.AppointmentStatusCancelled},
	model.AppointmentStatusConfirmed: {model.AppointmentStatusCompleted, model.AppointmentStatusCancelled},
}

func transitionAllowed(from, to model.AppointmentStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Service struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	patients     repository.PatientRepository
	gateway      payment.Gateway
	currency     string
	metrics      *metrics.Metrics
}

func NewService(appointments repository.AppointmentRepository, doctors repository.DoctorRepository,
	patients repository.PatientRepository, gateway payment.Gateway, currency string, m *metrics.Metrics) *Service {
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		patients:     patients,
		gateway:      gateway,
		currency:     currency,
		metrics:      m,
	}
}

// Book opens a gateway order for the doctor's fee and only then persists the
// appointment. A gateway failure therefore never leaves a local record with
// no order behind it.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	doctor, err := s.doctors.Get(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	// Razorpay caps receipts at 40 characters.
	receipt := fmt.Sprintf("appt_%.8s_%d", patientID, time.Now().Unix())
	amountMinor := doctor.Fee * 100
	order, err := s.gateway.CreateOrder(ctx, amountMinor, s.currency, receipt)
	if err != nil {
		s.metrics.GatewayOrders.WithLabelValues("failure").Inc()
		return nil, apperrors.NewUpstream("payment gateway order failed", err)
	}
	s.metrics.GatewayOrders.WithLabelValues("success").Inc()

	appointment := &model.Appointment{
		PatientID:       patientID,
		DoctorID:        req.DoctorID,
		AppointmentDate: req.AppointmentDate,
		TimeSlot:        req.TimeSlot,
		Problem:         req.Problem,
		Status:          model.AppointmentStatusPending,
		// The stored amount is the consultation fee in major units; only
		// the gateway order carries minor units.
		Payment: model.PaymentInfo{
			Amount:         doctor.Fee,
			Status:         model.PaymentStatusPending,
			GatewayOrderID: order.ID,
		},
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	log.Info().
		Str("appointment_id", appointment.ID.String()).
		Str("order_id", order.ID).
		Int64("amount", amountMinor).
		Msg("appointment booked")
	return appointment, nil
}

// VerifyPayment validates the capture signature before touching any state.
// On success the payment completes and the appointment confirms in one
// update.
func (s *Service) VerifyPayment(ctx context.Context, patientID uuid.UUID, req *model.VerifyPaymentRequest) (*model.Appointment, error) {
	if !s.gateway.VerifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.Signature) {
		s.metrics.PaymentVerification.WithLabelValues("rejected").Inc()
		return nil, apperrors.NewBadRequest("invalid payment signature", nil)
	}

	appointment, err := s.appointments.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, apperrors.NewForbidden("appointment belongs to another patient", nil)
	}
	if appointment.Payment.GatewayOrderID != req.GatewayOrderID {
		s.metrics.PaymentVerification.WithLabelValues("rejected").Inc()
		return nil, apperrors.NewBadRequest("order does not match appointment", nil)
	}

	appointment.Payment.Status = model.PaymentStatusCompleted
	appointment.Payment.GatewayPaymentID = req.GatewayPaymentID
	appointment.Status = model.AppointmentStatusConfirmed
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to confirm appointment: %w", err)
	}

	s.metrics.PaymentVerification.WithLabelValues("verified").Inc()
	log.Info().
		Str("appointment_id", appointment.ID.String()).
		Str("payment_id", req.GatewayPaymentID).
		Msg("payment verified")
	return appointment, nil
}

// UpdateStatus lets the treating doctor move an appointment through the
// lifecycle. Transitions outside the table are rejected with a conflict.
func (s *Service) UpdateStatus(ctx context.Context, doctorID uuid.UUID, req *model.UpdateAppointmentStatusRequest) (*model.Appointment, error) {
	appointment, err := s.appointments.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != doctorID {
		return nil, apperrors.NewForbidden("appointment belongs to another doctor", nil)
	}
	if !transitionAllowed(appointment.Status, req.Status) {
		return nil, apperrors.NewConflict(
			fmt.Sprintf("cannot move appointment from %s to %s", appointment.Status, req.Status), nil)
	}

	appointment.Status = req.Status
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	return appointment, nil
}

// AddPrescription replaces the appointment's prescription wholesale.
func (s *Service) AddPrescription(ctx context.Context, doctorID uuid.UUID, req *model.AddPrescriptionRequest) (*model.Appointment, error) {
	appointment, err := s.appointments.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != doctorID {
		return nil, apperrors.NewForbidden("appointment belongs to another doctor", nil)
	}

	appointment.Prescription = model.Prescription{
		Medications:  req.Medications,
		Notes:        req.Notes,
		FollowUpDate: req.FollowUpDate,
	}
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to store prescription: %w", err)
	}
	return appointment, nil
}

// Cancel lets the patient cancel a not-yet-completed appointment. A captured
// payment flips to Refunded so the refund job can pick it up.
func (s *Service) Cancel(ctx context.Context, patientID, appointmentID uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, apperrors.NewForbidden("appointment belongs to another patient", nil)
	}
	if !transitionAllowed(appointment.Status, model.AppointmentStatusCancelled) {
		return nil, apperrors.NewConflict(
			fmt.Sprintf("cannot cancel a %s appointment", appointment.Status), nil)
	}

	appointment.Status = model.AppointmentStatusCancelled
	if appointment.Payment.Status == model.PaymentStatusCompleted {
		appointment.Payment.Status = model.PaymentStatusRefunded
	}
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	return s.appointments.ListForPatient(ctx, patientID)
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	return s.appointments.ListForDoctor(ctx, doctorID)
}

// GenerateBill assembles the invoice for a paid appointment owned by the
// requesting patient.
func (s *Service) GenerateBill(ctx context.Context, patientID, appointmentID uuid.UUID) (*model.Bill, error) {
	appointment, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, apperrors.NewForbidden("appointment belongs to another patient", nil)
	}
	if appointment.Payment.Status != model.PaymentStatusCompleted &&
		appointment.Payment.Status != model.PaymentStatusRefunded {
		return nil, apperrors.NewConflict("appointment has no captured payment", nil)
	}

	patient, err := s.patients.Get(ctx, appointment.PatientID)
	if err != nil {
		return nil, err
	}
	doctor, err := s.doctors.Get(ctx, appointment.DoctorID)
	if err != nil {
		return nil, err
	}

	bill := &model.Bill{
		BillNumber: fmt.Sprintf("BILL-%s", appointment.ID),
		Date:       time.Now(),
		Payment:    appointment.Payment,
	}
	bill.Patient.Name = patient.Name
	bill.Patient.Email = patient.Email
	bill.Patient.PhoneNumber = patient.PhoneNumber
	bill.Doctor.Name = doctor.Name
	bill.Doctor.Department = doctor.Department
	bill.Appointment.Date = appointment.AppointmentDate
	bill.Appointment.TimeSlot = appointment.TimeSlot
	bill.Appointment.Problem = appointment.Problem
	return bill, nil
}
