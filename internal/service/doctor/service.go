package doctor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"

	"github.com/medibook/hospital-api/internal/model"
	"github.com/medibook/hospital-api/internal/repository"
)

const (
	directoryCacheKey = "doctors:approved"
	directoryCacheTTL = 5 * time.Minute

	bcryptCost = 10
)

type Service struct {
	doctors      repository.DoctorRepository
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	cache        *gocache.Cache
}

func NewService(doctors repository.DoctorRepository, appointments repository.AppointmentRepository,
	patients repository.PatientRepository) *Service {
	return &Service{
		doctors:      doctors,
		appointments: appointments,
		patients:     patients,
		cache:        gocache.New(directoryCacheTTL, 10*time.Minute),
	}
}

func (s *Service) GetProfile(ctx context.Context, doctorID uuid.UUID) (*model.Doctor, error) {
	return s.doctors.Get(ctx, doctorID)
}

// UpdateProfile applies a partial update. Supplying a password re-hashes it;
// any directory-visible change flushes the cached listing.
func (s *Service) UpdateProfile(ctx context.Context, doctorID uuid.UUID, req *model.UpdateDoctorProfileRequest) (*model.Doctor, error) {
	doctor, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Department != nil {
		doctor.Department = *req.Department
	}
	if req.Specializations != nil {
		doctor.Specializations = pq.StringArray(*req.Specializations)
	}
	if req.Experience != nil {
		doctor.Experience = *req.Experience
	}
	if req.Fee != nil {
		doctor.Fee = *req.Fee
	}
	if req.PhoneNumber != nil {
		doctor.PhoneNumber = *req.PhoneNumber
	}
	if req.Bio != nil {
		doctor.Bio = *req.Bio
	}
	if req.Address != nil {
		doctor.Address = *req.Address
	}
	if req.Availability != nil {
		doctor.Availability = *req.Availability
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		doctor.PasswordHash = string(hash)
	}

	if err := s.doctors.Update(ctx, doctor); err != nil {
		return nil, err
	}
	s.cache.Delete(directoryCacheKey)
	return doctor, nil
}

// ListApproved serves the public doctor directory from a short-lived cache.
func (s *Service) ListApproved(ctx context.Context) ([]*model.DoctorSummary, error) {
	if cached, ok := s.cache.Get(directoryCacheKey); ok {
		return cached.([]*model.DoctorSummary), nil
	}

	doctors, err := s.doctors.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	summaries := summarize(doctors)
	s.cache.Set(directoryCacheKey, summaries, directoryCacheTTL)
	return summaries, nil
}

func (s *Service) ListByDepartment(ctx context.Context, department string) ([]*model.DoctorSummary, error) {
	doctors, err := s.doctors.ListByDepartment(ctx, department)
	if err != nil {
		return nil, err
	}
	return summarize(doctors), nil
}

func summarize(doctors []*model.Doctor) []*model.DoctorSummary {
	summaries := make([]*model.DoctorSummary, 0, len(doctors))
	for _, d := range doctors {
		summaries = append(summaries, &model.DoctorSummary{
			ID:              d.ID.String(),
			Name:            d.Name,
			Department:      d.Department,
			Specializations: d.Specializations,
			Fee:             d.Fee,
		})
	}
	return summaries
}

// PatientSeen is one row of a doctor's patient history, aggregated over
// completed appointments.
type PatientSeen struct {
	PatientID   uuid.UUID `json:"patientId"`
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	LastVisit   time.Time `json:"lastVisit"`
	TotalVisits int       `json:"totalVisits"`
}

// PatientsSeen lists the unique patients this doctor has completed
// appointments with, most recent visit first.
func (s *Service) PatientsSeen(ctx context.Context, doctorID uuid.UUID) ([]*PatientSeen, error) {
	appointments, err := s.appointments.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	byPatient := make(map[uuid.UUID]*PatientSeen)
	for _, appt := range appointments {
		if appt.Status != model.AppointmentStatusCompleted {
			continue
		}
		entry, ok := byPatient[appt.PatientID]
		if !ok {
			patient, err := s.patients.Get(ctx, appt.PatientID)
			if err != nil {
				return nil, err
			}
			entry = &PatientSeen{
				PatientID: patient.ID,
				Name:      patient.Name,
				Age:       patient.Age,
				Gender:    string(patient.Gender),
			}
			byPatient[appt.PatientID] = entry
		}
		entry.TotalVisits++
		if appt.AppointmentDate.After(entry.LastVisit) {
			entry.LastVisit = appt.AppointmentDate
		}
	}

	seen := make([]*PatientSeen, 0, len(byPatient))
	for _, entry := range byPatient {
		seen = append(seen, entry)
	}
	sort.Slice(seen, func(i, j int) bool { return seen[i].LastVisit.After(seen[j].LastVisit) })
	return seen, nil
}
