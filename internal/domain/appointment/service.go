package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	appointments Repository
	strictFlow   bool
	notifier     Notifier
}

// NewService constructs an appointment service. When strictFlow is true,
// status changes must follow the chronological visit flow; otherwise any
// recognized status may replace any other.
func NewService(appointments Repository, strictFlow bool) *Service {
	return &Service{appointments: appointments, strictFlow: strictFlow}
}

// SetNotifier installs the sink for patient-facing visit events.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.DentistID == uuid.Nil {
		return fmt.Errorf("dentist_id is required")
	}
	if a.StartTime.IsZero() {
		return fmt.Errorf("start_time is required")
	}
	if a.EndTime.IsZero() {
		return fmt.Errorf("end_time is required")
	}
	if !a.EndTime.After(a.StartTime) {
		return fmt.Errorf("end_time must be after start_time")
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	if _, err := ValidateStatus(a.Status); err != nil {
		return err
	}
	return s.appointments.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		return fmt.Errorf("appointment id is required")
	}
	if a.Status != "" {
		status, err := ValidateStatus(a.Status)
		if err != nil {
			return err
		}
		if s.strictFlow {
			current, err := s.appointments.GetByID(ctx, a.ID)
			if err != nil {
				return err
			}
			if current.Status != status {
				if err := ValidateTransition(current.Status, status); err != nil {
					return err
				}
			}
		}
	}
	return s.appointments.Update(ctx, a)
}

// ChangeStatus moves an appointment to a new status. The candidate is always
// checked against the closed status set; the transition edge is additionally
// checked when strict flow is enabled.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, candidate string) (*Appointment, error) {
	status, err := ValidateStatus(candidate)
	if err != nil {
		return nil, err
	}
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.strictFlow {
		if err := ValidateTransition(a.Status, status); err != nil {
			return nil, err
		}
	}
	if err := s.appointments.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	a.Status = status
	now := time.Now()
	switch status {
	case StatusCheckedIn:
		a.CheckedInAt = &now
	case StatusCompleted:
		a.CompletedAt = &now
	case StatusCancelled:
		if s.notifier != nil {
			s.notifier.VisitCancelled(ctx, a.PatientID, a.StartTime)
		}
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.appointments.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDentist(ctx context.Context, dentistID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByDentist(ctx, dentistID, limit, offset)
}

func (s *Service) ListByDay(ctx context.Context, day time.Time, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByDay(ctx, day, limit, offset)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.Search(ctx, params, limit, offset)
}
