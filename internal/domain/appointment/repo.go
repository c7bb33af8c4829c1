package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByDentist(ctx context.Context, dentistID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByDay(ctx context.Context, day time.Time, limit, offset int) ([]*Appointment, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error)
}
