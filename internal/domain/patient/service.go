package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.FirstName == "" && p.LastName == "" {
		return fmt.Errorf("patient name is required")
	}
	p.Active = true
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		return fmt.Errorf("patient id is required")
	}
	if p.FirstName == "" && p.LastName == "" {
		return fmt.Errorf("patient name is required")
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.Search(ctx, params, limit, offset)
}

// PatientContact returns the patient's display name and email for outbound
// messages. Patients without an email come back with an empty address.
func (s *Service) PatientContact(ctx context.Context, id uuid.UUID) (name, email string, err error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	if p.Email != nil {
		email = *p.Email
	}
	return p.FullName(), email, nil
}

// RecordVisit stamps the patient's last visit time. Called when an
// appointment completes.
func (s *Service) RecordVisit(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("patient id is required")
	}
	return s.patients.TouchLastVisit(ctx, id)
}
