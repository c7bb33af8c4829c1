package referral

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	referrals Repository
}

func NewService(referrals Repository) *Service {
	return &Service{referrals: referrals}
}

func (s *Service) Create(ctx context.Context, r *Referral) error {
	if r.PatientID == uuid.Nil {
		return fmt.Errorf("patient ID is required")
	}
	if r.SpecialistName == "" {
		return fmt.Errorf("specialist name is required")
	}
	if r.Reason == "" {
		return fmt.Errorf("referral reason is required")
	}
	switch r.Direction {
	case "":
		r.Direction = DirectionOutbound
	case DirectionOutbound, DirectionInbound:
	default:
		return fmt.Errorf("invalid direction: %s", r.Direction)
	}
	switch r.Urgency {
	case "":
		r.Urgency = UrgencyRoutine
	case UrgencyRoutine, UrgencyUrgent:
	default:
		return fmt.Errorf("invalid urgency: %s", r.Urgency)
	}
	r.Status = StatusDraft
	return s.referrals.Create(ctx, r)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Referral, error) {
	return s.referrals.GetByID(ctx, id)
}

// Update edits referral details. Workflow state moves through ChangeStatus
// only.
func (s *Service) Update(ctx context.Context, r *Referral) error {
	if r.ID == uuid.Nil {
		return fmt.Errorf("referral ID is required")
	}
	existing, err := s.referrals.GetByID(ctx, r.ID)
	if err != nil {
		return err
	}
	if existing.Status != StatusDraft {
		return fmt.Errorf("only draft referrals can be edited")
	}
	if r.SpecialistName == "" {
		return fmt.Errorf("specialist name is required")
	}
	if r.Reason == "" {
		return fmt.Errorf("referral reason is required")
	}
	r.Status = existing.Status
	r.Direction = existing.Direction
	return s.referrals.Update(ctx, r)
}

// ChangeStatus applies a workflow transition. Sending stamps sent_at;
// reaching a terminal state stamps resolved_at.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*Referral, error) {
	r, err := s.referrals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed, ok := transitions[r.Status]
	if !ok {
		return nil, fmt.Errorf("referral has unknown status: %s", r.Status)
	}
	valid := false
	for _, next := range allowed {
		if next == status {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("cannot move referral from %s to %s", r.Status, status)
	}

	now := time.Now()
	r.Status = status
	switch status {
	case StatusSent:
		r.SentAt = &now
	case StatusCompleted, StatusDeclined:
		r.ResolvedAt = &now
	}
	if err := s.referrals.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	r, err := s.referrals.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r.Status != StatusDraft {
		return fmt.Errorf("only draft referrals can be deleted")
	}
	return s.referrals.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Referral, int, error) {
	return s.referrals.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Referral, int, error) {
	return s.referrals.Search(ctx, params, limit, offset)
}
