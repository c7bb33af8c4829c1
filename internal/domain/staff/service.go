package staff

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dsutherland23/dentist-saas-sub004/internal/platform/auth"
)

type Service struct {
	members Repository
}

func NewService(members Repository) *Service {
	return &Service{members: members}
}

func (s *Service) Create(ctx context.Context, m *Member) error {
	if err := validateMember(m); err != nil {
		return err
	}
	m.Active = true
	return s.members.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.members.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, m *Member) error {
	if m.ID == uuid.Nil {
		return fmt.Errorf("staff member ID is required")
	}
	if err := validateMember(m); err != nil {
		return err
	}
	return s.members.Update(ctx, m)
}

// Deactivate soft-deletes: the row stays for audit history but the member no
// longer appears in active rosters.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("staff member ID is required")
	}
	return s.members.Deactivate(ctx, id)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Member, int, error) {
	return s.members.Search(ctx, params, limit, offset)
}

func validateMember(m *Member) error {
	if m.FirstName == "" || m.LastName == "" {
		return fmt.Errorf("staff member name is required")
	}
	if !auth.ValidRole(m.Role) {
		return fmt.Errorf("invalid role: %s", m.Role)
	}
	if m.Role == auth.RoleDentist && (m.LicenseNumber == nil || *m.LicenseNumber == "") {
		return fmt.Errorf("dentists require a license number")
	}
	return nil
}
