package staff

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dsutherland23/dentist-saas-sub004/internal/platform/auth"
)

type mockRepo struct {
	items map[uuid.UUID]*Member
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Member)}
}

func (m *mockRepo) Create(_ context.Context, member *Member) error {
	member.ID = uuid.New()
	member.CreatedAt = time.Now()
	member.UpdatedAt = time.Now()
	m.items[member.ID] = member
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Member, error) {
	member, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return member, nil
}

func (m *mockRepo) Update(_ context.Context, member *Member) error {
	if _, ok := m.items[member.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.items[member.ID] = member
	return nil
}

func (m *mockRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	member, ok := m.items[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	member.Active = false
	return nil
}

func (m *mockRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Member, int, error) {
	var result []*Member
	for _, member := range m.items {
		if role, ok := params["role"]; ok && member.Role != role {
			continue
		}
		result = append(result, member)
	}
	return result, len(result), nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func TestService_Create(t *testing.T) {
	svc := newTestService()
	m := &Member{FirstName: "Priya", LastName: "Shah", Role: auth.RoleReceptionist}
	if err := svc.Create(nil, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
	if !m.Active {
		t.Error("expected new member to be active")
	}
}

func TestService_Create_InvalidRole(t *testing.T) {
	svc := newTestService()
	m := &Member{FirstName: "Priya", LastName: "Shah", Role: "janitor"}
	if err := svc.Create(nil, m); err == nil {
		t.Error("expected error for role outside the role set")
	}
}

func TestService_Create_DentistNeedsLicense(t *testing.T) {
	svc := newTestService()
	m := &Member{FirstName: "Arun", LastName: "Mehta", Role: auth.RoleDentist}
	if err := svc.Create(nil, m); err == nil {
		t.Error("expected error for dentist without license number")
	}

	license := "DC-44821"
	m.LicenseNumber = &license
	if err := svc.Create(nil, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_Create_EveryRoleAccepted(t *testing.T) {
	svc := newTestService()
	license := "DC-1"
	for _, role := range auth.AllRoles {
		m := &Member{FirstName: "Test", LastName: "Member", Role: role, LicenseNumber: &license}
		if err := svc.Create(nil, m); err != nil {
			t.Errorf("role %s: unexpected error: %v", role, err)
		}
	}
}

func TestService_Deactivate(t *testing.T) {
	svc := newTestService()
	m := &Member{FirstName: "Priya", LastName: "Shah", Role: auth.RoleReceptionist}
	if err := svc.Create(nil, m); err != nil {
		t.Fatal(err)
	}
	if err := svc.Deactivate(nil, m.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := svc.Get(nil, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Active {
		t.Error("expected member deactivated")
	}
}

func TestService_Deactivate_NilID(t *testing.T) {
	svc := newTestService()
	if err := svc.Deactivate(nil, uuid.Nil); err == nil {
		t.Error("expected error for nil id")
	}
}

func TestMember_FullName(t *testing.T) {
	m := &Member{FirstName: "Priya", LastName: "Shah"}
	if got := m.FullName(); got != "Priya Shah" {
		t.Errorf("expected full name, got %q", got)
	}
}
