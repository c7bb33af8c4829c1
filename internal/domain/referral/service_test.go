package referral

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Referral
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Referral)}
}

func (m *mockRepo) Create(_ context.Context, r *Referral) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	m.items[r.ID] = r
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Referral, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return r, nil
}

func (m *mockRepo) Update(_ context.Context, r *Referral) error {
	if _, ok := m.items[r.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.items[r.ID] = r
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Referral, int, error) {
	var result []*Referral
	for _, r := range m.items {
		if r.PatientID == patientID {
			result = append(result, r)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Referral, int, error) {
	var result []*Referral
	for _, r := range m.items {
		if status, ok := params["status"]; ok && r.Status != status {
			continue
		}
		result = append(result, r)
	}
	return result, len(result), nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func testReferral() *Referral {
	return &Referral{
		PatientID:      uuid.New(),
		SpecialistName: "Dr. Kapoor",
		Reason:         "impacted third molar extraction",
	}
}

func TestService_Create_Defaults(t *testing.T) {
	svc := newTestService()
	r := testReferral()
	if err := svc.Create(nil, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != StatusDraft {
		t.Errorf("expected draft status, got %s", r.Status)
	}
	if r.Direction != DirectionOutbound {
		t.Errorf("expected outbound default, got %s", r.Direction)
	}
	if r.Urgency != UrgencyRoutine {
		t.Errorf("expected routine default, got %s", r.Urgency)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := newTestService()
	cases := []struct {
		name   string
		mutate func(*Referral)
	}{
		{"missing patient", func(r *Referral) { r.PatientID = uuid.Nil }},
		{"missing specialist", func(r *Referral) { r.SpecialistName = "" }},
		{"missing reason", func(r *Referral) { r.Reason = "" }},
		{"bad direction", func(r *Referral) { r.Direction = "sideways" }},
		{"bad urgency", func(r *Referral) { r.Urgency = "whenever" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := testReferral()
			tc.mutate(r)
			if err := svc.Create(nil, r); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestService_Workflow(t *testing.T) {
	svc := newTestService()
	r := testReferral()
	if err := svc.Create(nil, r); err != nil {
		t.Fatal(err)
	}

	sent, err := svc.ChangeStatus(nil, r.ID, StatusSent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent.SentAt == nil {
		t.Error("expected sent timestamp")
	}

	// Sent referrals cannot complete without acceptance.
	if _, err := svc.ChangeStatus(nil, r.ID, StatusCompleted); err == nil {
		t.Error("expected error skipping acceptance")
	}

	if _, err := svc.ChangeStatus(nil, r.ID, StatusAccepted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	completed, err := svc.ChangeStatus(nil, r.ID, StatusCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completed.ResolvedAt == nil {
		t.Error("expected resolved timestamp")
	}

	// Completed is terminal.
	if _, err := svc.ChangeStatus(nil, r.ID, StatusSent); err == nil {
		t.Error("expected error reopening completed referral")
	}
}

func TestService_Decline(t *testing.T) {
	svc := newTestService()
	r := testReferral()
	if err := svc.Create(nil, r); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ChangeStatus(nil, r.ID, StatusSent); err != nil {
		t.Fatal(err)
	}

	declined, err := svc.ChangeStatus(nil, r.ID, StatusDeclined)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if declined.ResolvedAt == nil {
		t.Error("expected resolved timestamp on decline")
	}
}

func TestService_Update_OnlyDraft(t *testing.T) {
	svc := newTestService()
	r := testReferral()
	if err := svc.Create(nil, r); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ChangeStatus(nil, r.ID, StatusSent); err != nil {
		t.Fatal(err)
	}

	edit := testReferral()
	edit.ID = r.ID
	if err := svc.Update(nil, edit); err == nil {
		t.Error("expected error editing a sent referral")
	}
}

func TestService_Delete_OnlyDraft(t *testing.T) {
	svc := newTestService()
	r := testReferral()
	if err := svc.Create(nil, r); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ChangeStatus(nil, r.ID, StatusSent); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(nil, r.ID); err == nil {
		t.Error("expected error deleting a sent referral")
	}
}
