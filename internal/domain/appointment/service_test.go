package appointment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.items[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.items[a.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.items[a.ID] = a
	return nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	a, ok := m.items[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	a.Status = status
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.items {
		if a.PatientID == patientID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByDentist(_ context.Context, dentistID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.items {
		if a.DentistID == dentistID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByDay(_ context.Context, day time.Time, limit, offset int) ([]*Appointment, int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)
	var result []*Appointment
	for _, a := range m.items {
		if !a.StartTime.Before(start) && a.StartTime.Before(end) {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.items {
		if status, ok := params["status"]; ok && a.Status != status {
			continue
		}
		result = append(result, a)
	}
	return result, len(result), nil
}

func validAppointment() *Appointment {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return &Appointment{
		PatientID: uuid.New(),
		DentistID: uuid.New(),
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	}
}

func TestService_Create_DefaultsToPending(t *testing.T) {
	svc := NewService(newMockRepo(), false)
	a := validAppointment()
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusPending {
		t.Errorf("expected default status %q, got %q", StatusPending, a.Status)
	}
}

func TestService_Create_KeepsExplicitStatus(t *testing.T) {
	svc := NewService(newMockRepo(), false)
	a := validAppointment()
	a.Status = StatusScheduled
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("expected status %q, got %q", StatusScheduled, a.Status)
	}
}

func TestService_Create_RejectsUnknownStatus(t *testing.T) {
	svc := NewService(newMockRepo(), false)
	a := validAppointment()
	a.Status = "bogus"
	err := svc.Create(context.Background(), a)
	var ise *InvalidStatusError
	if !errors.As(err, &ise) {
		t.Fatalf("expected InvalidStatusError, got %v", err)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newMockRepo(), false)

	a := validAppointment()
	a.PatientID = uuid.Nil
	if err := svc.Create(context.Background(), a); err == nil {
		t.Error("expected error for missing patient")
	}

	a = validAppointment()
	a.DentistID = uuid.Nil
	if err := svc.Create(context.Background(), a); err == nil {
		t.Error("expected error for missing dentist")
	}

	a = validAppointment()
	a.EndTime = time.Time{}
	if err := svc.Create(context.Background(), a); err == nil {
		t.Error("expected error for missing end time")
	}

	a = validAppointment()
	a.EndTime = a.StartTime.Add(-time.Hour)
	if err := svc.Create(context.Background(), a); err == nil {
		t.Error("expected error for end before start")
	}
}

func TestService_ChangeStatus_MembershipOnly(t *testing.T) {
	svc := NewService(newMockRepo(), false)
	a := validAppointment()
	a.Status = StatusCompleted
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Without strict flow, re-opening a completed visit is allowed.
	got, err := svc.ChangeStatus(context.Background(), a.ID, StatusPending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusPending {
		t.Errorf("expected status %q, got %q", StatusPending, got.Status)
	}
}

func TestService_ChangeStatus_RejectsUnknown(t *testing.T) {
	svc := NewService(newMockRepo(), false)
	a := validAppointment()
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.ChangeStatus(context.Background(), a.ID, "Confirmed")
	var ise *InvalidStatusError
	if !errors.As(err, &ise) {
		t.Fatalf("expected InvalidStatusError for wrong case, got %v", err)
	}
}

func TestService_ChangeStatus_StrictFlow(t *testing.T) {
	svc := NewService(newMockRepo(), true)
	a := validAppointment()
	a.Status = StatusCompleted
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.ChangeStatus(context.Background(), a.ID, StatusPending); err == nil {
		t.Error("expected strict flow to reject reopening a completed visit")
	}
}

func TestService_ChangeStatus_StrictFlowForward(t *testing.T) {
	svc := NewService(newMockRepo(), true)
	a := validAppointment()
	a.Status = StatusConfirmed
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.ChangeStatus(context.Background(), a.ID, StatusCheckedIn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusCheckedIn {
		t.Errorf("expected status %q, got %q", StatusCheckedIn, got.Status)
	}
	if got.CheckedInAt == nil {
		t.Error("expected check-in timestamp to be stamped")
	}
}

type recordingNotifier struct {
	cancelled []uuid.UUID
}

func (r *recordingNotifier) VisitCancelled(_ context.Context, patientID uuid.UUID, _ time.Time) {
	r.cancelled = append(r.cancelled, patientID)
}

func TestService_ChangeStatus_NotifiesCancellation(t *testing.T) {
	svc := NewService(newMockRepo(), false)
	rec := &recordingNotifier{}
	svc.SetNotifier(rec)

	a := validAppointment()
	a.Status = StatusScheduled
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.ChangeStatus(context.Background(), a.ID, StatusConfirmed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.cancelled) != 0 {
		t.Errorf("no cancellation notice expected for %q, got %d", StatusConfirmed, len(rec.cancelled))
	}

	if _, err := svc.ChangeStatus(context.Background(), a.ID, StatusCancelled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.cancelled) != 1 || rec.cancelled[0] != a.PatientID {
		t.Errorf("expected cancellation notice for patient %s, got %v", a.PatientID, rec.cancelled)
	}
}

func TestService_Update_StrictFlowChecksTransition(t *testing.T) {
	svc := NewService(newMockRepo(), true)
	a := validAppointment()
	a.Status = StatusCompleted
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	upd := *a
	upd.Status = StatusPending
	if err := svc.Update(context.Background(), &upd); err == nil {
		t.Error("expected update to reject reopening a completed visit")
	}
}

func TestService_Update_StrictFlowAllowsForward(t *testing.T) {
	svc := NewService(newMockRepo(), true)
	a := validAppointment()
	a.Status = StatusConfirmed
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	upd := *a
	upd.Status = StatusCheckedIn
	if err := svc.Update(context.Background(), &upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Resubmitting the same status is not a transition.
	same := upd
	if err := svc.Update(context.Background(), &same); err != nil {
		t.Fatalf("unexpected error on same-status update: %v", err)
	}
}

func TestService_ListByDay(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, false)

	a := validAppointment()
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := validAppointment()
	b.StartTime = b.StartTime.Add(48 * time.Hour)
	b.EndTime = b.StartTime.Add(30 * time.Minute)
	if err := svc.Create(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, total, err := svc.ListByDay(context.Background(), a.StartTime, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Errorf("expected 1 appointment on the day, got %d", total)
	}
}
