package integration

import (
	"context"
	"testing"
	"time"

	"github.com/dsutherland23/dentist-saas-sub004/internal/domain/appointment"
)

func TestAppointmentVisitFlow(t *testing.T) {
	ctx := context.Background()
	clinicID := uniqueClinicID("appt")
	createClinicSchema(t, ctx, clinicID)
	defer dropClinicSchema(t, ctx, clinicID)

	p := createTestPatient(t, ctx, clinicID, "Sam", "Rivera")
	d := createTestDentist(t, ctx, clinicID, "Grace", "Okafor")

	err := withClinicConn(ctx, clinicID, func(ctx context.Context) error {
		svc := appointment.NewService(appointment.NewRepoPG(globalDB.Pool), false)

		start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
		a := &appointment.Appointment{
			PatientID: p.ID,
			DentistID: d.ID,
			StartTime: start,
			EndTime:   start.Add(45 * time.Minute),
			Reason:    ptrStr("routine cleaning"),
		}
		if err := svc.Create(ctx, a); err != nil {
			t.Fatalf("create appointment: %v", err)
		}
		if a.Status != appointment.StatusPending {
			t.Errorf("initial status = %q, want pending", a.Status)
		}

		// Walk the normal visit flow.
		for _, status := range []string{
			appointment.StatusScheduled,
			appointment.StatusConfirmed,
			appointment.StatusCheckedIn,
			appointment.StatusInTreatment,
			appointment.StatusCompleted,
		} {
			got, err := svc.ChangeStatus(ctx, a.ID, status)
			if err != nil {
				t.Fatalf("change status to %s: %v", status, err)
			}
			if got.Status != status {
				t.Errorf("status = %q, want %q", got.Status, status)
			}
		}

		// Non-strict mode still rejects unknown statuses.
		if _, err := svc.ChangeStatus(ctx, a.ID, "rescheduled"); err == nil {
			t.Error("expected error for unknown status")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestAppointmentStrictFlow(t *testing.T) {
	ctx := context.Background()
	clinicID := uniqueClinicID("apptstrict")
	createClinicSchema(t, ctx, clinicID)
	defer dropClinicSchema(t, ctx, clinicID)

	p := createTestPatient(t, ctx, clinicID, "Noa", "Levi")
	d := createTestDentist(t, ctx, clinicID, "Ivan", "Petrov")

	err := withClinicConn(ctx, clinicID, func(ctx context.Context) error {
		svc := appointment.NewService(appointment.NewRepoPG(globalDB.Pool), true)

		start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
		a := &appointment.Appointment{
			PatientID: p.ID,
			DentistID: d.ID,
			StartTime: start,
			EndTime:   start.Add(30 * time.Minute),
			Status:    appointment.StatusConfirmed,
		}
		if err := svc.Create(ctx, a); err != nil {
			t.Fatalf("create appointment: %v", err)
		}

		// Moving backwards is rejected under strict flow.
		if _, err := svc.ChangeStatus(ctx, a.ID, appointment.StatusScheduled); err == nil {
			t.Error("expected error moving backwards under strict flow")
		}

		// Side exit to no_show is always allowed from a non-terminal status.
		got, err := svc.ChangeStatus(ctx, a.ID, appointment.StatusNoShow)
		if err != nil {
			t.Fatalf("change to no_show: %v", err)
		}
		if got.Status != appointment.StatusNoShow {
			t.Errorf("status = %q, want no_show", got.Status)
		}

		// Terminal statuses accept no further transitions.
		if _, err := svc.ChangeStatus(ctx, a.ID, appointment.StatusScheduled); err == nil {
			t.Error("expected error transitioning out of terminal status")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestAppointmentListByDay(t *testing.T) {
	ctx := context.Background()
	clinicID := uniqueClinicID("apptday")
	createClinicSchema(t, ctx, clinicID)
	defer dropClinicSchema(t, ctx, clinicID)

	p := createTestPatient(t, ctx, clinicID, "Mia", "Chen")
	d := createTestDentist(t, ctx, clinicID, "Omar", "Haddad")

	err := withClinicConn(ctx, clinicID, func(ctx context.Context) error {
		svc := appointment.NewService(appointment.NewRepoPG(globalDB.Pool), false)

		day := time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour).Add(9 * time.Hour)
		for i := 0; i < 3; i++ {
			start := day.Add(time.Duration(i) * time.Hour)
			a := &appointment.Appointment{
				PatientID: p.ID,
				DentistID: d.ID,
				StartTime: start,
				EndTime:   start.Add(30 * time.Minute),
			}
			if err := svc.Create(ctx, a); err != nil {
				t.Fatalf("create appointment %d: %v", i, err)
			}
		}

		// One appointment on a different day should not show up.
		other := day.AddDate(0, 0, 1)
		a := &appointment.Appointment{
			PatientID: p.ID,
			DentistID: d.ID,
			StartTime: other,
			EndTime:   other.Add(30 * time.Minute),
		}
		if err := svc.Create(ctx, a); err != nil {
			t.Fatalf("create next-day appointment: %v", err)
		}

		_, total, err := svc.ListByDay(ctx, day, 10, 0)
		if err != nil {
			t.Fatalf("list by day: %v", err)
		}
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
