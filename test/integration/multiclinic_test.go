package integration

import (
	"context"
	"testing"

	"github.com/dsutherland23/dentist-saas-sub004/internal/domain/patient"
)

// Each clinic lives in its own schema, so repositories pinned to one clinic's
// connection must never see another clinic's rows.
func TestClinicDataIsolation(t *testing.T) {
	ctx := context.Background()
	clinicA := uniqueClinicID("iso_a")
	clinicB := uniqueClinicID("iso_b")
	createClinicSchema(t, ctx, clinicA)
	createClinicSchema(t, ctx, clinicB)
	defer dropClinicSchema(t, ctx, clinicA)
	defer dropClinicSchema(t, ctx, clinicB)

	pa := createTestPatient(t, ctx, clinicA, "Alice", "Archer")
	createTestPatient(t, ctx, clinicB, "Bella", "Brook")

	err := withClinicConn(ctx, clinicB, func(ctx context.Context) error {
		repo := patient.NewRepoPG(globalDB.Pool)

		// Clinic A's patient is invisible from clinic B.
		if _, err := repo.GetByID(ctx, pa.ID); err == nil {
			t.Error("expected clinic A patient to be invisible from clinic B")
		}

		_, total, err := repo.List(ctx, 10, 0)
		if err != nil {
			t.Fatalf("list patients: %v", err)
		}
		if total != 1 {
			t.Errorf("clinic B total = %d, want 1", total)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	err = withClinicConn(ctx, clinicA, func(ctx context.Context) error {
		repo := patient.NewRepoPG(globalDB.Pool)
		got, err := repo.GetByID(ctx, pa.ID)
		if err != nil {
			t.Fatalf("get clinic A patient: %v", err)
		}
		if got.FirstName != "Alice" {
			t.Errorf("first name = %q, want Alice", got.FirstName)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
