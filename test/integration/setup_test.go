package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dsutherland23/dentist-saas-sub004/internal/domain/insurance"
	"github.com/dsutherland23/dentist-saas-sub004/internal/domain/patient"
	"github.com/dsutherland23/dentist-saas-sub004/internal/domain/staff"
	"github.com/dsutherland23/dentist-saas-sub004/internal/platform/auth"
	"github.com/dsutherland23/dentist-saas-sub004/internal/platform/db"
)

// testDB holds the shared database infrastructure for integration tests.
type testDB struct {
	Pool          *pgxpool.Pool
	ConnStr       string
	MigrationsDir string
}

// globalDB is the package-level test database, initialized once in TestMain.
var globalDB *testDB

func TestMain(m *testing.M) {
	ctx := context.Background()

	connStr, cleanup, err := startPostgresContainer(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to setup postgres container: %v\n", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		cleanup()
		fmt.Fprintf(os.Stderr, "failed to create pool: %v\n", err)
		os.Exit(1)
	}

	globalDB = &testDB{
		Pool:          pool,
		ConnStr:       connStr,
		MigrationsDir: findMigrationsDir(),
	}

	code := m.Run()
	pool.Close()
	cleanup()
	os.Exit(code)
}

// findMigrationsDir locates the migrations directory relative to this test file.
func findMigrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	// test/integration -> repo root
	return filepath.Join(dir, "..", "..", "migrations")
}

// createClinicSchema creates a new clinic schema and runs all migrations.
func createClinicSchema(t *testing.T, ctx context.Context, clinicID string) {
	t.Helper()
	if err := db.CreateClinicSchema(ctx, globalDB.Pool, clinicID, globalDB.MigrationsDir); err != nil {
		t.Fatalf("create clinic schema %s: %v", clinicID, err)
	}
}

// dropClinicSchema drops a clinic schema for cleanup.
func dropClinicSchema(t *testing.T, ctx context.Context, clinicID string) {
	t.Helper()
	schema := fmt.Sprintf("clinic_%s", clinicID)
	_, err := globalDB.Pool.Exec(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schema))
	if err != nil {
		t.Logf("warning: failed to drop schema %s: %v", schema, err)
	}
}

// withClinicConn acquires a connection, pins its search_path to the clinic
// schema, and passes a context carrying the connection to the callback so
// repositories run against that clinic only.
func withClinicConn(ctx context.Context, clinicID string, fn func(ctx context.Context) error) error {
	conn, err := globalDB.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	defer conn.Release()

	schema := fmt.Sprintf("clinic_%s", clinicID)
	_, err = conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s, public", schema))
	if err != nil {
		return fmt.Errorf("set search_path: %w", err)
	}

	ctx = context.WithValue(ctx, db.DBConnKey, conn)
	return fn(ctx)
}

// uniqueClinicID generates a unique clinic ID for test isolation.
func uniqueClinicID(prefix string) string {
	short := strings.ReplaceAll(uuid.New().String()[:8], "-", "")
	return fmt.Sprintf("%s_%s", prefix, short)
}

// createTestPatient creates a patient in the clinic schema using the repo.
func createTestPatient(t *testing.T, ctx context.Context, clinicID, firstName, lastName string) *patient.Patient {
	t.Helper()
	var result *patient.Patient
	err := withClinicConn(ctx, clinicID, func(ctx context.Context) error {
		repo := patient.NewRepoPG(globalDB.Pool)
		p := &patient.Patient{
			FirstName: firstName,
			LastName:  lastName,
			Active:    true,
		}
		if err := repo.Create(ctx, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		t.Fatalf("create test patient: %v", err)
	}
	return result
}

// createTestDentist creates an active dentist staff member.
func createTestDentist(t *testing.T, ctx context.Context, clinicID, firstName, lastName string) *staff.Member {
	t.Helper()
	var result *staff.Member
	err := withClinicConn(ctx, clinicID, func(ctx context.Context) error {
		repo := staff.NewRepoPG(globalDB.Pool)
		m := &staff.Member{
			FirstName:     firstName,
			LastName:      lastName,
			Role:          auth.RoleDentist,
			LicenseNumber: ptrStr("DDS-12345"),
			Active:        true,
		}
		if err := repo.Create(ctx, m); err != nil {
			return err
		}
		result = m
		return nil
	})
	if err != nil {
		t.Fatalf("create test dentist: %v", err)
	}
	return result
}

// createTestPolicy creates an active insurance policy for the patient.
func createTestPolicy(t *testing.T, ctx context.Context, clinicID string, patientID uuid.UUID) *insurance.Policy {
	t.Helper()
	var result *insurance.Policy
	err := withClinicConn(ctx, clinicID, func(ctx context.Context) error {
		svc := insurance.NewService(
			insurance.NewPolicyRepoPG(globalDB.Pool),
			insurance.NewEligibilityRepoPG(globalDB.Pool),
			insurance.NewClaimRepoPG(globalDB.Pool),
			insurance.NewRemittanceRepoPG(globalDB.Pool),
		)
		p := &insurance.Policy{
			PatientID:    patientID,
			Carrier:      "Delta Dental",
			MemberNumber: "MBR-001",
			CoveragePct:  80,
			AnnualMax:    1500,
			Deductible:   50,
		}
		if err := svc.CreatePolicy(ctx, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		t.Fatalf("create test policy: %v", err)
	}
	return result
}

// ptrStr returns a pointer to the given string.
func ptrStr(s string) *string { return &s }

// ptrTime returns a pointer to the given time.
func ptrTime(t time.Time) *time.Time { return &t }
