package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dsutherland23/dentist-saas-sub004/internal/platform/db"
	"github.com/dsutherland23/dentist-saas-sub004/internal/platform/query"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const patientCols = `id, first_name, last_name, date_of_birth, gender,
	phone, email, address_line, city, state, postal_code,
	medical_alerts, allergies, note, last_visit_at, active, created_at, updated_at`

func (r *repoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender,
		&p.Phone, &p.Email, &p.AddressLine, &p.City, &p.State, &p.PostalCode,
		&p.MedicalAlerts, &p.Allergies, &p.Note, &p.LastVisitAt, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, first_name, last_name, date_of_birth, gender,
			phone, email, address_line, city, state, postal_code,
			medical_alerts, allergies, note, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		p.ID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender,
		p.Phone, p.Email, p.AddressLine, p.City, p.State, p.PostalCode,
		p.MedicalAlerts, p.Allergies, p.Note, p.Active)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET first_name=$2, last_name=$3, date_of_birth=$4, gender=$5,
			phone=$6, email=$7, address_line=$8, city=$9, state=$10, postal_code=$11,
			medical_alerts=$12, allergies=$13, note=$14, active=$15, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender,
		p.Phone, p.Email, p.AddressLine, p.City, p.State, p.PostalCode,
		p.MedicalAlerts, p.Allergies, p.Note, p.Active)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return r.Search(ctx, nil, limit, offset)
}

var patientSearchParams = map[string]query.ParamConfig{
	"first_name": {Type: query.ParamString, Column: "first_name"},
	"last_name":  {Type: query.ParamString, Column: "last_name"},
	"phone":      {Type: query.ParamString, Column: "phone"},
	"email":      {Type: query.ParamString, Column: "email"},
	"active":     {Type: query.ParamExact, Column: "active"},
	"birthdate":  {Type: query.ParamDate, Column: "date_of_birth"},
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	qb := query.NewBuilder("patient", patientCols)
	qb.ApplyParams(params, patientSearchParams)
	qb.OrderBy("last_name ASC, first_name ASC")

	var total int
	if err := r.conn(ctx).QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, qb.DataSQL(limit, offset), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

func (r *repoPG) TouchLastVisit(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE patient SET last_visit_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	return err
}
