package staff

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

const memberCols = `id, first_name, last_name, role, email, phone,
	license_number, hired_at, active, created_at, updated_at`

func (r *repoPG) scanMember(row pgx.Row) (*Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Role, &m.Email, &m.Phone,
		&m.LicenseNumber, &m.HiredAt, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Member) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO staff_member (id, first_name, last_name, role, email, phone, license_number, hired_at, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		m.ID, m.FirstName, m.LastName, m.Role, m.Email, m.Phone, m.LicenseNumber, m.HiredAt, m.Active)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	return r.scanMember(r.conn(ctx).QueryRow(ctx, `SELECT `+memberCols+` FROM staff_member WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, m *Member) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE staff_member SET first_name=$2, last_name=$3, role=$4, email=$5, phone=$6,
			license_number=$7, hired_at=$8, active=$9, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.FirstName, m.LastName, m.Role, m.Email, m.Phone, m.LicenseNumber, m.HiredAt, m.Active)
	return err
}

func (r *repoPG) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE staff_member SET active = false, updated_at = NOW() WHERE id = $1`, id)
	return err
}

var memberSearchParams = map[string]query.ParamConfig{
	"first_name": {Type: query.ParamString, Column: "first_name"},
	"last_name":  {Type: query.ParamString, Column: "last_name"},
	"role":       {Type: query.ParamExact, Column: "role"},
	"active":     {Type: query.ParamExact, Column: "active"},
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Member, int, error) {
	qb := query.NewBuilder("staff_member", memberCols)
	qb.ApplyParams(params, memberSearchParams)
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
	var items []*Member
	for rows.Next() {
		m, err := r.scanMember(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}
