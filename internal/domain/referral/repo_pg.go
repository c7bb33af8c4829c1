package referral

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

const referralCols = `id, patient_id, direction, referring_dentist_id,
	specialist_name, specialist_practice, specialty, reason, urgency, status,
	note, sent_at, resolved_at, created_at, updated_at`

func (r *repoPG) scanReferral(row pgx.Row) (*Referral, error) {
	var ref Referral
	err := row.Scan(&ref.ID, &ref.PatientID, &ref.Direction, &ref.ReferringDentistID,
		&ref.SpecialistName, &ref.SpecialistPractice, &ref.Specialty, &ref.Reason, &ref.Urgency, &ref.Status,
		&ref.Note, &ref.SentAt, &ref.ResolvedAt, &ref.CreatedAt, &ref.UpdatedAt)
	return &ref, err
}

func (r *repoPG) Create(ctx context.Context, ref *Referral) error {
	ref.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO referral (id, patient_id, direction, referring_dentist_id,
			specialist_name, specialist_practice, specialty, reason, urgency, status, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		ref.ID, ref.PatientID, ref.Direction, ref.ReferringDentistID,
		ref.SpecialistName, ref.SpecialistPractice, ref.Specialty, ref.Reason, ref.Urgency, ref.Status, ref.Note)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Referral, error) {
	return r.scanReferral(r.conn(ctx).QueryRow(ctx, `SELECT `+referralCols+` FROM referral WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, ref *Referral) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE referral SET referring_dentist_id=$2, specialist_name=$3, specialist_practice=$4,
			specialty=$5, reason=$6, urgency=$7, status=$8, note=$9, sent_at=$10, resolved_at=$11,
			updated_at=NOW()
		WHERE id = $1`,
		ref.ID, ref.ReferringDentistID, ref.SpecialistName, ref.SpecialistPractice,
		ref.Specialty, ref.Reason, ref.Urgency, ref.Status, ref.Note, ref.SentAt, ref.ResolvedAt)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM referral WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Referral, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM referral WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+referralCols+` FROM referral WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Referral
	for rows.Next() {
		ref, err := r.scanReferral(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, ref)
	}
	return items, total, nil
}

var referralSearchParams = map[string]query.ParamConfig{
	"patient":   {Type: query.ParamExact, Column: "patient_id"},
	"direction": {Type: query.ParamExact, Column: "direction"},
	"status":    {Type: query.ParamExact, Column: "status"},
	"urgency":   {Type: query.ParamExact, Column: "urgency"},
	"sent":      {Type: query.ParamDate, Column: "sent_at"},
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Referral, int, error) {
	qb := query.NewBuilder("referral", referralCols)
	qb.ApplyParams(params, referralSearchParams)
	qb.OrderBy("created_at DESC")

	var total int
	if err := r.conn(ctx).QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, qb.DataSQL(limit, offset), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Referral
	for rows.Next() {
		ref, err := r.scanReferral(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, ref)
	}
	return items, total, nil
}
