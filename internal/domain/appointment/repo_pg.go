package appointment

import (
	"context"
	"time"

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

const apptCols = `id, patient_id, dentist_id, operatory, start_time, end_time,
	reason, status, note, checked_in_at, completed_at, created_at, updated_at`

func (r *repoPG) scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DentistID, &a.Operatory, &a.StartTime, &a.EndTime,
		&a.Reason, &a.Status, &a.Note, &a.CheckedInAt, &a.CompletedAt, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment (id, patient_id, dentist_id, operatory,
			start_time, end_time, reason, status, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.PatientID, a.DentistID, a.Operatory,
		a.StartTime, a.EndTime, a.Reason, a.Status, a.Note)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scanAppt(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET patient_id=$2, dentist_id=$3, operatory=$4,
			start_time=$5, end_time=$6, reason=$7, status=$8, note=$9, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PatientID, a.DentistID, a.Operatory,
		a.StartTime, a.EndTime, a.Reason, a.Status, a.Note)
	return err
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	// Stamp check-in and completion times as the visit reaches those stages.
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET status=$2,
			checked_in_at = CASE WHEN $2 = 'checked_in' THEN NOW() ELSE checked_in_at END,
			completed_at  = CASE WHEN $2 = 'completed' THEN NOW() ELSE completed_at END,
			updated_at = NOW()
		WHERE id = $1`, id, status)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.listWhere(ctx, `patient_id = $1`, patientID, limit, offset)
}

func (r *repoPG) ListByDentist(ctx context.Context, dentistID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.listWhere(ctx, `dentist_id = $1`, dentistID, limit, offset)
}

func (r *repoPG) listWhere(ctx context.Context, where string, arg interface{}, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointment WHERE `+where, arg).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+apptCols+` FROM appointment WHERE `+where+` ORDER BY start_time DESC LIMIT $2 OFFSET $3`, arg, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *repoPG) ListByDay(ctx context.Context, day time.Time, limit, offset int) ([]*Appointment, int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointment WHERE start_time >= $1 AND start_time < $2`, start, end).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+apptCols+` FROM appointment WHERE start_time >= $1 AND start_time < $2 ORDER BY start_time ASC LIMIT $3 OFFSET $4`, start, end, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

var apptSearchParams = map[string]query.ParamConfig{
	"status":  {Type: query.ParamExact, Column: "status"},
	"patient": {Type: query.ParamExact, Column: "patient_id"},
	"dentist": {Type: query.ParamExact, Column: "dentist_id"},
	"start":   {Type: query.ParamDate, Column: "start_time"},
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	qb := query.NewBuilder("appointment", apptCols)
	qb.ApplyParams(params, apptSearchParams)
	qb.OrderBy("start_time DESC")

	var total int
	if err := r.conn(ctx).QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, qb.DataSQL(limit, offset), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *repoPG) collect(rows pgx.Rows, total int) ([]*Appointment, int, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppt(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}
