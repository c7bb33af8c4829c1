package billing

import (
	"context"
	"fmt"

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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return pool
}

// =========== Invoice Repository ===========

type invoiceRepoPG struct{ pool *pgxpool.Pool }

func NewInvoiceRepoPG(pool *pgxpool.Pool) InvoiceRepository { return &invoiceRepoPG{pool: pool} }

const invoiceCols = `id, invoice_number, patient_id, appointment_id, status,
	total, insurance_portion, patient_portion, amount_paid,
	due_date, issued_at, note, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.PatientID, &inv.AppointmentID, &inv.Status,
		&inv.Total, &inv.InsurancePortion, &inv.PatientPortion, &inv.AmountPaid,
		&inv.DueDate, &inv.IssuedAt, &inv.Note, &inv.CreatedAt, &inv.UpdatedAt)
	return &inv, err
}

func (r *invoiceRepoPG) Create(ctx context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO invoice (id, invoice_number, patient_id, appointment_id, status,
			total, insurance_portion, patient_portion, amount_paid, due_date, issued_at, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		inv.ID, inv.InvoiceNumber, inv.PatientID, inv.AppointmentID, inv.Status,
		inv.Total, inv.InsurancePortion, inv.PatientPortion, inv.AmountPaid,
		inv.DueDate, inv.IssuedAt, inv.Note)
	return err
}

func (r *invoiceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return scanInvoice(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+invoiceCols+` FROM invoice WHERE id = $1`, id))
}

func (r *invoiceRepoPG) Update(ctx context.Context, inv *Invoice) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE invoice SET status=$2, total=$3, insurance_portion=$4, patient_portion=$5,
			amount_paid=$6, due_date=$7, issued_at=$8, note=$9, updated_at=NOW()
		WHERE id = $1`,
		inv.ID, inv.Status, inv.Total, inv.InsurancePortion, inv.PatientPortion,
		inv.AmountPaid, inv.DueDate, inv.IssuedAt, inv.Note)
	return err
}

func (r *invoiceRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM invoice WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+invoiceCols+` FROM invoice WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, inv)
	}
	return items, total, nil
}

var invoiceSearchParams = map[string]query.ParamConfig{
	"patient": {Type: query.ParamExact, Column: "patient_id"},
	"status":  {Type: query.ParamExact, Column: "status"},
	"number":  {Type: query.ParamExact, Column: "invoice_number"},
	"due":     {Type: query.ParamDate, Column: "due_date"},
	"total":   {Type: query.ParamNumber, Column: "total"},
}

func (r *invoiceRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Invoice, int, error) {
	qb := query.NewBuilder("invoice", invoiceCols)
	qb.ApplyParams(params, invoiceSearchParams)
	qb.OrderBy("created_at DESC")

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, qb.DataSQL(limit, offset), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, inv)
	}
	return items, total, nil
}

func (r *invoiceRepoPG) AddItem(ctx context.Context, item *InvoiceItem) error {
	item.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO invoice_item (id, invoice_id, sequence, procedure_code, description, fee)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		item.ID, item.InvoiceID, item.Sequence, item.ProcedureCode, item.Description, item.Fee)
	return err
}

func (r *invoiceRepoPG) GetItems(ctx context.Context, invoiceID uuid.UUID) ([]*InvoiceItem, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, invoice_id, sequence, procedure_code, description, fee
		FROM invoice_item WHERE invoice_id = $1 ORDER BY sequence`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*InvoiceItem
	for rows.Next() {
		var it InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Sequence, &it.ProcedureCode, &it.Description, &it.Fee); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, nil
}

func (r *invoiceRepoPG) DeleteItems(ctx context.Context, invoiceID uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM invoice_item WHERE invoice_id = $1`, invoiceID)
	return err
}

// NextInvoiceNumber draws from a per-schema sequence so numbers stay dense
// per clinic.
func (r *invoiceRepoPG) NextInvoiceNumber(ctx context.Context) (string, error) {
	var n int64
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%06d", n), nil
}

// =========== Payment Repository ===========

type paymentRepoPG struct{ pool *pgxpool.Pool }

func NewPaymentRepoPG(pool *pgxpool.Pool) PaymentRepository { return &paymentRepoPG{pool: pool} }

func (r *paymentRepoPG) Create(ctx context.Context, p *Payment) error {
	p.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO payment (id, invoice_id, amount, method, reference, note, paid_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.InvoiceID, p.Amount, p.Method, p.Reference, p.Note, p.PaidAt)
	return err
}

func (r *paymentRepoPG) ListByInvoice(ctx context.Context, invoiceID uuid.UUID, limit, offset int) ([]*Payment, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM payment WHERE invoice_id = $1`, invoiceID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, invoice_id, amount, method, reference, note, paid_at, created_at
		FROM payment WHERE invoice_id = $1 ORDER BY paid_at DESC LIMIT $2 OFFSET $3`, invoiceID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Method, &p.Reference, &p.Note, &p.PaidAt, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &p)
	}
	return items, total, nil
}
