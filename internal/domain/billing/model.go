package billing

import (
	"time"

	"github.com/google/uuid"
)

// Invoice maps to the invoice table.
type Invoice struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	InvoiceNumber    string     `db:"invoice_number" json:"invoice_number"`
	PatientID        uuid.UUID  `db:"patient_id" json:"patient_id"`
	AppointmentID    *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	Status           string     `db:"status" json:"status"`
	Total            float64    `db:"total" json:"total"`
	InsurancePortion float64    `db:"insurance_portion" json:"insurance_portion"`
	PatientPortion   float64    `db:"patient_portion" json:"patient_portion"`
	AmountPaid       float64    `db:"amount_paid" json:"amount_paid"`
	DueDate          *time.Time `db:"due_date" json:"due_date,omitempty"`
	IssuedAt         *time.Time `db:"issued_at" json:"issued_at,omitempty"`
	Note             *string    `db:"note" json:"note,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// Balance is what the patient still owes on the invoice.
func (i *Invoice) Balance() float64 {
	b := i.PatientPortion - i.AmountPaid
	if b < 0 {
		return 0
	}
	return b
}

// Invoice statuses. Draft invoices are editable; issuing freezes the line
// items and starts the payment clock. Void invoices keep their history but
// accept no further payments.
const (
	InvoiceDraft         = "draft"
	InvoiceIssued        = "issued"
	InvoicePartiallyPaid = "partially_paid"
	InvoicePaid          = "paid"
	InvoiceVoid          = "void"
)

// InvoiceItem maps to the invoice_item table (one row per billed procedure).
type InvoiceItem struct {
	ID            uuid.UUID `db:"id" json:"id"`
	InvoiceID     uuid.UUID `db:"invoice_id" json:"invoice_id"`
	Sequence      int       `db:"sequence" json:"sequence"`
	ProcedureCode string    `db:"procedure_code" json:"procedure_code"`
	Description   *string   `db:"description" json:"description,omitempty"`
	Fee           float64   `db:"fee" json:"fee"`
}

// Payment maps to the payment table. One row per patient payment applied
// against an invoice.
type Payment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	InvoiceID uuid.UUID `db:"invoice_id" json:"invoice_id"`
	Amount    float64   `db:"amount" json:"amount"`
	Method    string    `db:"method" json:"method"`
	Reference *string   `db:"reference" json:"reference,omitempty"`
	Note      *string   `db:"note" json:"note,omitempty"`
	PaidAt    time.Time `db:"paid_at" json:"paid_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Payment methods.
const (
	PaymentCash         = "cash"
	PaymentCard         = "card"
	PaymentBankTransfer = "bank_transfer"
	PaymentCheck        = "check"
	PaymentInsurance    = "insurance"
)

var paymentMethods = map[string]bool{
	PaymentCash:         true,
	PaymentCard:         true,
	PaymentBankTransfer: true,
	PaymentCheck:        true,
	PaymentInsurance:    true,
}

// ValidPaymentMethod reports whether method is one of the accepted values.
func ValidPaymentMethod(method string) bool { return paymentMethods[method] }
