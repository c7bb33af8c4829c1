package billing

import (
	"context"

	"github.com/google/uuid"
)

type InvoiceRepository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Invoice, int, error)
	AddItem(ctx context.Context, item *InvoiceItem) error
	GetItems(ctx context.Context, invoiceID uuid.UUID) ([]*InvoiceItem, error)
	DeleteItems(ctx context.Context, invoiceID uuid.UUID) error

	// NextInvoiceNumber hands out the next number in the clinic's sequence.
	NextInvoiceNumber(ctx context.Context) (string, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID, limit, offset int) ([]*Payment, int, error)
}
