package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dsutherland23/dentist-saas-sub004/internal/domain/insurance"
)

// Service handles invoices and the payments applied against them.
type Service struct {
	invoices InvoiceRepository
	payments PaymentRepository
	notifier Notifier
}

func NewService(invoices InvoiceRepository, payments PaymentRepository) *Service {
	return &Service{invoices: invoices, payments: payments}
}

// SetNotifier installs the sink for patient-facing billing events.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// CreateInvoice builds a draft invoice from its line items. The insurance
// portion is caller-supplied (typically the claim's estimate); the patient
// portion is the remainder.
func (s *Service) CreateInvoice(ctx context.Context, inv *Invoice, items []*InvoiceItem) error {
	if inv.PatientID == uuid.Nil {
		return fmt.Errorf("patient ID is required")
	}
	if len(items) == 0 {
		return fmt.Errorf("invoice requires at least one line item")
	}
	var total float64
	for _, item := range items {
		if item.ProcedureCode == "" {
			return fmt.Errorf("procedure code is required on every line item")
		}
		if item.Fee < 0 {
			return fmt.Errorf("line item fee must not be negative")
		}
		total += item.Fee
	}
	inv.Total = insurance.RoundCurrency(total)
	if inv.InsurancePortion < 0 {
		return fmt.Errorf("insurance portion must not be negative")
	}
	if inv.InsurancePortion > inv.Total {
		return fmt.Errorf("insurance portion exceeds invoice total")
	}
	inv.PatientPortion = insurance.RoundCurrency(inv.Total - inv.InsurancePortion)
	inv.AmountPaid = 0
	inv.Status = InvoiceDraft

	number, err := s.invoices.NextInvoiceNumber(ctx)
	if err != nil {
		return err
	}
	inv.InvoiceNumber = number

	if err := s.invoices.Create(ctx, inv); err != nil {
		return err
	}
	for i, item := range items {
		item.InvoiceID = inv.ID
		item.Sequence = i + 1
		if err := s.invoices.AddItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, []*InvoiceItem, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.invoices.GetItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return inv, items, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.Search(ctx, params, limit, offset)
}

// ReplaceItems swaps a draft invoice's line items and recomputes its totals.
func (s *Service) ReplaceItems(ctx context.Context, id uuid.UUID, items []*InvoiceItem) (*Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != InvoiceDraft {
		return nil, fmt.Errorf("only draft invoices can be edited")
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("invoice requires at least one line item")
	}
	var total float64
	for _, item := range items {
		if item.ProcedureCode == "" {
			return nil, fmt.Errorf("procedure code is required on every line item")
		}
		if item.Fee < 0 {
			return nil, fmt.Errorf("line item fee must not be negative")
		}
		total += item.Fee
	}
	if err := s.invoices.DeleteItems(ctx, id); err != nil {
		return nil, err
	}
	for i, item := range items {
		item.InvoiceID = id
		item.Sequence = i + 1
		if err := s.invoices.AddItem(ctx, item); err != nil {
			return nil, err
		}
	}
	inv.Total = insurance.RoundCurrency(total)
	if inv.InsurancePortion > inv.Total {
		inv.InsurancePortion = inv.Total
	}
	inv.PatientPortion = insurance.RoundCurrency(inv.Total - inv.InsurancePortion)
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// IssueInvoice freezes a draft and starts the payment clock. Default terms
// are 30 days when no due date was set.
func (s *Service) IssueInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != InvoiceDraft {
		return nil, fmt.Errorf("cannot issue %s invoice", inv.Status)
	}
	now := time.Now()
	inv.Status = InvoiceIssued
	inv.IssuedAt = &now
	if inv.DueDate == nil {
		due := now.AddDate(0, 0, 30)
		inv.DueDate = &due
	}
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.InvoiceIssued(ctx, inv.PatientID, inv.InvoiceNumber, inv.PatientPortion, *inv.DueDate)
	}
	return inv, nil
}

// VoidInvoice cancels an invoice. Paid invoices cannot be voided; refunds
// are out of scope for now and handled as ledger adjustments.
func (s *Service) VoidInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == InvoicePaid {
		return nil, fmt.Errorf("cannot void a paid invoice")
	}
	if inv.AmountPaid > 0 {
		return nil, fmt.Errorf("cannot void an invoice with payments applied")
	}
	inv.Status = InvoiceVoid
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// RecordPayment applies a payment against an issued invoice and rolls the
// status forward to partially_paid or paid.
func (s *Service) RecordPayment(ctx context.Context, p *Payment) (*Invoice, error) {
	if p.InvoiceID == uuid.Nil {
		return nil, fmt.Errorf("invoice ID is required")
	}
	if p.Amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive")
	}
	if !ValidPaymentMethod(p.Method) {
		return nil, fmt.Errorf("invalid payment method: %s", p.Method)
	}
	inv, err := s.invoices.GetByID(ctx, p.InvoiceID)
	if err != nil {
		return nil, err
	}
	switch inv.Status {
	case InvoiceIssued, InvoicePartiallyPaid:
	default:
		return nil, fmt.Errorf("cannot record payment against %s invoice", inv.Status)
	}
	if p.Amount > inv.Balance() {
		return nil, fmt.Errorf("payment %.2f exceeds outstanding balance %.2f", p.Amount, inv.Balance())
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now()
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	inv.AmountPaid = insurance.RoundCurrency(inv.AmountPaid + p.Amount)
	if inv.Balance() == 0 {
		inv.Status = InvoicePaid
	} else {
		inv.Status = InvoicePartiallyPaid
	}
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) ListPayments(ctx context.Context, invoiceID uuid.UUID, limit, offset int) ([]*Payment, int, error) {
	return s.payments.ListByInvoice(ctx, invoiceID, limit, offset)
}
