package notification

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Contact is the resolved recipient of a patient-facing message. Patients
// without an email address get an empty Email and are skipped.
type Contact struct {
	Name  string
	Email string
}

// PatientMessenger turns clinic events into rendered outbox messages. Each
// method corresponds to one built-in template.
type PatientMessenger struct {
	outbox *Outbox
}

func NewPatientMessenger(outbox *Outbox) *PatientMessenger {
	return &PatientMessenger{outbox: outbox}
}

// VisitReminder tells the patient about an upcoming appointment.
func (pm *PatientMessenger) VisitReminder(ctx context.Context, c Contact, start time.Time, provider string) error {
	if c.Email == "" {
		return nil
	}
	_, err := pm.outbox.SendTemplate(ctx, TemplateVisitReminder, map[string]string{
		"patient_name": c.Name,
		"date":         formatDate(start),
		"time":         formatTime(start),
		"provider":     provider,
	}, c.Email)
	return err
}

// VisitCancelled tells the patient their appointment was cancelled.
func (pm *PatientMessenger) VisitCancelled(ctx context.Context, c Contact, start time.Time) error {
	if c.Email == "" {
		return nil
	}
	_, err := pm.outbox.SendTemplate(ctx, TemplateVisitCancelled, map[string]string{
		"patient_name": c.Name,
		"date":         formatDate(start),
		"time":         formatTime(start),
	}, c.Email)
	return err
}

// RecallDue nudges the patient to book a checkup.
func (pm *PatientMessenger) RecallDue(ctx context.Context, c Contact, monthsSinceVisit int, clinicPhone string) error {
	if c.Email == "" {
		return nil
	}
	_, err := pm.outbox.SendTemplate(ctx, TemplateRecallDue, map[string]string{
		"patient_name":       c.Name,
		"months_since_visit": strconv.Itoa(monthsSinceVisit),
		"clinic_phone":       clinicPhone,
	}, c.Email)
	return err
}

// InvoiceIssued tells the patient an invoice is awaiting payment.
func (pm *PatientMessenger) InvoiceIssued(ctx context.Context, c Contact, invoiceNumber string, amount float64, due time.Time) error {
	if c.Email == "" {
		return nil
	}
	_, err := pm.outbox.SendTemplate(ctx, TemplateInvoiceIssued, map[string]string{
		"patient_name":   c.Name,
		"invoice_number": invoiceNumber,
		"amount":         formatMoney(amount),
		"due_date":       formatDate(due),
	}, c.Email)
	return err
}

// ClaimStatusChanged tells the patient their insurance claim moved to a new
// status.
func (pm *PatientMessenger) ClaimStatusChanged(ctx context.Context, c Contact, claimNumber, status string, insuranceEstimate float64) error {
	if c.Email == "" {
		return nil
	}
	_, err := pm.outbox.SendTemplate(ctx, TemplateClaimStatus, map[string]string{
		"patient_name":       c.Name,
		"claim_number":       claimNumber,
		"status":             status,
		"insurance_estimate": formatMoney(insuranceEstimate),
	}, c.Email)
	return err
}

func formatDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

func formatTime(t time.Time) string {
	return t.Format("3:04 PM")
}

func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
