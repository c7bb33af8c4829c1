package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dsutherland23/dentist-saas-sub004/internal/platform/notification"
)

// Notifier receives billing events that warrant a patient-facing message.
// Calls are best-effort; implementations must not fail the triggering
// operation.
type Notifier interface {
	InvoiceIssued(ctx context.Context, patientID uuid.UUID, invoiceNumber string, patientPortion float64, due time.Time)
}

// PatientContacts resolves a patient's display name and email address.
type PatientContacts interface {
	PatientContact(ctx context.Context, id uuid.UUID) (name, email string, err error)
}

// MessengerNotifier bridges billing events to the platform messaging layer.
// Delivery problems are logged and swallowed.
type MessengerNotifier struct {
	contacts  PatientContacts
	messenger *notification.PatientMessenger
	logger    zerolog.Logger
}

func NewMessengerNotifier(contacts PatientContacts, messenger *notification.PatientMessenger, logger zerolog.Logger) *MessengerNotifier {
	return &MessengerNotifier{contacts: contacts, messenger: messenger, logger: logger}
}

func (n *MessengerNotifier) InvoiceIssued(ctx context.Context, patientID uuid.UUID, invoiceNumber string, patientPortion float64, due time.Time) {
	name, email, err := n.contacts.PatientContact(ctx, patientID)
	if err != nil {
		n.logger.Warn().Err(err).Str("patient_id", patientID.String()).Msg("invoice notice skipped: contact lookup failed")
		return
	}
	contact := notification.Contact{Name: name, Email: email}
	if err := n.messenger.InvoiceIssued(ctx, contact, invoiceNumber, patientPortion, due); err != nil {
		n.logger.Warn().Err(err).Str("invoice_number", invoiceNumber).Msg("invoice notice not delivered")
	}
}
