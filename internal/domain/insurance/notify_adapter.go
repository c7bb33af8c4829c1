package insurance

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dsutherland23/dentist-saas-sub004/internal/platform/notification"
)

// Notifier receives claim workflow events that warrant a patient-facing
// message. Calls are best-effort; implementations must not fail the
// triggering operation.
type Notifier interface {
	ClaimStatusChanged(ctx context.Context, patientID uuid.UUID, claimNumber, status string, insuranceEstimate float64)
}

// PatientContacts resolves a patient's display name and email address.
type PatientContacts interface {
	PatientContact(ctx context.Context, id uuid.UUID) (name, email string, err error)
}

// MessengerNotifier bridges claim events to the platform messaging layer.
// Delivery problems are logged and swallowed.
type MessengerNotifier struct {
	contacts  PatientContacts
	messenger *notification.PatientMessenger
	logger    zerolog.Logger
}

func NewMessengerNotifier(contacts PatientContacts, messenger *notification.PatientMessenger, logger zerolog.Logger) *MessengerNotifier {
	return &MessengerNotifier{contacts: contacts, messenger: messenger, logger: logger}
}

func (n *MessengerNotifier) ClaimStatusChanged(ctx context.Context, patientID uuid.UUID, claimNumber, status string, insuranceEstimate float64) {
	name, email, err := n.contacts.PatientContact(ctx, patientID)
	if err != nil {
		n.logger.Warn().Err(err).Str("patient_id", patientID.String()).Msg("claim status notice skipped: contact lookup failed")
		return
	}
	contact := notification.Contact{Name: name, Email: email}
	if err := n.messenger.ClaimStatusChanged(ctx, contact, claimNumber, status, insuranceEstimate); err != nil {
		n.logger.Warn().Err(err).Str("claim_number", claimNumber).Msg("claim status notice not delivered")
	}
}
