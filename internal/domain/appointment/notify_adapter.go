package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dsutherland23/dentist-saas-sub004/internal/platform/notification"
)

// Notifier receives visit lifecycle events that warrant a patient-facing
// message. Calls are best-effort; implementations must not fail the
// triggering operation.
type Notifier interface {
	VisitCancelled(ctx context.Context, patientID uuid.UUID, start time.Time)
}

// PatientContacts resolves a patient's display name and email address.
type PatientContacts interface {
	PatientContact(ctx context.Context, id uuid.UUID) (name, email string, err error)
}

// MessengerNotifier bridges visit events to the platform messaging layer,
// resolving patient contact details on the way. Delivery problems are logged
// and swallowed.
type MessengerNotifier struct {
	contacts  PatientContacts
	messenger *notification.PatientMessenger
	logger    zerolog.Logger
}

func NewMessengerNotifier(contacts PatientContacts, messenger *notification.PatientMessenger, logger zerolog.Logger) *MessengerNotifier {
	return &MessengerNotifier{contacts: contacts, messenger: messenger, logger: logger}
}

func (n *MessengerNotifier) VisitCancelled(ctx context.Context, patientID uuid.UUID, start time.Time) {
	name, email, err := n.contacts.PatientContact(ctx, patientID)
	if err != nil {
		n.logger.Warn().Err(err).Str("patient_id", patientID.String()).Msg("cancellation notice skipped: contact lookup failed")
		return
	}
	contact := notification.Contact{Name: name, Email: email}
	if err := n.messenger.VisitCancelled(ctx, contact, start); err != nil {
		n.logger.Warn().Err(err).Str("patient_id", patientID.String()).Msg("cancellation notice not delivered")
	}
}
