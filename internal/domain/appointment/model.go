package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment maps to the appointment table.
type Appointment struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	DentistID   uuid.UUID  `db:"dentist_id" json:"dentist_id"`
	Operatory   *string    `db:"operatory" json:"operatory,omitempty"`
	StartTime   time.Time  `db:"start_time" json:"start_time"`
	EndTime     time.Time  `db:"end_time" json:"end_time"`
	Reason      *string    `db:"reason" json:"reason,omitempty"`
	Status      string     `db:"status" json:"status"`
	Note        *string    `db:"note" json:"note,omitempty"`
	CheckedInAt *time.Time `db:"checked_in_at" json:"checked_in_at,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// StatusDisplay returns the human-readable label for the appointment's status.
func (a *Appointment) StatusDisplay() string {
	return StatusLabel(a.Status)
}
