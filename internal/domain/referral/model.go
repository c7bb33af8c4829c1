package referral

import (
	"time"

	"github.com/google/uuid"
)

// Referral maps to the referral table.
type Referral struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	PatientID          uuid.UUID  `db:"patient_id" json:"patient_id"`
	Direction          string     `db:"direction" json:"direction"`
	ReferringDentistID *uuid.UUID `db:"referring_dentist_id" json:"referring_dentist_id,omitempty"`
	SpecialistName     string     `db:"specialist_name" json:"specialist_name"`
	SpecialistPractice *string    `db:"specialist_practice" json:"specialist_practice,omitempty"`
	Specialty          *string    `db:"specialty" json:"specialty,omitempty"`
	Reason             string     `db:"reason" json:"reason"`
	Urgency            string     `db:"urgency" json:"urgency"`
	Status             string     `db:"status" json:"status"`
	Note               *string    `db:"note" json:"note,omitempty"`
	SentAt             *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	ResolvedAt         *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// Referral directions.
const (
	DirectionOutbound = "outbound"
	DirectionInbound  = "inbound"
)

// Urgency levels.
const (
	UrgencyRoutine = "routine"
	UrgencyUrgent  = "urgent"
)

// Referral statuses. Draft referrals are editable; sending hands them to the
// specialist, who accepts or declines; accepted referrals complete once the
// specialist reports back.
const (
	StatusDraft     = "draft"
	StatusSent      = "sent"
	StatusAccepted  = "accepted"
	StatusCompleted = "completed"
	StatusDeclined  = "declined"
)

var transitions = map[string][]string{
	StatusDraft:     {StatusSent},
	StatusSent:      {StatusAccepted, StatusDeclined},
	StatusAccepted:  {StatusCompleted, StatusDeclined},
	StatusCompleted: {},
	StatusDeclined:  {},
}
