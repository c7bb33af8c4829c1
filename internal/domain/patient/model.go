package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table.
type Patient struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	FirstName     string     `db:"first_name" json:"first_name"`
	LastName      string     `db:"last_name" json:"last_name"`
	DateOfBirth   *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender        *string    `db:"gender" json:"gender,omitempty"`
	Phone         *string    `db:"phone" json:"phone,omitempty"`
	Email         *string    `db:"email" json:"email,omitempty"`
	AddressLine   *string    `db:"address_line" json:"address_line,omitempty"`
	City          *string    `db:"city" json:"city,omitempty"`
	State         *string    `db:"state" json:"state,omitempty"`
	PostalCode    *string    `db:"postal_code" json:"postal_code,omitempty"`
	MedicalAlerts *string    `db:"medical_alerts" json:"medical_alerts,omitempty"`
	Allergies     *string    `db:"allergies" json:"allergies,omitempty"`
	Note          *string    `db:"note" json:"note,omitempty"`
	LastVisitAt   *time.Time `db:"last_visit_at" json:"last_visit_at,omitempty"`
	Active        bool       `db:"active" json:"active"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName returns the patient's display name.
func (p *Patient) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
