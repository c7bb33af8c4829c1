package staff

import (
	"time"

	"github.com/google/uuid"
)

// Member maps to the staff_member table.
type Member struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	FirstName     string     `db:"first_name" json:"first_name"`
	LastName      string     `db:"last_name" json:"last_name"`
	Role          string     `db:"role" json:"role"`
	Email         *string    `db:"email" json:"email,omitempty"`
	Phone         *string    `db:"phone" json:"phone,omitempty"`
	LicenseNumber *string    `db:"license_number" json:"license_number,omitempty"`
	HiredAt       *time.Time `db:"hired_at" json:"hired_at,omitempty"`
	Active        bool       `db:"active" json:"active"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}
