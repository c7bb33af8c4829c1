package insurance

import (
	"time"

	"github.com/google/uuid"
)

// Policy maps to the insurance_policy table.
type Policy struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	PatientID           uuid.UUID  `db:"patient_id" json:"patient_id"`
	Carrier             string     `db:"carrier" json:"carrier"`
	PlanName            *string    `db:"plan_name" json:"plan_name,omitempty"`
	MemberNumber        string     `db:"member_number" json:"member_number"`
	GroupNumber         *string    `db:"group_number" json:"group_number,omitempty"`
	CoveragePct         float64    `db:"coverage_pct" json:"coverage_pct"`
	AnnualMax           float64    `db:"annual_max" json:"annual_max"`
	AnnualMaxRemaining  float64    `db:"annual_max_remaining" json:"annual_max_remaining"`
	Deductible          float64    `db:"deductible" json:"deductible"`
	DeductibleRemaining float64    `db:"deductible_remaining" json:"deductible_remaining"`
	EffectiveFrom       *time.Time `db:"effective_from" json:"effective_from,omitempty"`
	EffectiveTo         *time.Time `db:"effective_to" json:"effective_to,omitempty"`
	Active              bool       `db:"active" json:"active"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// EligibilityCheck maps to the eligibility_check table. One row per
// verification attempt against a policy.
type EligibilityCheck struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PolicyID   uuid.UUID `db:"policy_id" json:"policy_id"`
	VerifiedBy string    `db:"verified_by" json:"verified_by"`
	Outcome    string    `db:"outcome" json:"outcome"`
	Note       *string   `db:"note" json:"note,omitempty"`
	CheckedAt  time.Time `db:"checked_at" json:"checked_at"`
}

// Eligibility outcomes.
const (
	EligibilityActive   = "active"
	EligibilityInactive = "inactive"
	EligibilityExpired  = "expired"
	EligibilityUnknown  = "unknown"
)

// Claim maps to the claim table.
type Claim struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	ClaimNumber       *string    `db:"claim_number" json:"claim_number,omitempty"`
	PolicyID          uuid.UUID  `db:"policy_id" json:"policy_id"`
	PatientID         uuid.UUID  `db:"patient_id" json:"patient_id"`
	AppointmentID     *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	Status            string     `db:"status" json:"status"`
	TotalFee          float64    `db:"total_fee" json:"total_fee"`
	InsuranceEstimate float64    `db:"insurance_estimate" json:"insurance_estimate"`
	PatientPortion    float64    `db:"patient_portion" json:"patient_portion"`
	AppliedDeductible float64    `db:"applied_deductible" json:"applied_deductible"`
	CappedByAnnualMax bool       `db:"capped_by_annual_max" json:"capped_by_annual_max"`
	DenialReason      *string    `db:"denial_reason" json:"denial_reason,omitempty"`
	Note              *string    `db:"note" json:"note,omitempty"`
	SubmittedAt       *time.Time `db:"submitted_at" json:"submitted_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// Claim statuses and workflow. A claim starts as a draft, is submitted to the
// payer, then adjudicated; payment closes it out.
const (
	ClaimDraft     = "draft"
	ClaimSubmitted = "submitted"
	ClaimAccepted  = "accepted"
	ClaimDenied    = "denied"
	ClaimPaid      = "paid"
)

var claimTransitions = map[string][]string{
	ClaimDraft:     {ClaimSubmitted},
	ClaimSubmitted: {ClaimAccepted, ClaimDenied},
	ClaimAccepted:  {ClaimPaid, ClaimDenied},
	ClaimDenied:    {ClaimSubmitted}, // resubmission after correction
	ClaimPaid:      {},
}

// ClaimItem maps to the claim_item table (one row per billed procedure).
type ClaimItem struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ClaimID       uuid.UUID `db:"claim_id" json:"claim_id"`
	Sequence      int       `db:"sequence" json:"sequence"`
	ProcedureCode string    `db:"procedure_code" json:"procedure_code"`
	Description   *string   `db:"description" json:"description,omitempty"`
	ToothNumber   *string   `db:"tooth_number" json:"tooth_number,omitempty"`
	Fee           float64   `db:"fee" json:"fee"`
}

// Remittance maps to the remittance table. One row per payer payment applied
// against a claim.
type Remittance struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	ClaimID   uuid.UUID  `db:"claim_id" json:"claim_id"`
	Amount    float64    `db:"amount" json:"amount"`
	Reference *string    `db:"reference" json:"reference,omitempty"`
	Note      *string    `db:"note" json:"note,omitempty"`
	PaidAt    *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
