package insurance

import (
	"context"

	"github.com/google/uuid"
)

type PolicyRepository interface {
	Create(ctx context.Context, p *Policy) error
	GetByID(ctx context.Context, id uuid.UUID) (*Policy, error)
	Update(ctx context.Context, p *Policy) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Policy, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Policy, int, error)
	// ApplyBenefit decrements the remaining deductible and annual max after a
	// paid claim.
	ApplyBenefit(ctx context.Context, id uuid.UUID, deductibleUsed, benefitPaid float64) error
}

type EligibilityRepository interface {
	Create(ctx context.Context, ec *EligibilityCheck) error
	ListByPolicy(ctx context.Context, policyID uuid.UUID, limit, offset int) ([]*EligibilityCheck, int, error)
	LatestByPolicy(ctx context.Context, policyID uuid.UUID) (*EligibilityCheck, error)
}

type ClaimRepository interface {
	Create(ctx context.Context, c *Claim) error
	GetByID(ctx context.Context, id uuid.UUID) (*Claim, error)
	Update(ctx context.Context, c *Claim) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Claim, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Claim, int, error)
	AddItem(ctx context.Context, item *ClaimItem) error
	GetItems(ctx context.Context, claimID uuid.UUID) ([]*ClaimItem, error)
}

type RemittanceRepository interface {
	Create(ctx context.Context, r *Remittance) error
	ListByClaim(ctx context.Context, claimID uuid.UUID, limit, offset int) ([]*Remittance, int, error)
}
