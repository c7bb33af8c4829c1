package insurance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service coordinates policies, eligibility checks, claims and remittances.
type Service struct {
	policies    PolicyRepository
	eligibility EligibilityRepository
	claims      ClaimRepository
	remittances RemittanceRepository
	notifier    Notifier
}

// SetNotifier installs the sink for patient-facing claim events.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

func NewService(policies PolicyRepository, eligibility EligibilityRepository, claims ClaimRepository, remittances RemittanceRepository) *Service {
	return &Service{
		policies:    policies,
		eligibility: eligibility,
		claims:      claims,
		remittances: remittances,
	}
}

// =========== Policies ===========

func (s *Service) CreatePolicy(ctx context.Context, p *Policy) error {
	if err := validatePolicy(p); err != nil {
		return err
	}
	if p.AnnualMaxRemaining == 0 && p.AnnualMax > 0 {
		p.AnnualMaxRemaining = p.AnnualMax
	}
	if p.DeductibleRemaining == 0 && p.Deductible > 0 {
		p.DeductibleRemaining = p.Deductible
	}
	p.Active = true
	return s.policies.Create(ctx, p)
}

func (s *Service) GetPolicy(ctx context.Context, id uuid.UUID) (*Policy, error) {
	return s.policies.GetByID(ctx, id)
}

func (s *Service) UpdatePolicy(ctx context.Context, p *Policy) error {
	if p.ID == uuid.Nil {
		return fmt.Errorf("policy ID is required")
	}
	if err := validatePolicy(p); err != nil {
		return err
	}
	return s.policies.Update(ctx, p)
}

func (s *Service) DeletePolicy(ctx context.Context, id uuid.UUID) error {
	return s.policies.Delete(ctx, id)
}

func (s *Service) ListPoliciesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Policy, int, error) {
	return s.policies.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) SearchPolicies(ctx context.Context, params map[string]string, limit, offset int) ([]*Policy, int, error) {
	return s.policies.Search(ctx, params, limit, offset)
}

func validatePolicy(p *Policy) error {
	if p.PatientID == uuid.Nil {
		return fmt.Errorf("patient ID is required")
	}
	if p.Carrier == "" {
		return fmt.Errorf("carrier is required")
	}
	if p.MemberNumber == "" {
		return fmt.Errorf("member number is required")
	}
	if p.CoveragePct < 0 || p.CoveragePct > 100 {
		return fmt.Errorf("coverage percentage must be between 0 and 100")
	}
	if p.AnnualMax < 0 || p.Deductible < 0 {
		return fmt.Errorf("annual maximum and deductible must not be negative")
	}
	return nil
}

// =========== Eligibility ===========

func (s *Service) RecordEligibility(ctx context.Context, ec *EligibilityCheck) error {
	if ec.PolicyID == uuid.Nil {
		return fmt.Errorf("policy ID is required")
	}
	if ec.VerifiedBy == "" {
		return fmt.Errorf("verifier is required")
	}
	switch ec.Outcome {
	case EligibilityActive, EligibilityInactive, EligibilityExpired, EligibilityUnknown:
	default:
		return fmt.Errorf("invalid eligibility outcome: %s", ec.Outcome)
	}
	if _, err := s.policies.GetByID(ctx, ec.PolicyID); err != nil {
		return fmt.Errorf("policy not found: %w", err)
	}
	return s.eligibility.Create(ctx, ec)
}

func (s *Service) ListEligibility(ctx context.Context, policyID uuid.UUID, limit, offset int) ([]*EligibilityCheck, int, error) {
	return s.eligibility.ListByPolicy(ctx, policyID, limit, offset)
}

func (s *Service) LatestEligibility(ctx context.Context, policyID uuid.UUID) (*EligibilityCheck, error) {
	return s.eligibility.LatestByPolicy(ctx, policyID)
}

// =========== Estimation ===========

// EstimatePolicy runs the cost-split estimator against a stored policy's
// current benefit state.
func (s *Service) EstimatePolicy(ctx context.Context, policyID uuid.UUID, fee float64) (EstimateOutput, error) {
	p, err := s.policies.GetByID(ctx, policyID)
	if err != nil {
		return EstimateOutput{}, fmt.Errorf("policy not found: %w", err)
	}
	annualMax := p.AnnualMaxRemaining
	if p.AnnualMax == 0 {
		annualMax = UnboundedAnnualMax
	}
	return Estimate(EstimateInput{
		Fee:                 fee,
		CoveragePct:         p.CoveragePct,
		DeductibleRemaining: p.DeductibleRemaining,
		AnnualMaxRemaining:  annualMax,
	}), nil
}

// =========== Claims ===========

func (s *Service) CreateClaim(ctx context.Context, c *Claim, items []*ClaimItem) error {
	if c.PolicyID == uuid.Nil {
		return fmt.Errorf("policy ID is required")
	}
	if c.PatientID == uuid.Nil {
		return fmt.Errorf("patient ID is required")
	}
	if len(items) == 0 {
		return fmt.Errorf("claim requires at least one line item")
	}
	for _, item := range items {
		if item.ProcedureCode == "" {
			return fmt.Errorf("procedure code is required on every line item")
		}
		if item.Fee < 0 {
			return fmt.Errorf("line item fee must not be negative")
		}
	}

	p, err := s.policies.GetByID(ctx, c.PolicyID)
	if err != nil {
		return fmt.Errorf("policy not found: %w", err)
	}

	var total float64
	for _, item := range items {
		total += item.Fee
	}
	annualMax := p.AnnualMaxRemaining
	if p.AnnualMax == 0 {
		annualMax = UnboundedAnnualMax
	}
	out := Estimate(EstimateInput{
		Fee:                 total,
		CoveragePct:         p.CoveragePct,
		DeductibleRemaining: p.DeductibleRemaining,
		AnnualMaxRemaining:  annualMax,
	})

	c.Status = ClaimDraft
	c.TotalFee = RoundCurrency(total)
	c.InsuranceEstimate = out.InsuranceEstimate
	c.PatientPortion = out.PatientPortion
	c.AppliedDeductible = out.AppliedDeductible
	c.CappedByAnnualMax = out.CappedByAnnualMax

	if err := s.claims.Create(ctx, c); err != nil {
		return err
	}
	for i, item := range items {
		item.ClaimID = c.ID
		item.Sequence = i + 1
		if err := s.claims.AddItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) GetClaim(ctx context.Context, id uuid.UUID) (*Claim, []*ClaimItem, error) {
	c, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.claims.GetItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return c, items, nil
}

func (s *Service) ListClaimsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Claim, int, error) {
	return s.claims.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) SearchClaims(ctx context.Context, params map[string]string, limit, offset int) ([]*Claim, int, error) {
	return s.claims.Search(ctx, params, limit, offset)
}

// SubmitClaim moves a draft (or corrected denied) claim to submitted and
// stamps the submission time.
func (s *Service) SubmitClaim(ctx context.Context, id uuid.UUID) (*Claim, error) {
	return s.ChangeClaimStatus(ctx, id, ClaimSubmitted, nil)
}

// ChangeClaimStatus applies a workflow transition. Denials carry an optional
// reason; any other target clears it.
func (s *Service) ChangeClaimStatus(ctx context.Context, id uuid.UUID, status string, denialReason *string) (*Claim, error) {
	c, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed, ok := claimTransitions[c.Status]
	if !ok {
		return nil, fmt.Errorf("claim has unknown status: %s", c.Status)
	}
	valid := false
	for _, next := range allowed {
		if next == status {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("cannot move claim from %s to %s", c.Status, status)
	}

	c.Status = status
	switch status {
	case ClaimSubmitted:
		now := time.Now()
		c.SubmittedAt = &now
		c.DenialReason = nil
	case ClaimDenied:
		c.DenialReason = denialReason
	default:
		c.DenialReason = nil
	}
	if err := s.claims.Update(ctx, c); err != nil {
		return nil, err
	}
	s.notifyClaim(ctx, c)
	return c, nil
}

// notifyClaim reports a claim status change to the patient. Best-effort.
func (s *Service) notifyClaim(ctx context.Context, c *Claim) {
	if s.notifier == nil {
		return
	}
	number := ""
	if c.ClaimNumber != nil {
		number = *c.ClaimNumber
	}
	s.notifier.ClaimStatusChanged(ctx, c.PatientID, number, c.Status, c.InsuranceEstimate)
}

func (s *Service) DeleteClaim(ctx context.Context, id uuid.UUID) error {
	c, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.Status != ClaimDraft {
		return fmt.Errorf("only draft claims can be deleted")
	}
	return s.claims.Delete(ctx, id)
}

// =========== Remittances ===========

// RecordRemittance posts an insurer payment against an accepted claim.
// The paying claim moves to paid and the policy's benefit counters are
// decremented by what the claim consumed.
func (s *Service) RecordRemittance(ctx context.Context, rem *Remittance) (*Claim, error) {
	if rem.ClaimID == uuid.Nil {
		return nil, fmt.Errorf("claim ID is required")
	}
	if rem.Amount <= 0 {
		return nil, fmt.Errorf("remittance amount must be positive")
	}
	c, err := s.claims.GetByID(ctx, rem.ClaimID)
	if err != nil {
		return nil, err
	}
	if c.Status != ClaimAccepted {
		return nil, fmt.Errorf("cannot record remittance against %s claim", c.Status)
	}
	if rem.PaidAt == nil {
		now := time.Now()
		rem.PaidAt = &now
	}
	if err := s.remittances.Create(ctx, rem); err != nil {
		return nil, err
	}

	if err := s.policies.ApplyBenefit(ctx, c.PolicyID, c.AppliedDeductible, rem.Amount); err != nil {
		return nil, err
	}

	c.Status = ClaimPaid
	if err := s.claims.Update(ctx, c); err != nil {
		return nil, err
	}
	s.notifyClaim(ctx, c)
	return c, nil
}

func (s *Service) ListRemittances(ctx context.Context, claimID uuid.UUID, limit, offset int) ([]*Remittance, int, error) {
	return s.remittances.ListByClaim(ctx, claimID, limit, offset)
}
