package insurance

import "math"

// EstimateInput carries the parameters for a single cost-split calculation.
// Values come straight from the patient's policy record and the procedure fee
// schedule; they are not persisted by the estimator itself.
type EstimateInput struct {
	Fee                 float64 `json:"fee"`
	CoveragePct         float64 `json:"coverage_pct"`
	DeductibleRemaining float64 `json:"deductible_remaining"`
	AnnualMaxRemaining  float64 `json:"annual_max_remaining"`
}

// EstimateOutput is the computed patient/insurer split for one procedure.
type EstimateOutput struct {
	InsuranceEstimate float64 `json:"insurance_estimate"`
	PatientPortion    float64 `json:"patient_portion"`
	AppliedDeductible float64 `json:"applied_deductible"`
	AppliedCoverage   float64 `json:"applied_coverage"`
	CappedByAnnualMax bool    `json:"capped_by_annual_max"`
}

// Estimate computes how much of a procedure fee the insurer pays and how much
// the patient owes, applying deductible-first semantics: the remaining
// deductible is consumed before the coverage percentage applies, and the
// insurer payout is capped by the remaining annual maximum.
//
// Out-of-range inputs are clamped rather than rejected (negative or NaN
// values become zero, coverage is clamped to [0,100]). This mirrors the
// permissive validation upstream callers rely on; stricter rejection is a
// candidate for a future breaking change.
//
// Invariant: InsuranceEstimate + PatientPortion == Fee within half a cent.
func Estimate(in EstimateInput) EstimateOutput {
	fee := clampAmount(in.Fee)
	pct := clampAmount(in.CoveragePct)
	if pct > 100 {
		pct = 100
	}
	deductible := clampAmount(in.DeductibleRemaining)
	annualMax := clampAmount(in.AnnualMaxRemaining)

	var appliedDeductible float64
	if fee > 0 && deductible > 0 {
		appliedDeductible = math.Min(fee, deductible)
	}
	afterDeductible := fee - appliedDeductible

	raw := afterDeductible * pct / 100
	estimate := math.Min(raw, annualMax)

	return EstimateOutput{
		InsuranceEstimate: RoundCurrency(estimate),
		PatientPortion:    RoundCurrency(fee - estimate),
		AppliedDeductible: appliedDeductible,
		AppliedCoverage:   raw,
		CappedByAnnualMax: raw > estimate,
	}
}

// UnboundedAnnualMax is a sentinel for policies with no annual payout cap.
// The estimator always treats the annual maximum as a hard cap, so callers
// wanting "no cap" pass a value larger than any plausible fee.
const UnboundedAnnualMax = 1e12

// RoundCurrency rounds a non-negative amount to two decimal places using
// round-half-up.
func RoundCurrency(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

func clampAmount(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
