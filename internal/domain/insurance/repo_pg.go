package insurance

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dsutherland23/dentist-saas-sub004/internal/platform/db"
	"github.com/dsutherland23/dentist-saas-sub004/internal/platform/query"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return pool
}

// =========== Policy Repository ===========

type policyRepoPG struct{ pool *pgxpool.Pool }

func NewPolicyRepoPG(pool *pgxpool.Pool) PolicyRepository { return &policyRepoPG{pool: pool} }

const policyCols = `id, patient_id, carrier, plan_name, member_number, group_number,
	coverage_pct, annual_max, annual_max_remaining, deductible, deductible_remaining,
	effective_from, effective_to, active, created_at, updated_at`

func scanPolicy(row pgx.Row) (*Policy, error) {
	var p Policy
	err := row.Scan(&p.ID, &p.PatientID, &p.Carrier, &p.PlanName, &p.MemberNumber, &p.GroupNumber,
		&p.CoveragePct, &p.AnnualMax, &p.AnnualMaxRemaining, &p.Deductible, &p.DeductibleRemaining,
		&p.EffectiveFrom, &p.EffectiveTo, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *policyRepoPG) Create(ctx context.Context, p *Policy) error {
	p.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO insurance_policy (id, patient_id, carrier, plan_name, member_number, group_number,
			coverage_pct, annual_max, annual_max_remaining, deductible, deductible_remaining,
			effective_from, effective_to, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		p.ID, p.PatientID, p.Carrier, p.PlanName, p.MemberNumber, p.GroupNumber,
		p.CoveragePct, p.AnnualMax, p.AnnualMaxRemaining, p.Deductible, p.DeductibleRemaining,
		p.EffectiveFrom, p.EffectiveTo, p.Active)
	return err
}

func (r *policyRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Policy, error) {
	return scanPolicy(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+policyCols+` FROM insurance_policy WHERE id = $1`, id))
}

func (r *policyRepoPG) Update(ctx context.Context, p *Policy) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE insurance_policy SET carrier=$2, plan_name=$3, member_number=$4, group_number=$5,
			coverage_pct=$6, annual_max=$7, annual_max_remaining=$8,
			deductible=$9, deductible_remaining=$10,
			effective_from=$11, effective_to=$12, active=$13, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Carrier, p.PlanName, p.MemberNumber, p.GroupNumber,
		p.CoveragePct, p.AnnualMax, p.AnnualMaxRemaining,
		p.Deductible, p.DeductibleRemaining,
		p.EffectiveFrom, p.EffectiveTo, p.Active)
	return err
}

func (r *policyRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM insurance_policy WHERE id = $1`, id)
	return err
}

func (r *policyRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Policy, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM insurance_policy WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+policyCols+` FROM insurance_policy WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

var policySearchParams = map[string]query.ParamConfig{
	"patient": {Type: query.ParamExact, Column: "patient_id"},
	"carrier": {Type: query.ParamString, Column: "carrier"},
	"member":  {Type: query.ParamExact, Column: "member_number"},
	"active":  {Type: query.ParamExact, Column: "active"},
}

func (r *policyRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Policy, int, error) {
	qb := query.NewBuilder("insurance_policy", policyCols)
	qb.ApplyParams(params, policySearchParams)
	qb.OrderBy("created_at DESC")

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, qb.DataSQL(limit, offset), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

func (r *policyRepoPG) ApplyBenefit(ctx context.Context, id uuid.UUID, deductibleUsed, benefitPaid float64) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE insurance_policy SET
			deductible_remaining = GREATEST(deductible_remaining - $2, 0),
			annual_max_remaining = GREATEST(annual_max_remaining - $3, 0),
			updated_at = NOW()
		WHERE id = $1`, id, deductibleUsed, benefitPaid)
	return err
}

// =========== Eligibility Repository ===========

type eligibilityRepoPG struct{ pool *pgxpool.Pool }

func NewEligibilityRepoPG(pool *pgxpool.Pool) EligibilityRepository {
	return &eligibilityRepoPG{pool: pool}
}

const eligCols = `id, policy_id, verified_by, outcome, note, checked_at`

func scanEligibility(row pgx.Row) (*EligibilityCheck, error) {
	var ec EligibilityCheck
	err := row.Scan(&ec.ID, &ec.PolicyID, &ec.VerifiedBy, &ec.Outcome, &ec.Note, &ec.CheckedAt)
	return &ec, err
}

func (r *eligibilityRepoPG) Create(ctx context.Context, ec *EligibilityCheck) error {
	ec.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO eligibility_check (id, policy_id, verified_by, outcome, note)
		VALUES ($1,$2,$3,$4,$5)`,
		ec.ID, ec.PolicyID, ec.VerifiedBy, ec.Outcome, ec.Note)
	return err
}

func (r *eligibilityRepoPG) ListByPolicy(ctx context.Context, policyID uuid.UUID, limit, offset int) ([]*EligibilityCheck, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM eligibility_check WHERE policy_id = $1`, policyID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+eligCols+` FROM eligibility_check WHERE policy_id = $1 ORDER BY checked_at DESC LIMIT $2 OFFSET $3`, policyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*EligibilityCheck
	for rows.Next() {
		ec, err := scanEligibility(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, ec)
	}
	return items, total, nil
}

func (r *eligibilityRepoPG) LatestByPolicy(ctx context.Context, policyID uuid.UUID) (*EligibilityCheck, error) {
	return scanEligibility(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+eligCols+` FROM eligibility_check WHERE policy_id = $1 ORDER BY checked_at DESC LIMIT 1`, policyID))
}

// =========== Claim Repository ===========

type claimRepoPG struct{ pool *pgxpool.Pool }

func NewClaimRepoPG(pool *pgxpool.Pool) ClaimRepository { return &claimRepoPG{pool: pool} }

const claimCols = `id, claim_number, policy_id, patient_id, appointment_id, status,
	total_fee, insurance_estimate, patient_portion, applied_deductible, capped_by_annual_max,
	denial_reason, note, submitted_at, created_at, updated_at`

func scanClaim(row pgx.Row) (*Claim, error) {
	var c Claim
	err := row.Scan(&c.ID, &c.ClaimNumber, &c.PolicyID, &c.PatientID, &c.AppointmentID, &c.Status,
		&c.TotalFee, &c.InsuranceEstimate, &c.PatientPortion, &c.AppliedDeductible, &c.CappedByAnnualMax,
		&c.DenialReason, &c.Note, &c.SubmittedAt, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *claimRepoPG) Create(ctx context.Context, c *Claim) error {
	c.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO claim (id, claim_number, policy_id, patient_id, appointment_id, status,
			total_fee, insurance_estimate, patient_portion, applied_deductible, capped_by_annual_max, denial_reason, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		c.ID, c.ClaimNumber, c.PolicyID, c.PatientID, c.AppointmentID, c.Status,
		c.TotalFee, c.InsuranceEstimate, c.PatientPortion, c.AppliedDeductible, c.CappedByAnnualMax, c.DenialReason, c.Note)
	return err
}

func (r *claimRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Claim, error) {
	return scanClaim(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+claimCols+` FROM claim WHERE id = $1`, id))
}

func (r *claimRepoPG) Update(ctx context.Context, c *Claim) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE claim SET claim_number=$2, status=$3,
			total_fee=$4, insurance_estimate=$5, patient_portion=$6, applied_deductible=$7,
			capped_by_annual_max=$8, denial_reason=$9, note=$10, submitted_at=$11, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.ClaimNumber, c.Status,
		c.TotalFee, c.InsuranceEstimate, c.PatientPortion, c.AppliedDeductible,
		c.CappedByAnnualMax, c.DenialReason, c.Note, c.SubmittedAt)
	return err
}

func (r *claimRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM claim WHERE id = $1`, id)
	return err
}

func (r *claimRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Claim, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM claim WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+claimCols+` FROM claim WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}

var claimSearchParams = map[string]query.ParamConfig{
	"patient": {Type: query.ParamExact, Column: "patient_id"},
	"policy":  {Type: query.ParamExact, Column: "policy_id"},
	"status":  {Type: query.ParamExact, Column: "status"},
	"created": {Type: query.ParamDate, Column: "created_at"},
}

func (r *claimRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Claim, int, error) {
	qb := query.NewBuilder("claim", claimCols)
	qb.ApplyParams(params, claimSearchParams)
	qb.OrderBy("created_at DESC")

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, qb.DataSQL(limit, offset), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}

func (r *claimRepoPG) AddItem(ctx context.Context, item *ClaimItem) error {
	item.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO claim_item (id, claim_id, sequence, procedure_code, description, tooth_number, fee)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		item.ID, item.ClaimID, item.Sequence, item.ProcedureCode, item.Description, item.ToothNumber, item.Fee)
	return err
}

func (r *claimRepoPG) GetItems(ctx context.Context, claimID uuid.UUID) ([]*ClaimItem, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, claim_id, sequence, procedure_code, description, tooth_number, fee
		FROM claim_item WHERE claim_id = $1 ORDER BY sequence`, claimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ClaimItem
	for rows.Next() {
		var ci ClaimItem
		if err := rows.Scan(&ci.ID, &ci.ClaimID, &ci.Sequence, &ci.ProcedureCode, &ci.Description, &ci.ToothNumber, &ci.Fee); err != nil {
			return nil, err
		}
		items = append(items, &ci)
	}
	return items, nil
}

// =========== Remittance Repository ===========

type remittanceRepoPG struct{ pool *pgxpool.Pool }

func NewRemittanceRepoPG(pool *pgxpool.Pool) RemittanceRepository {
	return &remittanceRepoPG{pool: pool}
}

func (r *remittanceRepoPG) Create(ctx context.Context, rem *Remittance) error {
	rem.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO remittance (id, claim_id, amount, reference, note, paid_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		rem.ID, rem.ClaimID, rem.Amount, rem.Reference, rem.Note, rem.PaidAt)
	return err
}

func (r *remittanceRepoPG) ListByClaim(ctx context.Context, claimID uuid.UUID, limit, offset int) ([]*Remittance, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM remittance WHERE claim_id = $1`, claimID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, claim_id, amount, reference, note, paid_at, created_at
		FROM remittance WHERE claim_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, claimID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Remittance
	for rows.Next() {
		var rem Remittance
		if err := rows.Scan(&rem.ID, &rem.ClaimID, &rem.Amount, &rem.Reference, &rem.Note, &rem.PaidAt, &rem.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &rem)
	}
	return items, total, nil
}
