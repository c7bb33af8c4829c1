package auth

import "strings"

// SectionRule grants a set of roles access to every path under PathPrefix.
type SectionRule struct {
	PathPrefix string
	Roles      []string
}

// sectionRules is the section-access table, evaluated top to bottom: the
// FIRST rule whose prefix matches the requested path wins. Order matters —
// /settings/profile must come before /settings, or the broader rule would
// shadow it. Keep this a slice; a map would lose the ordering.
var sectionRules = []SectionRule{
	{"/admin", []string{RoleSuperAdmin}},
	{"/dashboard", AllRoles},
	{"/calendar", []string{RoleSuperAdmin, RoleClinicAdmin, RoleReceptionist, RoleDentist}},
	{"/patients", []string{RoleSuperAdmin, RoleClinicAdmin, RoleReceptionist, RoleDentist}},
	{"/treatments", []string{RoleSuperAdmin, RoleClinicAdmin, RoleDentist}},
	{"/billing", []string{RoleSuperAdmin, RoleClinicAdmin, RoleReceptionist, RoleAccountant}},
	{"/insurance", []string{RoleSuperAdmin, RoleClinicAdmin, RoleReceptionist, RoleAccountant}},
	{"/claims", []string{RoleSuperAdmin, RoleClinicAdmin, RoleAccountant}},
	{"/referrals", []string{RoleSuperAdmin, RoleClinicAdmin, RoleDentist}},
	{"/reports", []string{RoleSuperAdmin, RoleClinicAdmin, RoleAccountant}},
	{"/staff", []string{RoleSuperAdmin, RoleClinicAdmin}},
	{"/settings/profile", AllRoles},
	{"/settings", []string{RoleSuperAdmin, RoleClinicAdmin}},
}

// DefaultSectionPath is the fallback destination when no section admits the
// role. It is reachable by every authenticated role.
const DefaultSectionPath = "/settings/profile"

// CanAccessSection reports whether role may access the application section
// containing path. Unmatched paths are denied.
func CanAccessSection(role, path string) bool {
	for _, rule := range sectionRules {
		if strings.HasPrefix(path, rule.PathPrefix) {
			return containsRole(rule.Roles, role)
		}
	}
	return false
}

// FirstAllowedPath returns the path of the first section rule that admits
// role, used as the landing destination after login or a denied redirect.
func FirstAllowedPath(role string) string {
	for _, rule := range sectionRules {
		if containsRole(rule.Roles, role) {
			return rule.PathPrefix
		}
	}
	return DefaultSectionPath
}

// Capability role sets. Static for the process lifetime.
var (
	insuranceEditorRoles     = []string{RoleSuperAdmin, RoleClinicAdmin, RoleReceptionist}
	eligibilityVerifierRoles = []string{RoleSuperAdmin, RoleClinicAdmin, RoleReceptionist}
	claimSubmitterRoles      = []string{RoleSuperAdmin, RoleClinicAdmin, RoleAccountant}
	remittanceProcessorRoles = []string{RoleSuperAdmin, RoleClinicAdmin, RoleAccountant}
	eligibilityViewerRoles   = []string{RoleSuperAdmin, RoleClinicAdmin, RoleReceptionist, RoleDentist, RoleAccountant}
	estimatorViewerRoles     = []string{RoleSuperAdmin, RoleClinicAdmin, RoleReceptionist, RoleDentist, RoleAccountant}
)

// CanCreateEditInsurance reports whether role may create or edit insurance
// policies.
func CanCreateEditInsurance(role string) bool { return containsRole(insuranceEditorRoles, role) }

// CanVerifyEligibility reports whether role may record eligibility checks.
func CanVerifyEligibility(role string) bool { return containsRole(eligibilityVerifierRoles, role) }

// CanSubmitClaim reports whether role may submit insurance claims.
func CanSubmitClaim(role string) bool { return containsRole(claimSubmitterRoles, role) }

// CanProcessRemittance reports whether role may record payer remittances.
func CanProcessRemittance(role string) bool { return containsRole(remittanceProcessorRoles, role) }

// CanViewEligibility reports whether role may view eligibility records.
func CanViewEligibility(role string) bool { return containsRole(eligibilityViewerRoles, role) }

// CanViewEstimator reports whether role may use the cost estimator.
func CanViewEstimator(role string) bool { return containsRole(estimatorViewerRoles, role) }

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
