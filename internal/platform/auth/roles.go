package auth

// Staff roles. Each user holds exactly one role inside exactly one clinic;
// clinic scoping itself is enforced by the db layer, not here.
const (
	RoleSuperAdmin   = "super_admin"
	RoleClinicAdmin  = "clinic_admin"
	RoleReceptionist = "receptionist"
	RoleDentist      = "dentist"
	RoleAccountant   = "accountant"
)

// AllRoles lists every recognized role.
var AllRoles = []string{
	RoleSuperAdmin,
	RoleClinicAdmin,
	RoleReceptionist,
	RoleDentist,
	RoleAccountant,
}

var validRoles = func() map[string]bool {
	m := make(map[string]bool, len(AllRoles))
	for _, r := range AllRoles {
		m[r] = true
	}
	return m
}()

// ValidRole reports whether role is one of the recognized staff roles.
func ValidRole(role string) bool {
	return validRoles[role]
}
