// Package staff models the back-office roles that gate booking operations.
package staff

import "strings"

// Role is a staff member's permission level as supplied by the auth provider.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleManager      Role = "manager"
	RoleStaff        Role = "staff"
	RoleReceptionist Role = "receptionist"
)

// LeastPrivileged is the role assumed for any unrecognised role string.
const LeastPrivileged = RoleStaff

// ParseRole maps a raw role claim to a Role. Unknown or empty values resolve
// to LeastPrivileged rather than failing, so a malformed claim can never
// widen permissions.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleManager:
		return RoleManager
	case RoleReceptionist:
		return RoleReceptionist
	case RoleStaff:
		return RoleStaff
	default:
		return LeastPrivileged
	}
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff, RoleReceptionist:
		return true
	}
	return false
}

// Label returns the display name of the role.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleManager:
		return "Manager"
	case RoleStaff:
		return "Staff"
	case RoleReceptionist:
		return "Receptionist"
	}
	return "Unknown"
}

// String returns the string representation of the role.
func (r Role) String() string { return string(r) }

// AllRoles lists every role, highest privilege first.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleStaff, RoleReceptionist}
}
