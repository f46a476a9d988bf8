// Package entity contains the core business objects of the project.
package entity

// Role represents the access level of an account.
type Role string

const (
	// RoleCustomer indicates a standard customer account.
	RoleCustomer Role = "customer"
	// RoleAdmin indicates an administrator account with catalog management rights.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleAdmin:
		return true
	default:
		return false
	}
}

// RoleFromString converts a raw string into a Role, reporting whether it is valid.
// Role checks go through this instead of raw string comparison so a typo fails
// closed rather than silently granting access.
func RoleFromString(s string) (Role, bool) {
	role := Role(s)

	return role, role.IsValid()
}
