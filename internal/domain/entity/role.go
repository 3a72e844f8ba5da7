// Package entity contains the core business objects of the project.
package entity

// Role represents the type of role a user can have in the storefront.
type Role string

const (
	// RoleAdmin indicates marketplace staff or superuser access.
	RoleAdmin Role = "admin"
	// RoleFarmer indicates a user who sells produce.
	RoleFarmer Role = "farmer"
	// RoleBuyer indicates a user who places orders.
	RoleBuyer Role = "buyer"
	// RoleNone is the zero value, meaning no role requirement.
	RoleNone Role = ""
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleFarmer, RoleBuyer:
		return true
	default:
		return false
	}
}
