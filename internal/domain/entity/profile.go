// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// Identity is the remote API's account record for the signed-in user.
// It carries the role flags that drive every authorization decision on
// the client, so a Profile is never constructed from a response that is
// missing them.
type Identity struct {
	ID          int64  // The user's unique numeric ID assigned by the remote API.
	Username    string // The login name, unique across the marketplace.
	Email       string // The user's primary contact email.
	IsFarmer    bool   // Whether the user may list and manage produce.
	IsBuyer     bool   // Whether the user may place orders.
	IsStaff     bool   // Whether the user has marketplace staff access.
	IsSuperuser bool   // Whether the user has unrestricted administrative access.
}

// Profile is the client's read-only cached copy of the authenticated user's
// remote profile. It is owned by the remote system; the session controller
// replaces the whole value on load and never mutates fields in place.
type Profile struct {
	Identity  Identity // The nested account identity; Identity.ID is immutable for the life of a session.
	Phone     string   // Contact phone number.
	Address   string   // Default shipping address.
	AvatarURL string   // URL of the user's avatar image, if any.
}

// HasRole reports whether the profile satisfies the given storefront role.
// Unknown roles never match.
func (p *Profile) HasRole(role Role) bool {
	if p == nil {
		return false
	}

	switch role {
	case RoleAdmin:
		return p.Identity.IsStaff || p.Identity.IsSuperuser
	case RoleFarmer:
		return p.Identity.IsFarmer
	case RoleBuyer:
		return p.Identity.IsBuyer
	default:
		return false
	}
}
