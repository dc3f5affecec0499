package auth

import "github.com/flixhub/apiserver/types"

// Identity is the verified caller resolved from a bearer token. It is passed
// down the call chain as a plain value, never attached to mutable request
// state.
type Identity struct {
	// Subject is the authenticated account's id.
	Subject int

	// Role is the account's role at token issue time.
	Role types.Role
}

// Authorize passes when the identity holds one of the required roles.
func Authorize(id Identity, requiredRoles ...types.Role) error {
	for _, role := range requiredRoles {
		if id.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

// AuthorizeOwnerOrRole passes when the identity owns the resource or holds
// one of the required roles. Profile endpoints use this for the self-or-admin
// rule.
func AuthorizeOwnerOrRole(id Identity, resourceOwnerID int, requiredRoles ...types.Role) error {
	if id.Subject == resourceOwnerID {
		return nil
	}
	return Authorize(id, requiredRoles...)
}
