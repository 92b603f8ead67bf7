package shared

import "context"

// Role names carried on user records and JWT claims.
const (
	RoleAdmin = "admin"
)

// Identity describes the authenticated principal for a request.
type Identity struct {
	UserID       string
	Email        string
	Name         string
	Organization string
	Role         string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanDelete is the authorization predicate for hard deletes. Deletes are
// admin-only across every entity.
func CanDelete(actor Identity) bool {
	return actor.IsAdmin()
}

type identityContextKey struct{}

// ContextWithIdentity stores the identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context. The zero Identity
// is returned for unauthenticated requests.
func IdentityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityContextKey{}).(Identity)
	return id
}
