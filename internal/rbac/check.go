package rbac

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
)

// ErrNoIdentity is returned when a check runs without an authenticated identity.
var ErrNoIdentity = errors.New("not authenticated")

// ErrForbidden matches every *ForbiddenError through errors.Is.
var ErrForbidden = errors.New("forbidden")

// Identity is the authenticated caller of one request. It is rebuilt from the
// store on every request and never cached.
type Identity struct {
	UserID    uuid.UUID
	SessionID string
	TenantID  string
	Roles     []Role
}

// HasRole reports whether r is literally among the identity's assigned roles.
func (i *Identity) HasRole(r Role) bool {
	return slices.Contains(i.Roles, r)
}

// ForbiddenError reports that none of the caller's roles is whitelisted.
// Roles are not secret, so the message is safe to return to the client.
type ForbiddenError struct {
	Accepted []Role
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("Access denied. Needs one of roles: %s", joinRoles(e.Accepted))
}

// Is makes errors.Is(err, ErrForbidden) true for any ForbiddenError.
func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

// Check succeeds iff the identity holds at least one whitelisted role. It does
// no hierarchy expansion of its own; build whitelists with AtLeast.
func Check(id *Identity, whitelist []Role) error {
	if id == nil {
		return ErrNoIdentity
	}

	for _, r := range id.Roles {
		if slices.Contains(whitelist, r) {
			return nil
		}
	}

	slog.Debug("role check failed", "userId", id.UserID, "required", Strings(whitelist), "held", Strings(id.Roles))
	return &ForbiddenError{Accepted: slices.Clone(whitelist)}
}
