// Package authz evaluates who may do what, independent of the HTTP layer.
package authz

import (
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/apperr"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
)

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID uuid.UUID
	Role   models.Role
}

// Allow reports whether the identity holds one of the roles.
// An empty role set admits any authenticated identity.
func Allow(id Identity, roles ...models.Role) bool {
	if id.UserID == uuid.Nil {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if id.Role == r {
			return true
		}
	}
	return false
}

// RequireRole returns ErrUnauthorized for an anonymous identity and
// ErrForbidden when the role is not admitted.
func RequireRole(id Identity, roles ...models.Role) error {
	if id.UserID == uuid.Nil {
		return apperr.ErrUnauthorized
	}
	if !Allow(id, roles...) {
		return apperr.Forbidden("insufficient role")
	}
	return nil
}

// RequireJobOwner admits only the client that owns the job.
func RequireJobOwner(id Identity, job *models.Job) error {
	if err := RequireRole(id, models.RoleClient); err != nil {
		return err
	}
	if !job.IsOwnedBy(id.UserID) {
		return apperr.Forbidden("not the job owner")
	}
	return nil
}
