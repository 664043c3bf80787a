package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/authz"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
)

// RequireRoles must run after RequireAuth.
func RequireRoles(allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := Identity(c)
		if id.UserID == uuid.Nil {
			return fiber.ErrUnauthorized
		}
		if !authz.Allow(id, allowed...) {
			return fiber.NewError(fiber.StatusForbidden, "forbidden: insufficient role")
		}
		return c.Next()
	}
}
