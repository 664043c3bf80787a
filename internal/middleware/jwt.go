package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/authz"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/utils"
)

const (
	TokenCookie = "fm_token"

	localUserID = "userId"
	localRole   = "role"
)

// tokenFrom prefers the Authorization header and falls back to the cookie.
func tokenFrom(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	return c.Cookies(TokenCookie)
}

// RequireAuth verifies the HS256 token and stores the caller in locals.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := tokenFrom(c)
		if tokenStr == "" {
			return fiber.ErrUnauthorized
		}

		claims, err := utils.ParseJWT(secret, tokenStr)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		uid, err := uuid.Parse(strings.TrimSpace(claims.UserID))
		if err != nil || uid == uuid.Nil {
			return fiber.ErrUnauthorized
		}
		role, ok := models.ParseRole(claims.Role)
		if !ok {
			return fiber.ErrUnauthorized
		}

		c.Locals(localUserID, uid)
		c.Locals(localRole, role)
		return c.Next()
	}
}

// Identity returns the caller set by RequireAuth, or the zero Identity.
func Identity(c *fiber.Ctx) authz.Identity {
	uid, _ := c.Locals(localUserID).(uuid.UUID)
	role, _ := c.Locals(localRole).(models.Role)
	return authz.Identity{UserID: uid, Role: role}
}
