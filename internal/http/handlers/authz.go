package handlers

import (
	"strings"

	applog "shopfront/internal/log"
	"shopfront/internal/services"

	"github.com/gofiber/fiber/v2"
)

func bearer(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// RequireUser rejects requests without a valid bearer token and stores the
// caller's user id in Locals.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := auth.Verify(bearer(c))
		if err != nil {
			return fail(c, "auth.verify", err)
		}
		c.Locals(applog.LocalUserID, uid)
		return c.Next()
	}
}

// RequireAdmin additionally loads the caller and requires the admin flag.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := auth.Verify(bearer(c))
		if err != nil {
			return fail(c, "auth.verify", err)
		}
		c.Locals(applog.LocalUserID, uid)
		u, err := auth.RequireAdmin(c.UserContext(), uid)
		if err != nil {
			return fail(c, "access.admin", err)
		}
		c.Locals("user", u)
		return c.Next()
	}
}
