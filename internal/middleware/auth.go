// Package middleware provides authentication, logging, and rate limiting
// middleware for the application.
package middleware

import (
	"strings"

	"quill/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// Fiber locals keys set by the auth middleware.
const (
	LocalsUserID      = "userID"
	LocalsIdentity    = "identity"
	LocalsAnonymous   = "isAnonymous"
	LocalsEmailClaims = "email"
)

// AuthRequired enforces a verified identity on protected routes. The
// token is verified by the external provider abstraction; handlers only
// ever see the resulting identity in locals.
func AuthRequired(provider auth.Provider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		identity, err := provider.Verify(c.UserContext(), parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(LocalsUserID, identity.UID)
		c.Locals(LocalsIdentity, identity)
		c.Locals(LocalsAnonymous, identity.IsAnonymous)
		c.Locals(LocalsEmailClaims, identity.Email)

		return c.Next()
	}
}

// IdentityFromLocals returns the verified identity stored by
// AuthRequired, or false when the route ran without it.
func IdentityFromLocals(c *fiber.Ctx) (auth.Identity, bool) {
	identity, ok := c.Locals(LocalsIdentity).(auth.Identity)
	return identity, ok
}
