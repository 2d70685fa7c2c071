// Package middleware contains HTTP middleware functions for the club API.
// Middleware sits between the HTTP server and route handlers — it runs on every
// request that passes through it, making it the right place for cross-cutting
// concerns like authentication.
package middleware

import (
	"strings"

	// fiber is the HTTP framework; fiber.Handler is the function signature for middleware
	"github.com/gofiber/fiber/v2"

	"github.com/delmargolf/club/internal/auth"
)

// Locals keys set by Auth for downstream handlers.
const (
	LocalRole    = "userRole"
	LocalTokenID = "tokenID"
)

// Auth returns a Fiber middleware handler that:
//  1. Reads the token from the "Authorization: Bearer <token>" header
//  2. Verifies its signature, issuer and expiry with the Authenticator
//  3. Stores the role from the token in the request context (c.Locals)
//     so RequireRole and handlers can read it without re-parsing the token
func Auth(authn *auth.Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}

		// Strip the "Bearer " prefix to get just the raw JWT string
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := authn.Verify(tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalTokenID, claims.ID)

		// Pass control to the next middleware or route handler
		return c.Next()
	}
}
