package middleware

// roles.go — Role-based access control middleware.

import "github.com/gofiber/fiber/v2"

// RequireRole returns a middleware handler that allows only requests whose token
// carries one of the provided roles. Returns HTTP 403 Forbidden otherwise.
//
//	api.Post("/games", middleware.Auth(authn), middleware.RequireRole(auth.RoleAdmin), handler)
//
// RequireRole must be used AFTER the Auth middleware, because Auth is what
// populates the role in the request context via c.Locals.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, ok := c.Locals(LocalRole).(string)
		if !ok || userRole == "" {
			// Auth either wasn't applied or let the request through without a role.
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "forbidden",
			})
		}

		for _, role := range roles {
			if userRole == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient permissions",
		})
	}
}
