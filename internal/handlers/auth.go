package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/delmargolf/club/internal/auth"
)

// LoginRequest is the JSON body of POST /api/auth.
type LoginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /api/auth: exchanges the admin password for a session token.
func Login(authn *auth.Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "invalid request body",
			})
		}

		token, expires, err := authn.Login(req.Password)
		if errors.Is(err, auth.ErrWrongPassword) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "비밀번호가 올바르지 않습니다.",
			})
		}
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"success":    true,
			"token":      token,
			"expires_at": expires.UTC().Format(time.RFC3339),
		})
	}
}
