// Package handlers contains the HTTP route handler functions for the club API.
// Each handler corresponds to one API endpoint and is responsible for reading the
// request, calling the store or the leaderboard engine, and writing a response.
//
// Each exported function follows the "handler factory" pattern: it takes the
// dependencies it needs (store, photo storage, hub...) and returns a fiber.Handler.
// This lets us inject them without using global variables.
package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/delmargolf/club/internal/store"
)

// ErrorHandler writes every error that escapes a handler as {"error": message}.
// *fiber.Error values carry their own status and a message safe to show; anything
// else is logged and reported as a bare 500.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}

// storeError maps the store's sentinel errors onto HTTP statuses. Unknown errors are
// wrapped with action and left for ErrorHandler to log.
func storeError(err error, action string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "not found")
	case errors.Is(err, store.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrPhotoLimit):
		return fiber.NewError(fiber.StatusConflict, "this game already has the maximum number of photos")
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}

// pathID parses the ":id" route parameter.
func pathID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}
