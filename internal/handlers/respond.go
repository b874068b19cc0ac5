package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"bookmarket/internal/services"
)

// statusForError maps a service error classification to an HTTP status.
func statusForError(err error) int {
	switch services.KindOf(err) {
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindValidation:
		return fiber.StatusBadRequest
	case services.KindForbidden:
		return fiber.StatusForbidden
	case services.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// errorJSON writes the standard failure envelope. For unexpected errors the
// cause is logged but only a generic message reaches the client.
func errorJSON(c *fiber.Ctx, err error, fallbackMessage string) error {
	status := statusForError(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		message = fallbackMessage
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
