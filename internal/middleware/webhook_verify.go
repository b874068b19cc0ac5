package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	svix "github.com/svix/svix-webhooks/go"
)

// VerifyClerkWebhook is a Fiber middleware that checks the svix signature of
// incoming identity-provider webhooks against the shared secret. Requests
// with a missing or invalid signature are rejected before any processing.
func VerifyClerkWebhook(secret string) fiber.Handler {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		log.Error().Err(err).Msg("invalid webhook secret")
	}

	return func(c *fiber.Ctx) error {
		if secret == "" || wh == nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Webhook secret is not configured",
			})
		}

		headers := http.Header{}
		for key, values := range c.GetReqHeaders() {
			for _, value := range values {
				headers.Add(key, value)
			}
		}

		if verifyErr := wh.Verify(c.Body(), headers); verifyErr != nil {
			log.Warn().Err(verifyErr).Msg("webhook verification failed")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Webhook verification failed",
			})
		}

		return c.Next()
	}
}
