package handlers

import (
	"encoding/json"

	"bookmarket/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// WebhookHandler processes identity-provider user events. Signature
// verification happens in middleware before these handlers run.
type WebhookHandler struct {
	userService *services.UserService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(userService *services.UserService) *WebhookHandler {
	return &WebhookHandler{
		userService: userService,
	}
}

// RegisterRoutes registers the webhook route. verify must be the signature
// verification middleware.
func (h *WebhookHandler) RegisterRoutes(router fiber.Router, verify fiber.Handler) {
	router.Post("/webhooks/clerk", verify, h.HandleClerkEvent)
}

// clerkEvent mirrors the identity provider's webhook payload.
type clerkEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"data"`
}

// HandleClerkEvent upserts the local user on user.created/user.updated and
// removes it on user.deleted. Unknown event types are acknowledged and
// ignored.
func (h *WebhookHandler) HandleClerkEvent(c *fiber.Ctx) error {
	var evt clerkEvent
	if err := json.Unmarshal(c.Body(), &evt); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid webhook payload",
		})
	}

	log.Info().Str("event", evt.Type).Str("clerk_id", evt.Data.ID).Msg("webhook received")

	switch evt.Type {
	case "user.created", "user.updated":
		email := ""
		if len(evt.Data.EmailAddresses) > 0 {
			email = evt.Data.EmailAddresses[0].EmailAddress
		}
		if _, err := h.userService.SyncFromIdentity(evt.Data.ID, email, evt.Data.FirstName, evt.Data.LastName); err != nil {
			return errorJSON(c, err, "Webhook processing failed")
		}
	case "user.deleted":
		if err := h.userService.DeleteByClerkID(evt.Data.ID); err != nil {
			return errorJSON(c, err, "Webhook processing failed")
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
