package handlers

import (
	"fmt"

	"bookmarket/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for the checkout workflow.
type CheckoutHandler struct {
	checkoutService *services.CheckoutService
	trackingService *services.TrackingService
	validate        *validator.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkoutService *services.CheckoutService, trackingService *services.TrackingService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		trackingService: trackingService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Post("/", h.HandleCheckout)
	checkoutRoutes.Post("/update-tracking", h.HandleUpdateTracking)
}

// HandleCheckout turns a cart into a persisted order.
func (h *CheckoutHandler) HandleCheckout(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	order, err := h.checkoutService.Checkout(req)
	if err != nil {
		return errorJSON(c, err, "Error processing checkout")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Order placed successfully!",
		"data":    order,
	})
}

// updateTrackingRequest is the body of POST /checkout/update-tracking, which
// advances the status of an order identified in the payload.
type updateTrackingRequest struct {
	OrderID string `json:"order_id" validate:"required"`
	services.TrackingRequest
}

// HandleUpdateTracking advances an order's status with a tracking entry.
func (h *CheckoutHandler) HandleUpdateTracking(c *fiber.Ctx) error {
	var req updateTrackingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	order, err := h.trackingService.AdvanceStatus(req.OrderID, req.TrackingRequest)
	if err != nil {
		return errorJSON(c, err, "Error updating tracking")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Tracking updated successfully",
		"data":    order,
	})
}
