package handlers

import (
	"bookmarket/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders and their tracking timelines.
type OrderHandler struct {
	trackingService *services.TrackingService
	validate        *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(trackingService *services.TrackingService) *OrderHandler {
	return &OrderHandler{
		trackingService: trackingService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/user/:clerkId", h.HandleGetBuyerOrders)
	orderRoutes.Get("/seller/:clerkId", h.HandleGetSellerOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Put("/:id/status", h.HandleUpdateStatus)
	orderRoutes.Post("/:id/tracking", h.HandleAddTracking)
}

// HandleGetBuyerOrders lists a buyer's orders, newest first.
func (h *OrderHandler) HandleGetBuyerOrders(c *fiber.Ctx) error {
	orders, err := h.trackingService.OrdersForBuyer(c.Params("clerkId"))
	if err != nil {
		return errorJSON(c, err, "Error fetching user orders")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(orders),
		"data":    orders,
	})
}

// HandleGetSellerOrders lists a seller's orders, newest first.
func (h *OrderHandler) HandleGetSellerOrders(c *fiber.Ctx) error {
	orders, err := h.trackingService.OrdersForSeller(c.Params("clerkId"))
	if err != nil {
		return errorJSON(c, err, "Error fetching seller orders")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(orders),
		"data":    orders,
	})
}

// HandleGetOrderByID retrieves a single order with its timeline.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.trackingService.GetOrder(c.Params("id"))
	if err != nil {
		return errorJSON(c, err, "Error fetching order")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}

// HandleUpdateStatus advances the order status, appending a tracking entry.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req services.TrackingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Status and updated_by_clerk_id are required",
		})
	}

	order, err := h.trackingService.AdvanceStatus(c.Params("id"), req)
	if err != nil {
		return errorJSON(c, err, "Error updating order status")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}

// HandleAddTracking appends a supplementary tracking entry without changing
// the order status.
func (h *OrderHandler) HandleAddTracking(c *fiber.Ctx) error {
	var req services.TrackingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Status and updated_by_clerk_id are required",
		})
	}

	order, err := h.trackingService.AppendTracking(c.Params("id"), req)
	if err != nil {
		return errorJSON(c, err, "Error adding tracking update")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Tracking update added successfully",
		"data":    order,
	})
}
