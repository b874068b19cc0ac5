package handlers

import (
	"fmt"

	"bookmarket/internal/models"
	"bookmarket/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user profiles.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/", h.HandleUpsertUser)
	userRoutes.Get("/:clerkId", h.HandleGetUserByClerkID)
	userRoutes.Put("/:clerkId/location", h.HandleUpdateLocation)
}

// HandleUpsertUser creates or updates a user keyed by clerk id.
func (h *UserHandler) HandleUpsertUser(c *fiber.Ctx) error {
	var req services.UpsertUserRequest
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

	user, err := h.userService.UpsertUser(req)
	if err != nil {
		return errorJSON(c, err, "Error creating/updating user")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

// HandleGetUserByClerkID retrieves a user by their external identity id.
func (h *UserHandler) HandleGetUserByClerkID(c *fiber.Ctx) error {
	user, err := h.userService.GetByClerkID(c.Params("clerkId"))
	if err != nil {
		return errorJSON(c, err, "Error fetching user")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

// updateLocationRequest is the body of PUT /users/:clerkId/location.
type updateLocationRequest struct {
	Address     *models.Address  `json:"address,omitempty"`
	Coordinates *models.GeoPoint `json:"coordinates,omitempty"`
}

// HandleUpdateLocation updates a user's address and/or coordinates.
func (h *UserHandler) HandleUpdateLocation(c *fiber.Ctx) error {
	var req updateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	user, err := h.userService.UpdateLocation(c.Params("clerkId"), req.Address, req.Coordinates)
	if err != nil {
		return errorJSON(c, err, "Error updating user location")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}
