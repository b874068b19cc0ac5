package handlers

import (
	"fmt"
	"strconv"

	"bookmarket/internal/models"
	"bookmarket/internal/repositories"
	"bookmarket/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// BookHandler handles HTTP requests for the book catalog.
type BookHandler struct {
	bookService *services.BookService
	validate    *validator.Validate
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(bookService *services.BookService) *BookHandler {
	return &BookHandler{
		bookService: bookService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the book routes with the Fiber app.
func (h *BookHandler) RegisterRoutes(router fiber.Router) {
	bookRoutes := router.Group("/books")
	bookRoutes.Get("/", h.HandleListBooks)
	bookRoutes.Get("/:id", h.HandleGetBookByID)
	bookRoutes.Post("/", h.HandleCreateBook)
	bookRoutes.Put("/:id/quantity", h.HandleUpdateQuantity)
}

// HandleListBooks lists books with optional filters (subject, condition,
// price range, text search, stock, and a lat/lng/radius distance cut).
func (h *BookHandler) HandleListBooks(c *fiber.Ctx) error {
	query := services.ListBooksQuery{
		Filter: repositories.BookFilter{
			Subject:   models.Subject(c.Query("subject")),
			Condition: models.Condition(c.Query("condition")),
			Search:    c.Query("search"),
			InStock:   c.Query("inStock", "true") == "true",
		},
	}

	if raw := c.Query("minPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			query.Filter.MinPrice = &v
		}
	}
	if raw := c.Query("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			query.Filter.MaxPrice = &v
		}
	}

	latRaw, lngRaw := c.Query("lat"), c.Query("lng")
	if latRaw != "" && lngRaw != "" {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lng, lngErr := strconv.ParseFloat(lngRaw, 64)
		if latErr == nil && lngErr == nil {
			query.Near = &models.GeoPoint{Lat: lat, Lng: lng}
			if radius, err := strconv.ParseFloat(c.Query("radius", "50"), 64); err == nil {
				query.RadiusKM = radius
			}
		}
	}

	books, err := h.bookService.ListBooks(query)
	if err != nil {
		return errorJSON(c, err, "Error fetching books")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(books),
		"data":    books,
	})
}

// HandleGetBookByID retrieves a single book.
func (h *BookHandler) HandleGetBookByID(c *fiber.Ctx) error {
	book, err := h.bookService.GetBook(c.Params("id"))
	if err != nil {
		return errorJSON(c, err, "Error fetching book")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    book,
	})
}

// HandleCreateBook lists a new book for a seller.
func (h *BookHandler) HandleCreateBook(c *fiber.Ctx) error {
	var req services.CreateBookRequest
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

	book, err := h.bookService.CreateBook(req)
	if err != nil {
		return errorJSON(c, err, "Error creating book")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    book,
	})
}

// updateQuantityRequest is the body of PUT /books/:id/quantity. SellerID
// identifies the caller; only the listing owner may restock.
type updateQuantityRequest struct {
	Quantity int    `json:"quantity"`
	SellerID string `json:"seller_id" validate:"required"`
}

// HandleUpdateQuantity sets a book's stock to an absolute value.
func (h *BookHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req updateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.SellerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "seller_id is required",
		})
	}

	book, err := h.bookService.UpdateQuantity(c.Params("id"), req.SellerID, req.Quantity)
	if err != nil {
		return errorJSON(c, err, "Error updating quantity")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Book quantity updated to %d", req.Quantity),
		"data":    book,
	})
}
