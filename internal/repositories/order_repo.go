package repositories

import (
	"bookmarket/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetByID(id string) (*models.Order, error)
	GetByBuyer(buyerID string) ([]models.Order, error)
	GetBySeller(sellerID string) ([]models.Order, error)
	// Create persists a new order with its line items and initial tracking
	// entry. Returns ErrDuplicateOrderNumber if the unique index rejects the
	// order number.
	Create(order *models.Order) error
	// Update persists status changes and appends any new tracking entries.
	// Existing line items and tracking entries are never rewritten.
	Update(order *models.Order) error
}
