package services

import (
	"errors"
	"fmt"
	"time"

	"bookmarket/internal/models"
	"bookmarket/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// deliveryEstimate is how far out the estimated delivery date is set for
// delivery orders. Pickup orders get no estimate.
const deliveryEstimate = 3 * 24 * time.Hour

// CheckoutService turns a cart into a persisted order. It coordinates the
// book stock ledger and the order aggregate: all items are validated
// read-only first, then each decrement is applied atomically, with
// compensating re-increments if anything fails afterwards.
type CheckoutService struct {
	orderRepo repositories.OrderRepository
	bookRepo  repositories.BookRepository
	userRepo  repositories.UserRepository
	publisher EventPublisher
}

// NewCheckoutService creates a new CheckoutService. publisher may be nil to
// disable event publication.
func NewCheckoutService(orderRepo repositories.OrderRepository, bookRepo repositories.BookRepository, userRepo repositories.UserRepository, publisher EventPublisher) *CheckoutService {
	return &CheckoutService{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// CheckoutItem is one requested (book, quantity) pair.
type CheckoutItem struct {
	BookID   string `json:"book_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

// CheckoutRequest is the cart submitted by a buyer.
type CheckoutRequest struct {
	BuyerClerkID        string           `json:"buyer_clerk_id" validate:"required"`
	Items               []CheckoutItem   `json:"items" validate:"required,min=1,dive"`
	OrderType           models.OrderType `json:"order_type" validate:"omitempty,oneof=delivery pickup"`
	DeliveryAddress     *models.Address  `json:"delivery_address,omitempty"`
	DeliveryCoordinates *models.GeoPoint `json:"delivery_coordinates,omitempty"`
	Notes               string           `json:"notes,omitempty"`
}

// Checkout validates the cart, reserves stock and persists the order.
// Rejections (unknown buyer, unknown book, insufficient stock, items from
// more than one seller) happen before any stock mutation; if a later step
// fails, already applied decrements are rolled back so the checkout is
// all-or-nothing.
func (s *CheckoutService) Checkout(req CheckoutRequest) (*models.Order, error) {
	buyer, err := s.userRepo.GetByClerkID(req.BuyerClerkID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundf("buyer not found")
		}
		return nil, unexpected("failed to resolve buyer", err)
	}

	if len(req.Items) == 0 {
		return nil, validationf("at least one item is required")
	}

	// Read-only validation pass. Prices are frozen here; the books are not
	// touched until every item has passed.
	var seller *models.User
	orderItems := make([]models.OrderItem, 0, len(req.Items))
	var totalAmount float64

	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, validationf("quantity must be at least 1 for book %s", item.BookID)
		}

		book, err := s.bookRepo.GetByID(item.BookID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, validationf("book not found")
			}
			return nil, unexpected("failed to resolve book", err)
		}

		if book.Quantity == 0 {
			return nil, validationf("%q is currently out of stock", book.Title)
		}
		if book.Quantity < item.Quantity {
			return nil, validationf("only %d copies of %q are available, but you requested %d", book.Quantity, book.Title, item.Quantity)
		}

		if seller == nil {
			seller, err = s.userRepo.GetByID(book.SellerID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return nil, notFoundf("seller not found for book %q", book.Title)
				}
				return nil, unexpected("failed to resolve seller", err)
			}
		} else if seller.ID != book.SellerID {
			return nil, validationf("all books must be from the same seller")
		}

		orderItems = append(orderItems, models.OrderItem{
			BookID:   book.ID,
			Quantity: item.Quantity,
			Price:    book.Price, // frozen snapshot, never re-derived
		})
		totalAmount += book.Price * float64(item.Quantity)
	}

	// Reservation pass. Each decrement is individually atomic; any failure
	// rolls back the ones already applied.
	applied := make([]models.OrderItem, 0, len(orderItems))
	for _, item := range orderItems {
		if err := s.bookRepo.DecrementQuantity(item.BookID, item.Quantity); err != nil {
			s.rollbackDecrements(applied)
			switch {
			case errors.Is(err, repositories.ErrInsufficientStock):
				return nil, validationf("insufficient stock for book %s", item.BookID)
			case errors.Is(err, repositories.ErrNotFound):
				return nil, validationf("book not found")
			default:
				return nil, unexpected("failed to reserve stock", err)
			}
		}
		applied = append(applied, item)
	}

	order := s.buildOrder(req, buyer, seller, orderItems, totalAmount)

	if err := s.orderRepo.Create(order); err != nil {
		s.rollbackDecrements(applied)
		if errors.Is(err, repositories.ErrDuplicateOrderNumber) {
			return nil, conflictf("order number %s already exists", order.OrderNumber)
		}
		return nil, unexpected("failed to persist order", err)
	}

	log.Info().
		Str("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Str("buyer_id", buyer.ID).
		Str("seller_id", seller.ID).
		Float64("total", order.TotalAmount).
		Msg("order placed")

	publishOrderEvent(s.publisher, EventOrderCreated, order)

	return order, nil
}

// buildOrder assembles the order aggregate with its synthesized initial
// tracking entry.
func (s *CheckoutService) buildOrder(req CheckoutRequest, buyer, seller *models.User, items []models.OrderItem, totalAmount float64) *models.Order {
	now := time.Now()

	orderType := req.OrderType
	if orderType == "" {
		orderType = models.OrderTypeDelivery
	}

	deliveryAddress := buyer.Address
	if req.DeliveryAddress != nil {
		deliveryAddress = *req.DeliveryAddress
	}
	deliveryLocation := buyer.Location
	if req.DeliveryCoordinates != nil {
		deliveryLocation = *req.DeliveryCoordinates
	}

	fulfillmentNote := "Preparing for delivery"
	if orderType == models.OrderTypePickup {
		fulfillmentNote = "Ready for pickup confirmation"
	}

	order := &models.Order{
		ID:               uuid.New().String(),
		OrderNumber:      models.GenerateOrderNumber(),
		BuyerID:          buyer.ID,
		SellerID:         seller.ID,
		Items:            items,
		TotalAmount:      totalAmount,
		OrderType:        orderType,
		Status:           models.StatusPending,
		DeliveryAddress:  deliveryAddress,
		DeliveryLocation: deliveryLocation,
		Notes:            req.Notes,
		TrackingUpdates: []models.TrackingUpdate{
			{
				Status:      "Order Placed",
				Message:     fmt.Sprintf("Order placed successfully for %d item(s). %s.", len(items), fulfillmentNote),
				Location:    sellerLocationText(seller),
				Coordinates: seller.Location,
				UpdatedByID: buyer.ID,
				Timestamp:   now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Pickup orders have no delivery to estimate.
	if orderType == models.OrderTypeDelivery {
		estimate := now.Add(deliveryEstimate)
		order.EstimatedDelivery = &estimate
	}

	return order
}

// rollbackDecrements compensates stock decrements after a failed checkout.
func (s *CheckoutService) rollbackDecrements(applied []models.OrderItem) {
	for _, item := range applied {
		if err := s.bookRepo.IncrementQuantity(item.BookID, item.Quantity); err != nil {
			log.Error().Err(err).
				Str("book_id", item.BookID).
				Int("quantity", item.Quantity).
				Msg("failed to roll back stock decrement")
		}
	}
}

// sellerLocationText derives the human-readable tracking location from the
// seller's address, with a fallback literal when city/state are missing.
func sellerLocationText(seller *models.User) string {
	if seller.Address.City != "" && seller.Address.State != "" {
		return fmt.Sprintf("%s, %s", seller.Address.City, seller.Address.State)
	}
	return "Seller Location"
}
