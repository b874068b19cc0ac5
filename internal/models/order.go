package models

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// OrderType selects the fulfillment mode.
type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypePickup   OrderType = "pickup"
)

// OrderItem is one line item within an order. Price is a frozen snapshot of
// the book's price at order creation and is never re-derived afterwards.
type OrderItem struct {
	ID       uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID  string  `json:"-" gorm:"index;type:varchar(36)"`
	BookID   string  `json:"book_id" gorm:"type:varchar(36)" validate:"required"`
	Quantity int     `json:"quantity" validate:"gte=1"`
	Price    float64 `json:"price"`
}

// TrackingUpdate is one immutable entry in an order's timeline.
type TrackingUpdate struct {
	ID          uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID     string    `json:"-" gorm:"index;type:varchar(36)"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	Location    string    `json:"location"`
	Coordinates GeoPoint  `json:"coordinates" gorm:"embedded;embeddedPrefix:coord_"`
	UpdatedByID string    `json:"updated_by_id" gorm:"type:varchar(36)"`
	Timestamp   time.Time `json:"timestamp"`
}

// Order is a single-seller purchase. It is created once at checkout and
// afterwards mutated only by tracking/status updates.
type Order struct {
	ID                string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber       string           `json:"order_number" gorm:"uniqueIndex;type:varchar(32)"`
	BuyerID           string           `json:"buyer_id" gorm:"index;type:varchar(36)"`
	SellerID          string           `json:"seller_id" gorm:"index;type:varchar(36)"`
	Items             []OrderItem      `json:"items" gorm:"foreignKey:OrderID"`
	TotalAmount       float64          `json:"total_amount" validate:"gte=0"`
	OrderType         OrderType        `json:"order_type" validate:"omitempty,oneof=delivery pickup"`
	Status            OrderStatus      `json:"status" gorm:"index;type:varchar(32)"`
	DeliveryAddress   Address          `json:"delivery_address" gorm:"embedded;embeddedPrefix:deliv_"`
	DeliveryLocation  GeoPoint         `json:"delivery_location" gorm:"embedded;embeddedPrefix:dloc_"`
	TrackingUpdates   []TrackingUpdate `json:"tracking_updates" gorm:"foreignKey:OrderID"`
	EstimatedDelivery *time.Time       `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time       `json:"actual_delivery,omitempty"`
	Notes             string           `json:"notes,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

const orderNumberSuffixChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderNumber builds a human-readable order number of the form
// ORD-<epoch millis>-<4 uppercase base36 chars>. Uniqueness is enforced by
// the storage layer's unique index, not here; the random suffix keeps two
// orders within the same millisecond distinct in practice.
func GenerateOrderNumber() string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = orderNumberSuffixChars[rand.IntN(len(orderNumberSuffixChars))]
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}
