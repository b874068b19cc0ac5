package services

import (
	"encoding/json"

	"bookmarket/internal/models"

	"github.com/rs/zerolog/log"
)

// Event types published to the order events queue.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusUpdated = "order.status_updated"
)

// EventPublisher publishes order lifecycle events. Satisfied by
// *rabbitmq.Client; a nil publisher disables publication.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// OrderEvent is the payload carried by order lifecycle events.
type OrderEvent struct {
	OrderID     string             `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	BuyerID     string             `json:"buyer_id"`
	SellerID    string             `json:"seller_id"`
	Status      models.OrderStatus `json:"status"`
	TotalAmount float64            `json:"total_amount"`
}

// publishOrderEvent sends an order event best-effort: failures are logged
// and never fail the originating operation.
func publishOrderEvent(publisher EventPublisher, eventType string, order *models.Order) {
	if publisher == nil {
		log.Debug().Str("event", eventType).Msg("event publisher not configured, skipping publication")
		return
	}

	body, err := json.Marshal(OrderEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		BuyerID:     order.BuyerID,
		SellerID:    order.SellerID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	})
	if err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("failed to marshal order event")
		return
	}

	if err := publisher.Publish(eventType, body); err != nil {
		log.Warn().Err(err).Str("event", eventType).Str("order_id", order.ID).Msg("failed to publish order event")
	}
}
