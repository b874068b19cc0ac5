package models

import "strings"

// OrderStatus is a state in the order lifecycle.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusReadyForPickup OrderStatus = "ready_for_pickup"
	StatusPickedUp       OrderStatus = "picked_up"
	StatusCancelled      OrderStatus = "cancelled"
)

// statusTransitions is the allowed transition graph. The delivery path is
// pending -> confirmed -> preparing -> out_for_delivery -> delivered, the
// pickup path is pending -> ready_for_pickup -> picked_up, and cancelled is
// reachable from any non-terminal state.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusConfirmed, StatusReadyForPickup, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusReadyForPickup: {StatusPickedUp, StatusCancelled},
	StatusDelivered:      {},
	StatusPickedUp:       {},
	StatusCancelled:      {},
}

// NormalizeStatus lower-cases a free-form status string and collapses
// whitespace runs to underscores ("Out For Delivery" -> "out_for_delivery").
func NormalizeStatus(s string) OrderStatus {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.Join(strings.Fields(normalized), "_")
	return OrderStatus(normalized)
}

// IsValidStatus reports whether s is a known lifecycle state.
func IsValidStatus(s OrderStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible from s.
func (s OrderStatus) IsTerminal() bool {
	allowed, ok := statusTransitions[s]
	return ok && len(allowed) == 0
}
