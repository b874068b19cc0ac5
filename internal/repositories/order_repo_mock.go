package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"bookmarket/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	nextID uint
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		nextID: 1,
	}
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return copyOrder(order), nil
}

// GetByBuyer returns all orders placed by a buyer, newest first.
func (r *MockOrderRepository) GetByBuyer(buyerID string) ([]models.Order, error) {
	return r.filter(func(o models.Order) bool { return o.BuyerID == buyerID }), nil
}

// GetBySeller returns all orders received by a seller, newest first.
func (r *MockOrderRepository) GetBySeller(sellerID string) ([]models.Order, error) {
	return r.filter(func(o models.Order) bool { return o.SellerID == sellerID }), nil
}

func (r *MockOrderRepository) filter(keep func(models.Order) bool) []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]models.Order, 0)
	for _, order := range r.orders {
		if keep(order) {
			matches = append(matches, *copyOrder(order))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches
}

// Create adds a new order, enforcing order number uniqueness like the
// storage-level unique index does.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for _, existing := range r.orders {
		if existing.OrderNumber == order.OrderNumber {
			return fmt.Errorf("order number %s: %w", order.OrderNumber, ErrDuplicateOrderNumber)
		}
	}
	// Caller-set timestamps are preserved, as the storage layer preserves
	// the ones the checkout stamped on the aggregate.
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}
	r.assignEntryIDs(order)
	r.orders[order.ID] = *copyOrder(*order)
	return nil
}

// Update replaces the stored order, assigning IDs to newly appended
// tracking entries.
func (r *MockOrderRepository) Update(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return fmt.Errorf("order with ID %s: %w", order.ID, ErrNotFound)
	}
	order.UpdatedAt = time.Now()
	r.assignEntryIDs(order)
	r.orders[order.ID] = *copyOrder(*order)
	return nil
}

func (r *MockOrderRepository) assignEntryIDs(order *models.Order) {
	for i := range order.TrackingUpdates {
		if order.TrackingUpdates[i].ID == 0 {
			order.TrackingUpdates[i].ID = r.nextID
			order.TrackingUpdates[i].OrderID = order.ID
			r.nextID++
		}
	}
	for i := range order.Items {
		if order.Items[i].ID == 0 {
			order.Items[i].ID = r.nextID
			order.Items[i].OrderID = order.ID
			r.nextID++
		}
	}
}

// copyOrder deep-copies the slices so callers cannot mutate stored state.
func copyOrder(order models.Order) *models.Order {
	out := order
	out.Items = append([]models.OrderItem(nil), order.Items...)
	out.TrackingUpdates = append([]models.TrackingUpdate(nil), order.TrackingUpdates...)
	return &out
}
