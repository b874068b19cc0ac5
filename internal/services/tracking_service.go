package services

import (
	"errors"
	"fmt"
	"time"

	"bookmarket/internal/models"
	"bookmarket/internal/repositories"

	"github.com/rs/zerolog/log"
)

// TrackingService appends timeline entries to orders and drives the order
// status lifecycle through its explicit transition graph.
type TrackingService struct {
	orderRepo repositories.OrderRepository
	userRepo  repositories.UserRepository
	publisher EventPublisher
}

// NewTrackingService creates a new TrackingService. publisher may be nil to
// disable event publication.
func NewTrackingService(orderRepo repositories.OrderRepository, userRepo repositories.UserRepository, publisher EventPublisher) *TrackingService {
	return &TrackingService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// TrackingRequest carries one tracking or status update.
type TrackingRequest struct {
	Status           string           `json:"status" validate:"required"`
	Message          string           `json:"message,omitempty"`
	Location         string           `json:"location,omitempty"`
	Coordinates      *models.GeoPoint `json:"coordinates,omitempty"`
	UpdatedByClerkID string           `json:"updated_by_clerk_id" validate:"required"`
}

// AppendTracking adds a supplementary timeline entry without changing the
// order's status. The status text is stored as given.
func (s *TrackingService) AppendTracking(orderID string, req TrackingRequest) (*models.Order, error) {
	order, updater, err := s.resolve(orderID, req.UpdatedByClerkID)
	if err != nil {
		return nil, err
	}

	order.TrackingUpdates = append(order.TrackingUpdates, s.newEntry(req, req.Message, updater.ID))

	if err := s.orderRepo.Update(order); err != nil {
		return nil, unexpected("failed to save tracking update", err)
	}
	return order, nil
}

// AdvanceStatus appends a tracking entry and moves the order to the
// normalized status. Transitions outside the lifecycle graph are rejected
// with an InvalidTransitionError; reaching delivered stamps ActualDelivery.
func (s *TrackingService) AdvanceStatus(orderID string, req TrackingRequest) (*models.Order, error) {
	order, updater, err := s.resolve(orderID, req.UpdatedByClerkID)
	if err != nil {
		return nil, err
	}

	next := models.NormalizeStatus(req.Status)
	if !models.IsValidStatus(next) {
		return nil, validationf("unknown order status %q", req.Status)
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, &InvalidTransitionError{From: order.Status, To: next}
	}

	message := req.Message
	if message == "" {
		message = fmt.Sprintf("Order status updated to %s", req.Status)
	}

	order.TrackingUpdates = append(order.TrackingUpdates, s.newEntry(req, message, updater.ID))
	order.Status = next
	if next == models.StatusDelivered {
		delivered := time.Now()
		order.ActualDelivery = &delivered
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, unexpected("failed to save status update", err)
	}

	log.Info().
		Str("order_id", order.ID).
		Str("status", string(next)).
		Str("updated_by", updater.ID).
		Msg("order status advanced")

	publishOrderEvent(s.publisher, EventOrderStatusUpdated, order)

	return order, nil
}

// GetOrder retrieves one order with its timeline.
func (s *TrackingService) GetOrder(orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundf("order not found")
		}
		return nil, unexpected("failed to get order", err)
	}
	return order, nil
}

// OrdersForBuyer lists a buyer's orders, newest first.
func (s *TrackingService) OrdersForBuyer(clerkID string) ([]models.Order, error) {
	user, err := s.resolveUser(clerkID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.GetByBuyer(user.ID)
	if err != nil {
		return nil, unexpected("failed to list buyer orders", err)
	}
	return orders, nil
}

// OrdersForSeller lists a seller's orders, newest first.
func (s *TrackingService) OrdersForSeller(clerkID string) ([]models.Order, error) {
	user, err := s.resolveUser(clerkID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.GetBySeller(user.ID)
	if err != nil {
		return nil, unexpected("failed to list seller orders", err)
	}
	return orders, nil
}

func (s *TrackingService) resolve(orderID, updatedByClerkID string) (*models.Order, *models.User, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, notFoundf("order not found")
		}
		return nil, nil, unexpected("failed to get order", err)
	}

	updater, err := s.resolveUser(updatedByClerkID)
	if err != nil {
		return nil, nil, err
	}
	return order, updater, nil
}

func (s *TrackingService) resolveUser(clerkID string) (*models.User, error) {
	user, err := s.userRepo.GetByClerkID(clerkID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundf("user not found")
		}
		return nil, unexpected("failed to resolve user", err)
	}
	return user, nil
}

func (s *TrackingService) newEntry(req TrackingRequest, message, updatedByID string) models.TrackingUpdate {
	entry := models.TrackingUpdate{
		Status:      req.Status,
		Message:     message,
		Location:    req.Location,
		UpdatedByID: updatedByID,
		Timestamp:   time.Now(),
	}
	if req.Coordinates != nil {
		entry.Coordinates = *req.Coordinates
	}
	return entry
}
