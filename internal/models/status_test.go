package models_test

import (
	"testing"

	"bookmarket/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, models.StatusOutForDelivery, models.NormalizeStatus("Out For Delivery"))
	assert.Equal(t, models.StatusDelivered, models.NormalizeStatus("  Delivered "))
	assert.Equal(t, models.StatusReadyForPickup, models.NormalizeStatus("Ready   For\tPickup"))
	assert.Equal(t, models.StatusPending, models.NormalizeStatus("pending"))
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, models.IsValidStatus(models.StatusConfirmed))
	assert.True(t, models.IsValidStatus(models.StatusPickedUp))
	assert.False(t, models.IsValidStatus(models.OrderStatus("shipped")))
	assert.False(t, models.IsValidStatus(models.OrderStatus("")))
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	// Delivery path.
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusConfirmed))
	assert.True(t, models.StatusConfirmed.CanTransitionTo(models.StatusPreparing))
	assert.True(t, models.StatusPreparing.CanTransitionTo(models.StatusOutForDelivery))
	assert.True(t, models.StatusOutForDelivery.CanTransitionTo(models.StatusDelivered))

	// Pickup path.
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusReadyForPickup))
	assert.True(t, models.StatusReadyForPickup.CanTransitionTo(models.StatusPickedUp))

	// Cancellation from any non-terminal state.
	for _, s := range []models.OrderStatus{
		models.StatusPending,
		models.StatusConfirmed,
		models.StatusPreparing,
		models.StatusOutForDelivery,
		models.StatusReadyForPickup,
	} {
		assert.True(t, s.CanTransitionTo(models.StatusCancelled), "should allow cancelling from %s", s)
	}

	// Skipping states or leaving terminal states is rejected.
	assert.False(t, models.StatusPending.CanTransitionTo(models.StatusDelivered))
	assert.False(t, models.StatusPending.CanTransitionTo(models.StatusOutForDelivery))
	assert.False(t, models.StatusDelivered.CanTransitionTo(models.StatusPending))
	assert.False(t, models.StatusCancelled.CanTransitionTo(models.StatusConfirmed))
	assert.False(t, models.StatusPickedUp.CanTransitionTo(models.StatusCancelled))
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, models.StatusDelivered.IsTerminal())
	assert.True(t, models.StatusPickedUp.IsTerminal())
	assert.True(t, models.StatusCancelled.IsTerminal())
	assert.False(t, models.StatusPending.IsTerminal())
	assert.False(t, models.OrderStatus("bogus").IsTerminal())
}
