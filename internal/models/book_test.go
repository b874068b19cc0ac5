package models_test

import (
	"testing"

	"bookmarket/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBook_ReduceQuantity(t *testing.T) {
	book := &models.Book{Quantity: 3, Available: true}

	// Partial reduction keeps the book available.
	ok := book.ReduceQuantity(2)
	assert.True(t, ok)
	assert.Equal(t, 1, book.Quantity)
	assert.True(t, book.Available)

	// Reducing to zero flips availability.
	ok = book.ReduceQuantity(1)
	assert.True(t, ok)
	assert.Equal(t, 0, book.Quantity)
	assert.False(t, book.Available)
}

func TestBook_ReduceQuantity_Insufficient(t *testing.T) {
	book := &models.Book{Quantity: 3, Available: true}

	ok := book.ReduceQuantity(4)
	assert.False(t, ok, "over-reduction must be declined")
	assert.Equal(t, 3, book.Quantity, "declined reduction must not mutate quantity")
	assert.True(t, book.Available)
}

func TestBook_IncreaseQuantity(t *testing.T) {
	book := &models.Book{Quantity: 0, OriginalQuantity: 2, Available: false}

	book.IncreaseQuantity(1)
	assert.Equal(t, 1, book.Quantity)
	assert.True(t, book.Available)

	// Restocking beyond the original snapshot is allowed.
	book.IncreaseQuantity(5)
	assert.Equal(t, 6, book.Quantity)
	assert.True(t, book.Available)
	assert.Equal(t, 2, book.OriginalQuantity, "original quantity is immutable")
}

func TestBook_AvailabilityInvariant(t *testing.T) {
	book := &models.Book{Quantity: 5, Available: true}

	// available == (quantity > 0) must hold after any sequence of mutations.
	ops := []func(){
		func() { book.ReduceQuantity(2) },
		func() { book.ReduceQuantity(10) }, // declined
		func() { book.IncreaseQuantity(1) },
		func() { book.ReduceQuantity(4) },
		func() { book.IncreaseQuantity(3) },
	}
	for _, op := range ops {
		op()
		assert.Equal(t, book.Quantity > 0, book.Available)
		assert.GreaterOrEqual(t, book.Quantity, 0)
	}
}
