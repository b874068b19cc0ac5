package repositories

import "errors"

// Sentinel errors surfaced by repositories so services can classify failures
// with errors.Is instead of matching message strings.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientStock is returned by a conditional decrement when the
	// requested amount exceeds the current quantity. The row is untouched.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrDuplicateOrderNumber is returned when the order number unique index
	// rejects a write.
	ErrDuplicateOrderNumber = errors.New("duplicate order number")
)
