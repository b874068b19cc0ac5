package repositories

import (
	"bookmarket/internal/models"
)

// BookFilter narrows a book listing query. Zero values mean "no filter".
type BookFilter struct {
	Subject   models.Subject
	Condition models.Condition
	MinPrice  *float64
	MaxPrice  *float64
	Search    string
	InStock   bool
}

// BookRepository defines the interface for book data access. The quantity
// mutations are conditional single-statement updates so that concurrent
// checkouts cannot oversell a book (no read-then-write window).
type BookRepository interface {
	GetAll(filter BookFilter) ([]models.Book, error)
	GetByID(id string) (*models.Book, error)
	Create(book *models.Book) error
	Update(book *models.Book) error
	// DecrementQuantity atomically applies "quantity -= amount" only when
	// quantity >= amount, recomputing availability in the same statement.
	// Returns ErrInsufficientStock when the condition fails.
	DecrementQuantity(id string, amount int) error
	// IncrementQuantity atomically applies "quantity += amount" and marks the
	// book available. Used for compensating rollbacks during checkout.
	IncrementQuantity(id string, amount int) error
}
