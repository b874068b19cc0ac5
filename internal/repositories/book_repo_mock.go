package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"bookmarket/internal/models"

	"github.com/google/uuid"
)

// MockBookRepository is an in-memory implementation of BookRepository.
// The quantity mutations hold the write lock for the whole check-and-update,
// matching the atomicity of the conditional UPDATE in the GORM implementation.
type MockBookRepository struct {
	books map[string]models.Book
	mu    sync.RWMutex
}

// NewMockBookRepository creates a new instance of MockBookRepository.
func NewMockBookRepository() *MockBookRepository {
	return &MockBookRepository{
		books: make(map[string]models.Book),
	}
}

// GetAll returns books matching the filter.
func (r *MockBookRepository) GetAll(filter BookFilter) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookList := make([]models.Book, 0, len(r.books))
	for _, b := range r.books {
		if filter.InStock && (b.Quantity <= 0 || !b.Available) {
			continue
		}
		if filter.Subject != "" && b.Subject != filter.Subject {
			continue
		}
		if filter.Condition != "" && b.Condition != filter.Condition {
			continue
		}
		if filter.MinPrice != nil && b.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && b.Price > *filter.MaxPrice {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(b.Title), needle) &&
				!strings.Contains(strings.ToLower(b.Author), needle) &&
				!strings.Contains(strings.ToLower(b.Description), needle) {
				continue
			}
		}
		bookList = append(bookList, b)
	}
	sort.Slice(bookList, func(i, j int) bool {
		return bookList[i].CreatedAt.After(bookList[j].CreatedAt)
	})
	return bookList, nil
}

// GetByID returns a book by its ID.
func (r *MockBookRepository) GetByID(id string) (*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	book, ok := r.books[id]
	if !ok {
		return nil, fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
	}
	return &book, nil
}

// Create adds a new book.
func (r *MockBookRepository) Create(book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	book.Available = book.Quantity > 0
	r.books[book.ID] = *book
	return nil
}

// Update modifies an existing book.
func (r *MockBookRepository) Update(book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.books[book.ID]
	if !ok {
		return fmt.Errorf("book with ID %s: %w", book.ID, ErrNotFound)
	}
	book.Available = book.Quantity > 0
	r.books[book.ID] = *book
	return nil
}

// DecrementQuantity applies a conditional decrement under the write lock.
func (r *MockBookRepository) DecrementQuantity(id string, amount int) error {
	if amount < 1 {
		return fmt.Errorf("decrement amount must be at least 1, got %d", amount)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[id]
	if !ok {
		return fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
	}
	if !book.ReduceQuantity(amount) {
		return fmt.Errorf("book %s: %w", id, ErrInsufficientStock)
	}
	r.books[id] = book
	return nil
}

// IncrementQuantity restores stock unconditionally.
func (r *MockBookRepository) IncrementQuantity(id string, amount int) error {
	if amount < 1 {
		return fmt.Errorf("increment amount must be at least 1, got %d", amount)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[id]
	if !ok {
		return fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
	}
	book.IncreaseQuantity(amount)
	r.books[id] = book
	return nil
}
