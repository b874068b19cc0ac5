package repositories

import (
	"errors"
	"fmt"
	"time"

	"bookmarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBookRepository is a GORM implementation of BookRepository.
type GORMBookRepository struct {
	db *gorm.DB
}

// NewGORMBookRepository creates a new instance of GORMBookRepository.
func NewGORMBookRepository(db *gorm.DB) *GORMBookRepository {
	return &GORMBookRepository{
		db: db,
	}
}

// GetAll retrieves books matching the filter, newest first.
func (r *GORMBookRepository) GetAll(filter BookFilter) ([]models.Book, error) {
	query := r.db.Model(&models.Book{})

	if filter.InStock {
		query = query.Where("quantity > 0 AND available = ?", true)
	}
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.Condition != "" {
		query = query.Where("condition = ?", filter.Condition)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR author LIKE ? OR description LIKE ?", pattern, pattern, pattern)
	}

	var books []models.Book
	if err := query.Order("created_at DESC").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// GetByID retrieves a single book by its ID from the database.
func (r *GORMBookRepository) GetByID(id string) (*models.Book, error) {
	var book models.Book
	if err := r.db.First(&book, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get book by ID %s: %w", id, err)
	}
	return &book, nil
}

// Create creates a new book in the database.
func (r *GORMBookRepository) Create(book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	book.Available = book.Quantity > 0
	if err := r.db.Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// Update updates an existing book in the database.
func (r *GORMBookRepository) Update(book *models.Book) error {
	book.Available = book.Quantity > 0
	res := r.db.Save(book)
	if res.Error != nil {
		return fmt.Errorf("failed to update book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book with ID %s: %w", book.ID, ErrNotFound)
	}
	return nil
}

// DecrementQuantity performs the stock decrement as a single conditional
// UPDATE. The WHERE clause carries the sufficiency check, so two concurrent
// checkouts of the same book cannot both pass a stale read; availability is
// recomputed from the pre-update quantity inside the same statement.
func (r *GORMBookRepository) DecrementQuantity(id string, amount int) error {
	if amount < 1 {
		return fmt.Errorf("decrement amount must be at least 1, got %d", amount)
	}
	res := r.db.Model(&models.Book{}).
		Where("id = ? AND quantity >= ?", id, amount).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", amount),
			"available":  gorm.Expr("quantity - ? > 0", amount),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to decrement quantity for book %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing row from an insufficient one.
		if _, err := r.GetByID(id); err != nil {
			return err
		}
		return fmt.Errorf("book %s: %w", id, ErrInsufficientStock)
	}
	return nil
}

// IncrementQuantity restores stock unconditionally and marks the book
// available again.
func (r *GORMBookRepository) IncrementQuantity(id string, amount int) error {
	if amount < 1 {
		return fmt.Errorf("increment amount must be at least 1, got %d", amount)
	}
	res := r.db.Model(&models.Book{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", amount),
			"available":  true,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to increment quantity for book %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
