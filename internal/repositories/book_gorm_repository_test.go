package repositories_test

import (
	"fmt"
	"testing"

	"bookmarket/internal/models"
	"bookmarket/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newBookRepo(t *testing.T, name string) *repositories.GORMBookRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Book{}))
	return repositories.NewGORMBookRepository(db)
}

func seedBook(t *testing.T, repo *repositories.GORMBookRepository, quantity int) *models.Book {
	t.Helper()
	book := &models.Book{
		Title:            "A Brief History of Time",
		Author:           "Stephen Hawking",
		Description:      "Light shelf wear",
		Subject:          models.SubjectScience,
		Condition:        models.ConditionGood,
		Price:            9.99,
		Quantity:         quantity,
		OriginalQuantity: quantity,
		SellerID:         "seller-1",
	}
	assert.NoError(t, repo.Create(book))
	return book
}

func TestGORMBookRepository_DecrementQuantity(t *testing.T) {
	repo := newBookRepo(t, "decrement_ok")
	book := seedBook(t, repo, 3)

	assert.NoError(t, repo.DecrementQuantity(book.ID, 2))

	got, err := repo.GetByID(book.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
	assert.True(t, got.Available)

	// Draining the last copy flips availability in the same statement.
	assert.NoError(t, repo.DecrementQuantity(book.ID, 1))
	got, err = repo.GetByID(book.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
	assert.False(t, got.Available)
}

func TestGORMBookRepository_DecrementQuantity_Insufficient(t *testing.T) {
	repo := newBookRepo(t, "decrement_insufficient")
	book := seedBook(t, repo, 2)

	err := repo.DecrementQuantity(book.ID, 3)
	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)

	// A failed decrement leaves the row untouched.
	got, getErr := repo.GetByID(book.ID)
	assert.NoError(t, getErr)
	assert.Equal(t, 2, got.Quantity)
	assert.True(t, got.Available)
}

func TestGORMBookRepository_DecrementQuantity_MissingBook(t *testing.T) {
	repo := newBookRepo(t, "decrement_missing")

	err := repo.DecrementQuantity("no-such-book", 1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMBookRepository_IncrementQuantity(t *testing.T) {
	repo := newBookRepo(t, "increment")
	book := seedBook(t, repo, 1)

	assert.NoError(t, repo.DecrementQuantity(book.ID, 1))
	assert.NoError(t, repo.IncrementQuantity(book.ID, 1))

	got, err := repo.GetByID(book.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
	assert.True(t, got.Available, "a restocked book becomes available again")
}

func TestGORMBookRepository_GetAllFilters(t *testing.T) {
	repo := newBookRepo(t, "filters")
	cheap := seedBook(t, repo, 2)
	pricey := &models.Book{
		Title:            "Gray's Anatomy",
		Author:           "Henry Gray",
		Description:      "Collector's edition",
		Subject:          models.SubjectScience,
		Condition:        models.ConditionLikeNew,
		Price:            80.00,
		Quantity:         1,
		OriginalQuantity: 1,
		SellerID:         "seller-2",
	}
	assert.NoError(t, repo.Create(pricey))
	assert.NoError(t, repo.DecrementQuantity(pricey.ID, 1))

	// InStock hides the sold-out listing.
	books, err := repo.GetAll(repositories.BookFilter{InStock: true})
	assert.NoError(t, err)
	assert.Len(t, books, 1)
	assert.Equal(t, cheap.ID, books[0].ID)

	// Without it both remain visible.
	books, err = repo.GetAll(repositories.BookFilter{})
	assert.NoError(t, err)
	assert.Len(t, books, 2)

	maxPrice := 10.0
	books, err = repo.GetAll(repositories.BookFilter{MaxPrice: &maxPrice})
	assert.NoError(t, err)
	assert.Len(t, books, 1)
	assert.Equal(t, cheap.ID, books[0].ID)

	books, err = repo.GetAll(repositories.BookFilter{Search: "Anatomy"})
	assert.NoError(t, err)
	assert.Len(t, books, 1)
	assert.Equal(t, pricey.ID, books[0].ID)
}
