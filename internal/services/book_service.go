package services

import (
	"errors"

	"bookmarket/internal/models"
	"bookmarket/internal/repositories"

	"github.com/rs/zerolog/log"
)

// BookService handles the book catalog and seller-side stock adjustments.
type BookService struct {
	bookRepo repositories.BookRepository
	userRepo repositories.UserRepository
}

// NewBookService creates a new BookService.
func NewBookService(bookRepo repositories.BookRepository, userRepo repositories.UserRepository) *BookService {
	return &BookService{
		bookRepo: bookRepo,
		userRepo: userRepo,
	}
}

// CreateBookRequest describes a new listing.
type CreateBookRequest struct {
	Title       string           `json:"title" validate:"required"`
	Author      string           `json:"author" validate:"required"`
	ISBN        string           `json:"isbn,omitempty"`
	Description string           `json:"description" validate:"required"`
	Subject     models.Subject   `json:"subject" validate:"required,oneof=Science Geography Mathematics History Literature Other"`
	Condition   models.Condition `json:"condition" validate:"required,oneof=New 'Like New' Good Fair Poor"`
	Price       float64          `json:"price" validate:"gte=0"`
	Quantity    int              `json:"quantity" validate:"gte=1"`
	Images      []string         `json:"images,omitempty"`
	SellerID    string           `json:"seller_id" validate:"required"`
}

// CreateBook lists a new book. The initial quantity is snapshotted into
// OriginalQuantity and the listing inherits the seller's location.
func (s *BookService) CreateBook(req CreateBookRequest) (*models.Book, error) {
	if req.Quantity < 1 {
		return nil, validationf("quantity must be at least 1")
	}

	seller, err := s.userRepo.GetByID(req.SellerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundf("seller not found")
		}
		return nil, unexpected("failed to resolve seller", err)
	}

	book := &models.Book{
		Title:            req.Title,
		Author:           req.Author,
		ISBN:             req.ISBN,
		Description:      req.Description,
		Subject:          req.Subject,
		Condition:        req.Condition,
		Price:            req.Price,
		Quantity:         req.Quantity,
		OriginalQuantity: req.Quantity,
		Images:           req.Images,
		SellerID:         seller.ID,
		Available:        req.Quantity > 0,
		Location:         seller.Location,
	}

	if err := s.bookRepo.Create(book); err != nil {
		return nil, unexpected("failed to create book", err)
	}

	log.Info().Str("book_id", book.ID).Str("seller_id", seller.ID).Msg("book listed")
	return book, nil
}

// GetBook retrieves one book.
func (s *BookService) GetBook(id string) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundf("book not found")
		}
		return nil, unexpected("failed to get book", err)
	}
	return book, nil
}

// ListBooksQuery narrows a catalog listing. Near/RadiusKM enable a distance
// cut around a point; results are not ranked by distance.
type ListBooksQuery struct {
	Filter   repositories.BookFilter
	Near     *models.GeoPoint
	RadiusKM float64
}

// ListBooks returns books matching the query, newest first.
func (s *BookService) ListBooks(query ListBooksQuery) ([]models.Book, error) {
	books, err := s.bookRepo.GetAll(query.Filter)
	if err != nil {
		return nil, unexpected("failed to list books", err)
	}

	if query.Near == nil {
		return books, nil
	}

	radius := query.RadiusKM
	if radius <= 0 {
		radius = 50
	}
	nearby := make([]models.Book, 0, len(books))
	for _, book := range books {
		if book.Location.DistanceKM(*query.Near) <= radius {
			nearby = append(nearby, book)
		}
	}
	return nearby, nil
}

// UpdateQuantity sets a book's stock to an absolute value. Only the owning
// seller may adjust a listing; negative quantities are rejected.
func (s *BookService) UpdateQuantity(bookID, sellerID string, quantity int) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundf("book not found")
		}
		return nil, unexpected("failed to get book", err)
	}

	if book.SellerID != sellerID {
		return nil, forbiddenf("you can only update your own books")
	}
	if quantity < 0 {
		return nil, validationf("quantity cannot be negative")
	}

	book.Quantity = quantity
	book.Available = quantity > 0
	if err := s.bookRepo.Update(book); err != nil {
		return nil, unexpected("failed to update book quantity", err)
	}

	log.Info().Str("book_id", book.ID).Int("quantity", quantity).Msg("book quantity updated")
	return book, nil
}
