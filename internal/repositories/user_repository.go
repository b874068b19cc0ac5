package repositories

import "bookmarket/internal/models"

// UserRepository defines the interface for user data access. Users are
// addressed either by local ID or by the identity provider's clerk id.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByClerkID(clerkID string) (*models.User, error)
	DeleteByClerkID(clerkID string) error
}
