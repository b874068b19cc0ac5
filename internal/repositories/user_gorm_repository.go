package repositories

import (
	"errors"
	"fmt"

	"bookmarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update updates an existing user in the database.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Save(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s: %w", user.ID, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetByClerkID retrieves a user by their external identity id.
func (r *GORMUserRepository) GetByClerkID(clerkID string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "clerk_id = ?", clerkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with clerk ID %s: %w", clerkID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by clerk ID %s: %w", clerkID, err)
	}
	return &user, nil
}

// DeleteByClerkID removes the user record tied to an external identity.
func (r *GORMUserRepository) DeleteByClerkID(clerkID string) error {
	res := r.db.Delete(&models.User{}, "clerk_id = ?", clerkID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user with clerk ID %s: %w", clerkID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with clerk ID %s: %w", clerkID, ErrNotFound)
	}
	return nil
}
