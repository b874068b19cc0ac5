package services

import (
	"errors"

	"bookmarket/internal/models"
	"bookmarket/internal/repositories"

	"github.com/rs/zerolog/log"
)

// UserService handles user profile upserts and the identity-provider sync.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// UpsertUserRequest creates or updates a user keyed by clerk id.
type UpsertUserRequest struct {
	ClerkID      string           `json:"clerk_id" validate:"required"`
	Email        string           `json:"email" validate:"required,email"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	UserType     models.UserType  `json:"user_type" validate:"omitempty,oneof=buyer seller"`
	BusinessName string           `json:"business_name,omitempty"`
	Address      *models.Address  `json:"address,omitempty"`
	Location     *models.GeoPoint `json:"location,omitempty"`
	Phone        string           `json:"phone,omitempty"`
}

// UpsertUser creates the user if the clerk id is unknown, otherwise updates
// the existing record.
func (s *UserService) UpsertUser(req UpsertUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByClerkID(req.ClerkID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, unexpected("failed to resolve user", err)
	}

	if user == nil {
		user = &models.User{
			ClerkID:  req.ClerkID,
			UserType: models.UserTypeBuyer,
			IsActive: true,
			SellerStats: models.SellerStats{
				Rating: 5.0,
			},
		}
	}

	user.Email = req.Email
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	if req.UserType != "" {
		user.UserType = req.UserType
	}
	if req.BusinessName != "" {
		user.BusinessName = req.BusinessName
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Location != nil {
		user.Location = *req.Location
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}

	// Validated on the merged state: an existing seller keeps their stored
	// business name when the request omits it.
	if user.UserType == models.UserTypeSeller && user.BusinessName == "" {
		return nil, validationf("business name is required for sellers")
	}

	if user.ID == "" {
		err = s.userRepo.Create(user)
	} else {
		err = s.userRepo.Update(user)
	}
	if err != nil {
		return nil, unexpected("failed to save user", err)
	}
	return user, nil
}

// GetByClerkID retrieves a user by their external identity id.
func (s *UserService) GetByClerkID(clerkID string) (*models.User, error) {
	user, err := s.userRepo.GetByClerkID(clerkID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundf("user not found")
		}
		return nil, unexpected("failed to get user", err)
	}
	return user, nil
}

// UpdateLocation updates a user's address and/or coordinates.
func (s *UserService) UpdateLocation(clerkID string, address *models.Address, coordinates *models.GeoPoint) (*models.User, error) {
	user, err := s.GetByClerkID(clerkID)
	if err != nil {
		return nil, err
	}

	if address != nil {
		user.Address = *address
	}
	if coordinates != nil {
		user.Location = *coordinates
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, unexpected("failed to update user location", err)
	}
	return user, nil
}

// SyncFromIdentity upserts the local record for a user.created or
// user.updated identity-provider event.
func (s *UserService) SyncFromIdentity(clerkID, email, firstName, lastName string) (*models.User, error) {
	if email == "" {
		return nil, validationf("no email address found")
	}
	user, err := s.UpsertUser(UpsertUserRequest{
		ClerkID:   clerkID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("clerk_id", clerkID).Str("email", email).Msg("user synced from identity provider")
	return user, nil
}

// DeleteByClerkID removes the local record for a user.deleted event. A
// missing record is not an error: the deletion is idempotent.
func (s *UserService) DeleteByClerkID(clerkID string) error {
	err := s.userRepo.DeleteByClerkID(clerkID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return unexpected("failed to delete user", err)
	}
	if err == nil {
		log.Info().Str("clerk_id", clerkID).Msg("user deleted via identity provider")
	}
	return nil
}
