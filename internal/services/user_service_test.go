package services_test

import (
	"testing"

	"bookmarket/internal/models"
	"bookmarket/internal/repositories"
	"bookmarket/internal/services"

	"github.com/stretchr/testify/assert"
)

func newUserService() (*services.UserService, *repositories.MockUserRepository) {
	userRepo := repositories.NewMockUserRepository()
	return services.NewUserService(userRepo), userRepo
}

func TestUserService_UpsertUser_CreatesBuyerByDefault(t *testing.T) {
	service, _ := newUserService()

	user, err := service.UpsertUser(services.UpsertUserRequest{
		ClerkID: "clerk-new",
		Email:   "new@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.UserTypeBuyer, user.UserType)
	assert.True(t, user.IsActive)
	assert.Equal(t, 5.0, user.SellerStats.Rating)
}

func TestUserService_UpsertUser_SellerRequiresBusinessName(t *testing.T) {
	service, _ := newUserService()

	_, err := service.UpsertUser(services.UpsertUserRequest{
		ClerkID:  "clerk-seller-new",
		Email:    "seller@example.com",
		UserType: models.UserTypeSeller,
	})

	assert.Error(t, err)
	assert.Equal(t, services.KindValidation, services.KindOf(err))
}

func TestUserService_UpsertUser_ExistingSellerKeepsBusinessName(t *testing.T) {
	service, _ := newUserService()

	_, err := service.UpsertUser(services.UpsertUserRequest{
		ClerkID:      "clerk-seller",
		Email:        "seller@example.com",
		UserType:     models.UserTypeSeller,
		BusinessName: "Second Story Books",
	})
	assert.NoError(t, err)

	// A later update that omits the business name must not be rejected:
	// the stored record already carries one.
	user, err := service.UpsertUser(services.UpsertUserRequest{
		ClerkID:  "clerk-seller",
		Email:    "seller-updated@example.com",
		UserType: models.UserTypeSeller,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Second Story Books", user.BusinessName)
	assert.Equal(t, "seller-updated@example.com", user.Email)
}

func TestUserService_DeleteByClerkID_Idempotent(t *testing.T) {
	service, _ := newUserService()

	_, err := service.UpsertUser(services.UpsertUserRequest{
		ClerkID: "clerk-gone",
		Email:   "gone@example.com",
	})
	assert.NoError(t, err)

	assert.NoError(t, service.DeleteByClerkID("clerk-gone"))
	assert.NoError(t, service.DeleteByClerkID("clerk-gone"), "repeat deletion is not an error")
}
