package models

import "time"

// UserType distinguishes buyers from sellers.
type UserType string

const (
	UserTypeBuyer  UserType = "buyer"
	UserTypeSeller UserType = "seller"
)

// Address is a postal address.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// BuyerPreferences holds buyer-side search preferences.
type BuyerPreferences struct {
	FavoriteSubjects []Subject `json:"favorite_subjects" gorm:"serializer:json"`
	MaxDistanceKM    float64   `json:"max_distance_km"`
}

// SellerStats are aggregate seller metrics.
type SellerStats struct {
	TotalSales  int     `json:"total_sales"`
	TotalBooks  int     `json:"total_books"`
	Rating      float64 `json:"rating" validate:"omitempty,gte=1,lte=5"`
	ReviewCount int     `json:"review_count"`
}

// User is a marketplace participant, keyed locally by a UUID and externally
// by the identity provider's clerk id.
type User struct {
	ID           string           `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ClerkID      string           `json:"clerk_id" gorm:"uniqueIndex;type:varchar(64)" validate:"required"`
	Email        string           `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	UserType     UserType         `json:"user_type" validate:"omitempty,oneof=buyer seller"`
	BusinessName string           `json:"business_name,omitempty" validate:"required_if=UserType seller"`
	Preferences  BuyerPreferences `json:"preferences" gorm:"embedded;embeddedPrefix:pref_"`
	Address      Address          `json:"address" gorm:"embedded;embeddedPrefix:addr_"`
	Location     GeoPoint         `json:"location" gorm:"embedded;embeddedPrefix:loc_"`
	Phone        string           `json:"phone,omitempty"`
	IsActive     bool             `json:"is_active"`
	SellerStats  SellerStats      `json:"seller_stats" gorm:"embedded;embeddedPrefix:stats_"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
