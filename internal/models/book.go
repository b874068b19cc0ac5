package models

import "time"

// Subject is the academic subject a book belongs to.
type Subject string

const (
	SubjectScience     Subject = "Science"
	SubjectGeography   Subject = "Geography"
	SubjectMathematics Subject = "Mathematics"
	SubjectHistory     Subject = "History"
	SubjectLiterature  Subject = "Literature"
	SubjectOther       Subject = "Other"
)

// Condition describes the physical state of a used book.
type Condition string

const (
	ConditionNew     Condition = "New"
	ConditionLikeNew Condition = "Like New"
	ConditionGood    Condition = "Good"
	ConditionFair    Condition = "Fair"
	ConditionPoor    Condition = "Poor"
)

// Book represents a listing in the marketplace. Quantity is the live stock;
// OriginalQuantity is a snapshot of the initial stock and never changes.
// Available must always equal Quantity > 0 after any mutation.
type Book struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title            string    `json:"title" validate:"required"`
	Author           string    `json:"author" validate:"required"`
	ISBN             string    `json:"isbn,omitempty"`
	Description      string    `json:"description" validate:"required"`
	Subject          Subject   `json:"subject" gorm:"index" validate:"required,oneof=Science Geography Mathematics History Literature Other"`
	Condition        Condition `json:"condition" gorm:"index" validate:"required,oneof=New 'Like New' Good Fair Poor"`
	Price            float64   `json:"price" gorm:"index" validate:"gte=0"`
	Quantity         int       `json:"quantity" gorm:"index" validate:"gte=0"`
	OriginalQuantity int       `json:"original_quantity" validate:"gte=1"`
	Images           []string  `json:"images" gorm:"serializer:json"`
	SellerID         string    `json:"seller_id" gorm:"index;type:varchar(36)" validate:"required"`
	Available        bool      `json:"available" gorm:"index"`
	Location         GeoPoint  `json:"location" gorm:"embedded;embeddedPrefix:loc_"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ReduceQuantity decrements stock by amount. It declines (returns false)
// when amount exceeds the current quantity and leaves the book untouched.
// Persistence is the caller's responsibility.
func (b *Book) ReduceQuantity(amount int) bool {
	if amount > b.Quantity {
		return false
	}
	b.Quantity -= amount
	b.Available = b.Quantity > 0
	return true
}

// IncreaseQuantity increments stock by amount unconditionally. Restocking
// beyond OriginalQuantity is allowed.
func (b *Book) IncreaseQuantity(amount int) {
	b.Quantity += amount
	b.Available = true
}
