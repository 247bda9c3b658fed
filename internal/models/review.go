package models

import "github.com/google/uuid"

// Review is a 1..5 star rating with an optional comment.
type Review struct {
	BaseModel
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product        *Product  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserIdentifier string    `gorm:"not null;index" json:"user_identifier"`
	Rating         int       `gorm:"not null;check:chk_reviews_rating,rating BETWEEN 1 AND 5" json:"rating"`
	Comment        string    `json:"comment"`
}

// MinRating and MaxRating bound Review.Rating.
const (
	MinRating = 1
	MaxRating = 5
)
