package models

import "github.com/google/uuid"

// Favorite links a user identifier (account email or guest token) to a product.
// At most one row exists per (user_identifier, product_id).
type Favorite struct {
	BaseModel
	UserIdentifier string    `gorm:"not null;uniqueIndex:idx_favorites_owner_product,priority:1" json:"user_identifier"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_owner_product,priority:2" json:"product_id"`
	Product        *Product  `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty"`
}
