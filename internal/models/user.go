package models

import (
	"time"

	"gorm.io/datatypes"
)

// Roles carried by accounts.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents a registered customer or administrator.
type User struct {
	BaseModel
	Email        string            `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string            `gorm:"not null" json:"-"`
	FullName     string            `json:"full_name"`
	Phone        string            `json:"phone"`
	Role         string            `gorm:"not null;default:user" json:"role"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
}

// PasswordResetToken is a single-use token issued by a password-reset request.
type PasswordResetToken struct {
	BaseModel
	Email     string     `gorm:"index;not null" json:"email"`
	Token     string     `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`
}

// RevokedToken records a signed-out token id until the token would expire anyway.
type RevokedToken struct {
	BaseModel
	TokenID   string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"index"`
}
