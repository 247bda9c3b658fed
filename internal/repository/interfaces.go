// Package repository declares the data access contracts used by the
// services. The postgres subpackage implements them with GORM.
package repository

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/almajid/internal/catalog"
	"github.com/example/almajid/internal/models"
)

// ProductStatus filters the admin product table.
type ProductStatus string

const (
	StatusAll         ProductStatus = ""
	StatusAvailable   ProductStatus = "available"
	StatusUnavailable ProductStatus = "unavailable"
	StatusFeatured    ProductStatus = "featured"
	StatusOutOfStock  ProductStatus = "out_of_stock"
)

// AdminProductFilter selects rows of the admin product table.
type AdminProductFilter struct {
	Search     string
	CategoryID *uuid.UUID
	Status     ProductStatus
	Limit      int
	Offset     int
}

// ProductStats summarizes the catalog for the admin dashboard.
type ProductStats struct {
	TotalProducts  int64           `json:"total_products"`
	TotalStock     int64           `json:"total_stock"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	Featured       int64           `json:"featured"`
	OutOfStock     int64           `json:"out_of_stock"`
	LowStock       int64           `json:"low_stock"`
}

// ProductRepository defines product data access methods.
type ProductRepository interface {
	catalog.ProductFinder
	GetByID(ctx context.Context, id uuid.UUID, includeUnavailable bool) (*models.Product, error)
	ListAdmin(ctx context.Context, filter AdminProductFilter) ([]models.Product, int64, error)
	// CountAvailable counts available products, within one category when
	// categoryID is set.
	CountAvailable(ctx context.Context, categoryID *uuid.UUID) (int64, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, lowStockThreshold int) (ProductStats, error)
}

// CategoryRepository defines category data access methods.
type CategoryRepository interface {
	catalog.CategoryLookup
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// FavoriteRepository defines favorite data access methods.
type FavoriteRepository interface {
	ListByUser(ctx context.Context, userIdentifier string) ([]models.Favorite, error)
	Find(ctx context.Context, userIdentifier string, productID uuid.UUID) (*models.Favorite, error)
	// Add inserts the pair, doing nothing when it already exists.
	Add(ctx context.Context, userIdentifier string, productID uuid.UUID) (*models.Favorite, error)
	// Remove deletes the pair and reports whether a row was removed.
	Remove(ctx context.Context, userIdentifier string, productID uuid.UUID) (bool, error)
}

// RatingBucket is one row of a rating distribution.
type RatingBucket struct {
	Rating  int     `json:"rating"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

// RatingSummary aggregates the reviews of one product. Distribution runs
// from 5 stars down to 1.
type RatingSummary struct {
	Average      float64        `json:"average"`
	Count        int64          `json:"count"`
	Distribution []RatingBucket `json:"distribution"`
}

// BuildRatingSummary derives a summary from per-rating counts. Ratings
// outside 1..5 are ignored.
func BuildRatingSummary(counts map[int]int64) RatingSummary {
	var total, weighted int64
	for r := models.MinRating; r <= models.MaxRating; r++ {
		total += counts[r]
		weighted += int64(r) * counts[r]
	}

	summary := RatingSummary{Count: total, Distribution: make([]RatingBucket, 0, models.MaxRating)}
	if total > 0 {
		summary.Average = math.Round(float64(weighted)/float64(total)*10) / 10
	}
	for r := models.MaxRating; r >= models.MinRating; r-- {
		b := RatingBucket{Rating: r, Count: counts[r]}
		if total > 0 {
			b.Percent = math.Round(float64(counts[r])/float64(total)*1000) / 10
		}
		summary.Distribution = append(summary.Distribution, b)
	}
	return summary
}

// ReviewRepository defines review data access methods. Every write also
// recomputes the product's average_rating and review_count in the same
// transaction.
type ReviewRepository interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, id uuid.UUID, rating int, comment string) (*models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context, productID uuid.UUID) (RatingSummary, error)
}

// UserRepository defines account data access methods.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// TokenRepository stores revoked access tokens and password-reset tokens.
type TokenRepository interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	CreateReset(ctx context.Context, token *models.PasswordResetToken) error
	// ConsumeReset marks an unexpired, unused reset token as used and
	// returns it.
	ConsumeReset(ctx context.Context, token string, now time.Time) (*models.PasswordResetToken, error)
}

// Repositories groups every repository the service uses.
type Repositories struct {
	Product  ProductRepository
	Category CategoryRepository
	Favorite FavoriteRepository
	Review   ReviewRepository
	User     UserRepository
	Token    TokenRepository
}
