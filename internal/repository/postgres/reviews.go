package postgres

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/almajid/internal/models"
	"github.com/example/almajid/internal/repository"
)

type reviewRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB, logger *zap.Logger) *reviewRepository {
	return &reviewRepository{db: db, logger: logger}
}

const recomputeRatingQuery = `
	UPDATE products SET
		average_rating = (SELECT ROUND(AVG(rating)::numeric, 2) FROM reviews WHERE product_id = @id),
		review_count = (SELECT COUNT(*) FROM reviews WHERE product_id = @id),
		updated_at = NOW()
	WHERE id = @id
`

// recompute refreshes the derived rating columns of a product inside tx.
func recompute(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Exec(recomputeRatingQuery, map[string]interface{}{"id": productID}).Error
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, translate(err, "review", productID.String())
	}
	return reviews, nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, translate(err, "review", id.String())
	}
	return &review, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Product").Create(review).Error; err != nil {
			return err
		}
		return recompute(tx, review.ProductID)
	})
	return translate(err, "review", review.ProductID.String())
}

func (r *reviewRepository) Update(ctx context.Context, id uuid.UUID, rating int, comment string) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, "id = ?", id).Error; err != nil {
			return err
		}
		review.Rating = rating
		review.Comment = comment
		if err := tx.Model(&review).Select("rating", "comment", "updated_at").Updates(&review).Error; err != nil {
			return err
		}
		return recompute(tx, review.ProductID)
	})
	if err != nil {
		return nil, translate(err, "review", id.String())
	}
	return &review, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return recompute(tx, review.ProductID)
	})
	return translate(err, "review", id.String())
}

func (r *reviewRepository) Summary(ctx context.Context, productID uuid.UUID) (repository.RatingSummary, error) {
	var rows []struct {
		Rating int
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return repository.RatingSummary{}, translate(err, "review", productID.String())
	}

	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.Rating] = row.Count
	}
	return repository.BuildRatingSummary(counts), nil
}
