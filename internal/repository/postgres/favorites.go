package postgres

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/almajid/internal/models"
)

type favoriteRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *gorm.DB, logger *zap.Logger) *favoriteRepository {
	return &favoriteRepository{db: db, logger: logger}
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userIdentifier string) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := r.db.WithContext(ctx).
		Preload("Product.Category").
		Where("user_identifier = ?", userIdentifier).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, translate(err, "favorite", userIdentifier)
	}
	return favorites, nil
}

func (r *favoriteRepository) Find(ctx context.Context, userIdentifier string, productID uuid.UUID) (*models.Favorite, error) {
	var favorite models.Favorite
	err := r.db.WithContext(ctx).
		Where("user_identifier = ? AND product_id = ?", userIdentifier, productID).
		First(&favorite).Error
	if err != nil {
		return nil, translate(err, "favorite", productID.String())
	}
	return &favorite, nil
}

func (r *favoriteRepository) Add(ctx context.Context, userIdentifier string, productID uuid.UUID) (*models.Favorite, error) {
	favorite := models.Favorite{UserIdentifier: userIdentifier, ProductID: productID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_identifier"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Omit("Product").
		Create(&favorite).Error
	if err != nil {
		return nil, translate(err, "favorite", productID.String())
	}
	return r.Find(ctx, userIdentifier, productID)
}

func (r *favoriteRepository) Remove(ctx context.Context, userIdentifier string, productID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_identifier = ? AND product_id = ?", userIdentifier, productID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return false, translate(res.Error, "favorite", productID.String())
	}
	return res.RowsAffected > 0, nil
}
