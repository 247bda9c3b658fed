// Package postgres implements the repository contracts on PostgreSQL via GORM.
package postgres

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/almajid/internal/apperrors"
	"github.com/example/almajid/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *gorm.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Product:  NewProductRepository(db, logger),
		Category: NewCategoryRepository(db, logger),
		Favorite: NewFavoriteRepository(db, logger),
		Review:   NewReviewRepository(db, logger),
		User:     NewUserRepository(db, logger),
		Token:    NewTokenRepository(db, logger),
	}
}

// translate maps GORM errors onto the application taxonomy. The connection
// is opened with TranslateError so unique violations arrive as
// gorm.ErrDuplicatedKey.
func translate(err error, resource, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &apperrors.ErrNotFound{Resource: resource, ID: id}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &apperrors.ErrConflict{Message: resource + " already exists"}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &apperrors.ErrConflict{Message: resource + " references a missing record"}
	default:
		return apperrors.Remote("database", err)
	}
}
