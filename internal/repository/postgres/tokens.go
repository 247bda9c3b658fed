package postgres

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/almajid/internal/models"
)

type tokenRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *gorm.DB, logger *zap.Logger) *tokenRepository {
	return &tokenRepository{db: db, logger: logger}
}

func (r *tokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Rows past their expiry are useless; prune them on the way.
		if err := tx.Where("expires_at < ?", time.Now()).Delete(&models.RevokedToken{}).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.RevokedToken{TokenID: tokenID, ExpiresAt: expiresAt}).Error
	})
	return translate(err, "token", tokenID)
}

func (r *tokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RevokedToken{}).
		Where("token_id = ?", tokenID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "token", tokenID)
	}
	return count > 0, nil
}

func (r *tokenRepository) CreateReset(ctx context.Context, token *models.PasswordResetToken) error {
	return translate(r.db.WithContext(ctx).Create(token).Error, "password reset token", token.Email)
}

func (r *tokenRepository) ConsumeReset(ctx context.Context, token string, now time.Time) (*models.PasswordResetToken, error) {
	var reset models.PasswordResetToken
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ? AND used_at IS NULL AND expires_at > ?", token, now).
			First(&reset).Error
		if err != nil {
			return err
		}
		reset.UsedAt = &now
		return tx.Model(&reset).Update("used_at", now).Error
	})
	if err != nil {
		return nil, translate(err, "password reset token", "")
	}
	return &reset, nil
}
