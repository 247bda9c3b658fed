package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/almajid/internal/apperrors"
	"github.com/example/almajid/internal/models"
	"github.com/example/almajid/internal/repository"
)

// FavoriteService manages the favorites of a user identifier (account email
// or guest id).
type FavoriteService struct {
	favorites repository.FavoriteRepository
	products  repository.ProductRepository
	log       *zap.Logger
	onToggle  func(favorited bool)
}

// NewFavoriteService constructs a FavoriteService.
func NewFavoriteService(favorites repository.FavoriteRepository, products repository.ProductRepository, log *zap.Logger) *FavoriteService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FavoriteService{favorites: favorites, products: products, log: log}
}

// OnToggle registers a hook observing every toggle result.
func (s *FavoriteService) OnToggle(fn func(favorited bool)) {
	s.onToggle = fn
}

func requireIdentity(userIdentifier string) error {
	if strings.TrimSpace(userIdentifier) == "" {
		return &apperrors.ErrUnauthorized{Message: "missing user identity"}
	}
	return nil
}

// List returns the user's favorites, newest first, each with its product
// and category embedded.
func (s *FavoriteService) List(ctx context.Context, userIdentifier string) ([]models.Favorite, error) {
	if err := requireIdentity(userIdentifier); err != nil {
		return nil, err
	}
	return s.favorites.ListByUser(ctx, userIdentifier)
}

// IsFavorite reports whether the user has favorited productID.
func (s *FavoriteService) IsFavorite(ctx context.Context, userIdentifier string, productID uuid.UUID) (bool, error) {
	if err := requireIdentity(userIdentifier); err != nil {
		return false, err
	}
	_, err := s.favorites.Find(ctx, userIdentifier, productID)
	switch {
	case err == nil:
		return true, nil
	case apperrors.IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

// Add favorites productID. Adding twice is harmless.
func (s *FavoriteService) Add(ctx context.Context, userIdentifier string, productID uuid.UUID) (*models.Favorite, error) {
	if err := requireIdentity(userIdentifier); err != nil {
		return nil, err
	}
	if _, err := s.products.GetByID(ctx, productID, true); err != nil {
		return nil, err
	}
	return s.favorites.Add(ctx, userIdentifier, productID)
}

// Remove unfavorites productID. Removing a missing favorite is harmless.
func (s *FavoriteService) Remove(ctx context.Context, userIdentifier string, productID uuid.UUID) error {
	if err := requireIdentity(userIdentifier); err != nil {
		return err
	}
	_, err := s.favorites.Remove(ctx, userIdentifier, productID)
	return err
}

// Toggle flips the favorite state and returns the new state. It checks then
// acts in two calls, so concurrent toggles by the same user can interleave;
// a second toggle always converges.
func (s *FavoriteService) Toggle(ctx context.Context, userIdentifier string, productID uuid.UUID) (bool, error) {
	favorited, err := s.IsFavorite(ctx, userIdentifier, productID)
	if err != nil {
		return false, err
	}

	if favorited {
		err = s.Remove(ctx, userIdentifier, productID)
	} else {
		_, err = s.Add(ctx, userIdentifier, productID)
	}
	if err != nil {
		return favorited, err
	}

	s.log.Debug("favorite toggled",
		zap.String("product_id", productID.String()),
		zap.Bool("favorited", !favorited))
	if s.onToggle != nil {
		s.onToggle(!favorited)
	}
	return !favorited, nil
}
