package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/almajid/internal/apperrors"
	"github.com/example/almajid/internal/models"
	"github.com/example/almajid/internal/repository"
)

// MaxCommentLength bounds review comments, in characters.
const MaxCommentLength = 2000

// ReviewInput is the review form.
type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (in ReviewInput) validate() error {
	fields := map[string]string{}
	if in.Rating < models.MinRating || in.Rating > models.MaxRating {
		fields["rating"] = "rating must be between 1 and 5"
	}
	if utf8.RuneCountInString(in.Comment) > MaxCommentLength {
		fields["comment"] = "comment must be at most 2000 characters"
	}
	if len(fields) > 0 {
		return &apperrors.ErrValidation{Message: "invalid review", Fields: fields}
	}
	return nil
}

// ReviewService manages product reviews. The product's derived rating
// columns are refreshed by the repository in the same transaction as each
// write.
type ReviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	log      *zap.Logger
}

// NewReviewService constructs a ReviewService.
func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository, log *zap.Logger) *ReviewService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReviewService{reviews: reviews, products: products, log: log}
}

// List returns a product's reviews, newest first.
func (s *ReviewService) List(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	return s.reviews.ListByProduct(ctx, productID)
}

// Summary returns the rating summary of a product.
func (s *ReviewService) Summary(ctx context.Context, productID uuid.UUID) (repository.RatingSummary, error) {
	return s.reviews.Summary(ctx, productID)
}

// Create records a review of an available product.
func (s *ReviewService) Create(ctx context.Context, productID uuid.UUID, userIdentifier string, in ReviewInput) (*models.Review, error) {
	if err := requireIdentity(userIdentifier); err != nil {
		return nil, err
	}
	in.Comment = strings.TrimSpace(in.Comment)
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.products.GetByID(ctx, productID, false); err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID:      productID,
		UserIdentifier: userIdentifier,
		Rating:         in.Rating,
		Comment:        in.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	s.log.Info("review created", zap.String("product_id", productID.String()), zap.Int("rating", in.Rating))
	return review, nil
}

// Update changes a review. Only its author may do so.
func (s *ReviewService) Update(ctx context.Context, id uuid.UUID, userIdentifier string, in ReviewInput) (*models.Review, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserIdentifier != userIdentifier {
		return nil, &apperrors.ErrForbidden{Message: "only the author can edit this review"}
	}
	return s.reviews.Update(ctx, id, in.Rating, in.Comment)
}

// Delete removes a review. The author and administrators may do so.
func (s *ReviewService) Delete(ctx context.Context, id uuid.UUID, userIdentifier string, isAdmin bool) error {
	existing, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && existing.UserIdentifier != userIdentifier {
		return &apperrors.ErrForbidden{Message: "only the author can delete this review"}
	}
	return s.reviews.Delete(ctx, id)
}
