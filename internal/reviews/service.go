// Package reviews exposes product reviews and ratings. The upstream API
// owns the data and enforces the one-review-per-user rule; this layer
// validates input before it goes over the wire.
package reviews

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/domain"
	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
)

// API is the slice of the upstream client the reviews service uses.
type API interface {
	ProductReviews(ctx context.Context, productID int) ([]domain.Review, error)
	CreateReview(ctx context.Context, token string, productID, rating int, comment string) (*domain.Review, error)
	DeleteReview(ctx context.Context, token string, reviewID int) error
	RateProduct(ctx context.Context, token string, productID, score int) (*domain.Rating, error)
}

// Service serves product reviews and ratings.
type Service struct {
	api    API
	logger *slog.Logger
}

// NewService creates a reviews service.
func NewService(api API, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// ForProduct lists the reviews on a product. A missing reviews array is
// normalized to an empty slice.
func (s *Service) ForProduct(ctx context.Context, productID int) ([]domain.Review, error) {
	if productID <= 0 {
		return nil, apperrors.Validation("a valid product id is required")
	}

	reviews, err := s.api.ProductReviews(ctx, productID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

// Create posts a review. Rating must be 1 through 5 and the comment must
// not be blank; duplicate reviews are rejected by the upstream and surface
// as a server rejection with the upstream's message.
func (s *Service) Create(ctx context.Context, token string, productID, rating int, comment string) (*domain.Review, error) {
	if productID <= 0 {
		return nil, apperrors.Validation("a valid product id is required")
	}
	if rating < 1 || rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, apperrors.Validation("a comment is required")
	}

	review, err := s.api.CreateReview(ctx, token, productID, rating, comment)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "review created",
		slog.Int("product_id", productID),
		slog.Int("review_id", review.ID),
		slog.Int("rating", rating),
	)
	return review, nil
}

// Delete removes the caller's review. The upstream enforces ownership.
func (s *Service) Delete(ctx context.Context, token string, reviewID int) error {
	if reviewID <= 0 {
		return apperrors.Validation("a valid review id is required")
	}
	return s.api.DeleteReview(ctx, token, reviewID)
}

// Rate posts a bare 1-5 score on a product, separate from written reviews.
func (s *Service) Rate(ctx context.Context, token string, productID, score int) (*domain.Rating, error) {
	if productID <= 0 {
		return nil, apperrors.Validation("a valid product id is required")
	}
	if score < 1 || score > 5 {
		return nil, apperrors.Validation("score must be between 1 and 5")
	}
	return s.api.RateProduct(ctx, token, productID, score)
}
