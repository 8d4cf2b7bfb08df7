package upstream

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/domain"
)

// ProductReviews fetches the reviews for a product, newest first.
func (c *Client) ProductReviews(ctx context.Context, productID int) ([]domain.Review, error) {
	var reviews []domain.Review
	path := "/products/" + strconv.Itoa(productID) + "/reviews/"
	if err := c.do(ctx, http.MethodGet, path, "", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview posts a review on a product. The upstream rejects a second
// review from the same user on the same product.
func (c *Client) CreateReview(ctx context.Context, token string, productID, rating int, comment string) (*domain.Review, error) {
	body := map[string]any{
		"rating":  rating,
		"comment": comment,
	}

	var review domain.Review
	path := "/products/" + strconv.Itoa(productID) + "/reviews/"
	if err := c.do(ctx, http.MethodPost, path, token, body, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes the authenticated user's review.
func (c *Client) DeleteReview(ctx context.Context, token string, reviewID int) error {
	path := "/products/reviews/" + strconv.Itoa(reviewID) + "/"
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

// RateProduct posts a bare 1-5 score on a product.
func (c *Client) RateProduct(ctx context.Context, token string, productID, score int) (*domain.Rating, error) {
	body := map[string]int{"score": score}

	var rating domain.Rating
	path := "/products/" + strconv.Itoa(productID) + "/ratings/"
	if err := c.do(ctx, http.MethodPost, path, token, body, &rating); err != nil {
		return nil, err
	}
	return &rating, nil
}
