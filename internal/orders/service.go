// Package orders serves the shopper's order history.
package orders

import (
	"context"
	"log/slog"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/domain"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/pagination"
)

// API is the slice of the upstream client the orders service uses.
type API interface {
	MyOrders(ctx context.Context, token string) ([]domain.Order, error)
}

// Service lists the shopper's past orders.
type Service struct {
	api    API
	logger *slog.Logger
}

// NewService creates an orders service.
func NewService(api API, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// History fetches the session user's orders and returns the requested page.
// The upstream endpoint always returns the full list, so paging happens here.
func (s *Service) History(ctx context.Context, sess *session.Session, params pagination.Params) (pagination.Result[domain.Order], error) {
	orders, err := s.api.MyOrders(ctx, sess.AccessToken)
	if err != nil {
		return pagination.Result[domain.Order]{}, err
	}

	total := len(orders)
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.PerPage
	if end > total {
		end = total
	}

	page := make([]domain.Order, end-start)
	copy(page, orders[start:end])

	return pagination.NewResult(page, total, params), nil
}
