package cart

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/domain"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
)

// API is the slice of the upstream client the cart mirror uses.
type API interface {
	ViewCart(ctx context.Context, token string) (*domain.CartView, error)
	AddToCart(ctx context.Context, token string, productID, quantity int) error
	UpdateCartItem(ctx context.Context, token string, itemID, quantity int) error
	RemoveCartItem(ctx context.Context, token string, itemID int) error
}

// Service keeps the per-session cart mirror in sync with the upstream cart.
// Every mutation goes upstream first; the mirror is then rebuilt from a
// fresh snapshot so local state never leads the server.
type Service struct {
	api     API
	store   Store
	logger  *slog.Logger
	nowFunc func() time.Time
}

// NewService creates a cart mirror service.
func NewService(api API, store Store, logger *slog.Logger) *Service {
	return &Service{
		api:     api,
		store:   store,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// Mirror returns the stored snapshot for a session without going upstream.
// A session with no stored snapshot gets an empty mirror.
func (s *Service) Mirror(ctx context.Context, sessionID string) (*Mirror, error) {
	m, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return emptyMirror(s.nowFunc()), nil
		}
		return nil, err
	}
	return m, nil
}

// Refresh rebuilds the mirror from the upstream cart. An expired session
// propagates so the caller can clear it; any other failure degrades to an
// empty mirror, so the badge shows zero instead of stale counts.
func (s *Service) Refresh(ctx context.Context, sess *session.Session) (*Mirror, error) {
	view, err := s.api.ViewCart(ctx, sess.AccessToken)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindSessionExpired {
			return nil, err
		}

		s.logger.WarnContext(ctx, "cart refresh failed, serving empty mirror",
			slog.String("session_id", sess.ID),
			slog.String("error", err.Error()),
		)
		m := emptyMirror(s.nowFunc())
		s.saveMirror(ctx, sess.ID, m)
		return m, nil
	}

	m := newMirror(view, s.nowFunc())
	s.saveMirror(ctx, sess.ID, m)
	return m, nil
}

// Add puts quantity units of a product in the upstream cart and refreshes
// the mirror. Upstream rejections (e.g. stock limits) reach the caller
// with the server's message intact.
func (s *Service) Add(ctx context.Context, sess *session.Session, productID, quantity int) (*Mirror, error) {
	if productID <= 0 {
		return nil, apperrors.Validation("product id is required")
	}
	if quantity <= 0 {
		return nil, apperrors.Validation("quantity must be at least 1")
	}

	if err := s.api.AddToCart(ctx, sess.AccessToken, productID, quantity); err != nil {
		return nil, err
	}

	return s.Refresh(ctx, sess)
}

// UpdateQuantity sets the absolute quantity of a cart line and refreshes
// the mirror. Quantity zero removes the line upstream.
func (s *Service) UpdateQuantity(ctx context.Context, sess *session.Session, itemID, quantity int) (*Mirror, error) {
	if itemID <= 0 {
		return nil, apperrors.Validation("item id is required")
	}
	if quantity < 0 {
		return nil, apperrors.Validation("quantity must not be negative")
	}

	if err := s.api.UpdateCartItem(ctx, sess.AccessToken, itemID, quantity); err != nil {
		return nil, err
	}

	return s.Refresh(ctx, sess)
}

// Remove deletes a cart line and refreshes the mirror.
func (s *Service) Remove(ctx context.Context, sess *session.Session, itemID int) (*Mirror, error) {
	if itemID <= 0 {
		return nil, apperrors.Validation("item id is required")
	}

	if err := s.api.RemoveCartItem(ctx, sess.AccessToken, itemID); err != nil {
		return nil, err
	}

	return s.Refresh(ctx, sess)
}

// Forget drops the stored mirror for a session, used on logout.
func (s *Service) Forget(ctx context.Context, sessionID string) {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logger.WarnContext(ctx, "failed to drop cart mirror",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) saveMirror(ctx context.Context, sessionID string, m *Mirror) {
	if err := s.store.Save(ctx, sessionID, m); err != nil {
		// The mirror is a cache; losing a write only costs a refresh.
		s.logger.WarnContext(ctx, "failed to save cart mirror",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}
