// Package checkout drives the order placement state machine. The upstream
// API owns orders and payment intents; the storefront orchestrates the
// steps and reports a single coherent state to the browser.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/cart"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/checkout/provider"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/domain"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/event"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/upstream"
	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
	pkgvalidator "github.com/Ahmed-Mansy/shoe-zone-online/pkg/validator"
)

// API is the slice of the upstream client the checkout flow uses.
type API interface {
	ViewCart(ctx context.Context, token string) (*domain.CartView, error)
	CreateOrder(ctx context.Context, token string, req upstream.CreateOrderRequest) (*upstream.CreateOrderResponse, error)
	ConfirmPayment(ctx context.Context, token string, orderID int, paymentIntentID string) error
	ClearCart(ctx context.Context, token string) error
	RemoveCartItem(ctx context.Context, token string, itemID int) error
}

// Carts refreshes the cart mirror once an order empties the cart.
type Carts interface {
	Refresh(ctx context.Context, sess *session.Session) (*cart.Mirror, error)
}

// Service runs checkout attempts.
type Service struct {
	api           API
	provider      provider.Provider
	sessions      session.Store
	carts         Carts
	events        *event.Producer
	logger        *slog.Logger
	redirectDelay time.Duration
}

// NewService creates a checkout service. redirectDelay is how long the
// success screen stays up before the browser is sent to the order history.
func NewService(
	api API,
	cardProvider provider.Provider,
	sessions session.Store,
	carts Carts,
	events *event.Producer,
	logger *slog.Logger,
	redirectDelay time.Duration,
) *Service {
	return &Service{
		api:           api,
		provider:      cardProvider,
		sessions:      sessions,
		carts:         carts,
		events:        events,
		logger:        logger,
		redirectDelay: redirectDelay,
	}
}

// Begin starts a checkout attempt by freezing a snapshot of the upstream
// cart. An expired session clears the session and propagates; any other
// cart failure lands the attempt in StateCartError rather than returning
// an error, so the page can render the retry affordance.
func (s *Service) Begin(ctx context.Context, sess *session.Session) (*Attempt, error) {
	attempt := &Attempt{ID: uuid.New().String()}
	attempt.transition(StateLoading)

	view, err := s.api.ViewCart(ctx, sess.AccessToken)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindSessionExpired {
			s.expireSession(ctx, sess)
			return nil, err
		}

		attempt.transition(StateCartError)
		attempt.FailureReason = "could not load your cart, please try again"
		s.logger.WarnContext(ctx, "checkout cart load failed",
			slog.String("attempt_id", attempt.ID),
			slog.String("error", err.Error()),
		)
		return attempt, nil
	}

	attempt.Items = cart.LinesFromView(view)
	// The frozen total is the sum of the frozen lines, not the view's own
	// total field, so what the shopper confirms is exactly what is ordered.
	for _, item := range attempt.Items {
		attempt.Total += item.LineTotal()
	}
	attempt.transition(StateReady)

	if attempt.Empty() {
		// Nothing to buy; the page shows a shop-now link instead of the form.
		attempt.Message = "your cart is empty"
		attempt.RedirectTo = "/products"
	}

	return attempt, nil
}

// PlaceOrder drives an attempt from StateReady to its terminal state. The
// frozen snapshot from Begin is what gets ordered; cart changes made in
// another tab after Begin do not alter the submitted totals. A failed
// attempt may be retried.
func (s *Service) PlaceOrder(ctx context.Context, sess *session.Session, attempt *Attempt, draft Draft, card *provider.Card) (*Attempt, error) {
	if attempt == nil {
		return nil, apperrors.Validation("checkout has not been started")
	}
	if attempt.Empty() {
		return attempt, apperrors.Validation("your cart is empty")
	}
	if err := pkgvalidator.Validate(draft); err != nil {
		return attempt, err
	}
	if draft.Method == MethodCard && card == nil {
		return attempt, apperrors.Validation("card details are required for card payment")
	}

	// The claim is the only gate: whichever request wins drives the attempt,
	// a concurrent duplicate is rejected here without reaching the upstream.
	if !attempt.claimSubmit() {
		return attempt, apperrors.Validation("checkout is not ready to submit")
	}

	req := upstream.CreateOrderRequest{
		ShippingAddress: draft.ShippingAddress(),
		PaymentStatus:   draft.Method,
		Items:           make([]upstream.OrderItemInput, len(attempt.Items)),
		TotalAmount:     attempt.Total,
	}
	for i, item := range attempt.Items {
		req.Items[i] = upstream.OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	resp, err := s.api.CreateOrder(ctx, sess.AccessToken, req)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindSessionExpired {
			s.expireSession(ctx, sess)
			return attempt, err
		}
		return s.fail(ctx, attempt, err)
	}

	attempt.OrderID = resp.Order.ID

	if draft.Method == MethodCashOnDelivery {
		return s.completeCashOnDelivery(ctx, sess, attempt, resp)
	}
	return s.completeCardPayment(ctx, sess, attempt, resp, card)
}

// completeCashOnDelivery finishes the attempt on the cash path: the order
// already exists upstream, so all that remains is emptying the cart.
func (s *Service) completeCashOnDelivery(ctx context.Context, sess *session.Session, attempt *Attempt, resp *upstream.CreateOrderResponse) (*Attempt, error) {
	s.clearCart(ctx, sess, attempt)

	s.events.OrderPlaced(ctx, event.OrderPlacedData{
		OrderID:       attempt.OrderID,
		UserID:        sess.UserID,
		PaymentMethod: MethodCashOnDelivery,
		ItemCount:     len(attempt.Items),
		TotalAmount:   attempt.Total,
	})

	attempt.Message = resp.Message
	if attempt.Message == "" {
		attempt.Message = "Order created with Cash on Delivery."
	}
	s.succeed(ctx, attempt)
	return attempt, nil
}

// completeCardPayment finishes the attempt on the card path: confirm the
// intent with the provider, then report the confirmation upstream. The
// upstream is only told about payments the provider actually accepted.
func (s *Service) completeCardPayment(ctx context.Context, sess *session.Session, attempt *Attempt, resp *upstream.CreateOrderResponse, card *provider.Card) (*Attempt, error) {
	if resp.ClientSecret == "" || resp.PaymentIntentID == "" {
		return s.fail(ctx, attempt, apperrors.PaymentFailed("the server did not issue a payment intent"))
	}

	attempt.PaymentIntentID = resp.PaymentIntentID
	attempt.transition(StateAwaitingPayment)

	result, err := s.provider.ConfirmPayment(ctx, &provider.ConfirmInput{
		ClientSecret:    resp.ClientSecret,
		PaymentIntentID: resp.PaymentIntentID,
		Card:            *card,
	})
	if err != nil {
		return s.fail(ctx, attempt, apperrors.PaymentFailed("payment could not be processed, please try again"))
	}
	if !result.Succeeded() {
		reason := result.FailureReason
		if reason == "" {
			reason = "payment was declined"
		}
		return s.fail(ctx, attempt, apperrors.PaymentFailed(reason))
	}

	attempt.transition(StateConfirming)

	if err := s.api.ConfirmPayment(ctx, sess.AccessToken, attempt.OrderID, attempt.PaymentIntentID); err != nil {
		if apperrors.KindOf(err) == apperrors.KindSessionExpired {
			s.expireSession(ctx, sess)
			return attempt, err
		}
		return s.fail(ctx, attempt, err)
	}

	s.events.PaymentConfirmed(ctx, event.PaymentConfirmedData{
		OrderID:         attempt.OrderID,
		UserID:          sess.UserID,
		PaymentIntentID: attempt.PaymentIntentID,
	})
	s.events.OrderPlaced(ctx, event.OrderPlacedData{
		OrderID:       attempt.OrderID,
		UserID:        sess.UserID,
		PaymentMethod: MethodCard,
		ItemCount:     len(attempt.Items),
		TotalAmount:   attempt.Total,
	})

	s.clearCart(ctx, sess, attempt)

	attempt.Message = "Payment confirmed successfully."
	s.succeed(ctx, attempt)
	return attempt, nil
}

// clearCart empties the upstream cart after a placed order: one bulk clear,
// then one delete per snapshot line in case the bulk call missed anything.
// Failures are logged and swallowed; a stray cart line never undoes a
// placed order.
func (s *Service) clearCart(ctx context.Context, sess *session.Session, attempt *Attempt) {
	if err := s.api.ClearCart(ctx, sess.AccessToken); err != nil {
		s.logger.WarnContext(ctx, "bulk cart clear failed, falling back to per-item delete",
			slog.String("attempt_id", attempt.ID),
			slog.String("error", err.Error()),
		)
	}

	for _, item := range attempt.Items {
		if err := s.api.RemoveCartItem(ctx, sess.AccessToken, item.ID); err != nil {
			s.logger.WarnContext(ctx, "cart item delete after order failed",
				slog.String("attempt_id", attempt.ID),
				slog.Int("item_id", item.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.events.CartCleared(ctx, event.CartClearedData{UserID: sess.UserID, Reason: "order_placed"})

	if s.carts != nil {
		// Sync the badge to the now-empty cart; best effort.
		if _, err := s.carts.Refresh(ctx, sess); err != nil {
			s.logger.WarnContext(ctx, "cart mirror refresh after order failed",
				slog.String("attempt_id", attempt.ID),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *Service) succeed(ctx context.Context, attempt *Attempt) {
	attempt.RedirectTo = "/orders"
	attempt.RedirectAfter = s.redirectDelay
	attempt.transition(StateSuccess)

	s.logger.InfoContext(ctx, "checkout succeeded",
		slog.String("attempt_id", attempt.ID),
		slog.Int("order_id", attempt.OrderID),
		slog.Float64("total", attempt.Total),
	)
}

func (s *Service) fail(ctx context.Context, attempt *Attempt, err error) (*Attempt, error) {
	attempt.FailureReason = err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		attempt.FailureReason = appErr.Message
	}
	attempt.transition(StateFailed)

	s.logger.WarnContext(ctx, "checkout failed",
		slog.String("attempt_id", attempt.ID),
		slog.String("state", string(attempt.State)),
		slog.String("reason", attempt.FailureReason),
	)

	return attempt, err
}

func (s *Service) expireSession(ctx context.Context, sess *session.Session) {
	if err := s.sessions.Clear(ctx, sess.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear expired session",
			slog.String("session_id", sess.ID),
			slog.String("error", err.Error()),
		)
	}
}
