package http

import (
	"log/slog"
	"net/http"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/checkout"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/checkout/provider"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/httputil"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/validator"
)

// CheckoutHandler drives the checkout page. Begin freezes the cart into an
// attempt; Submit runs the attempt to a terminal state. The attempt lives
// server side between the two requests.
type CheckoutHandler struct {
	checkout *checkout.Service
	attempts *checkout.Attempts
	logger   *slog.Logger
}

// NewCheckoutHandler creates a checkout HTTP handler.
func NewCheckoutHandler(svc *checkout.Service, attempts *checkout.Attempts, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc, attempts: attempts, logger: logger}
}

// Begin handles POST /api/checkout. Starting a checkout replaces any
// previous attempt for the session.
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	attempt, err := h.checkout.Begin(r.Context(), sess)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.attempts.Put(sess.ID, attempt)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: attempt})
}

// CardRequest carries the card fields for the card payment path.
type CardRequest struct {
	Number   string `json:"number" validate:"required"`
	ExpMonth int    `json:"exp_month" validate:"required,gte=1,lte=12"`
	ExpYear  int    `json:"exp_year" validate:"required,gte=2020"`
	CVC      string `json:"cvc" validate:"required,min=3,max=4"`
	Holder   string `json:"holder" validate:"max=200"`
}

// SubmitRequest is the JSON body for POST /api/checkout/submit: the
// shipping form plus the payment method, and card details when paying by
// card.
type SubmitRequest struct {
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Email     string       `json:"email"`
	Address   string       `json:"address"`
	Apartment string       `json:"apartment"`
	City      string       `json:"city"`
	ZipCode   string       `json:"zip_code"`
	Country   string       `json:"country"`
	Method    string       `json:"payment_method"`
	Card      *CardRequest `json:"card,omitempty"`
}

// Submit handles POST /api/checkout/submit. The attempt, success or
// failure, is returned alongside any error so the page can render the
// state machine's outcome.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	attempt, err := h.attempts.Get(sess.ID)
	if err != nil {
		httputil.WriteError(w, r, apperrors.Validation("no checkout in progress, reload the checkout page"), h.logger)
		return
	}

	var req SubmitRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	draft := checkout.Draft{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Address:   req.Address,
		Apartment: req.Apartment,
		City:      req.City,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		Method:    req.Method,
	}

	var card *provider.Card
	if req.Card != nil {
		card = &provider.Card{
			Number:   req.Card.Number,
			ExpMonth: req.Card.ExpMonth,
			ExpYear:  req.Card.ExpYear,
			CVC:      req.Card.CVC,
			Holder:   req.Card.Holder,
		}
	}

	attempt, err = h.checkout.PlaceOrder(r.Context(), sess, attempt, draft, card)
	if attempt != nil {
		h.attempts.Put(sess.ID, attempt)
	}
	if err != nil {
		switch apperrors.KindOf(err) {
		case apperrors.KindPaymentFailed:
			// The attempt carries the failure detail and stays retryable.
			httputil.WriteJSON(w, http.StatusUnprocessableEntity, httputil.Response{Data: attempt})
		default:
			httputil.WriteError(w, r, err, h.logger)
		}
		return
	}

	if attempt.State == checkout.StateSuccess {
		h.attempts.Drop(sess.ID)
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: attempt})
}

// Attempt handles GET /api/checkout, returning the session's current
// attempt so a reloaded page can pick up where it left off.
func (h *CheckoutHandler) Attempt(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	attempt, err := h.attempts.Get(sess.ID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: attempt})
}
