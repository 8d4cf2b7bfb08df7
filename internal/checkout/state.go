package checkout

import (
	"sync"
	"time"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/cart"
)

// State is one node of the checkout state machine.
type State string

const (
	// StateLoading: the cart snapshot is being fetched.
	StateLoading State = "loading"

	// StateCartError: the cart snapshot could not be fetched; checkout
	// cannot start.
	StateCartError State = "cart_error"

	// StateReady: the snapshot is loaded and the form can be submitted.
	StateReady State = "ready"

	// StateSubmitting: the order is being created upstream.
	StateSubmitting State = "submitting"

	// StateAwaitingPayment: a card payment intent exists and is being
	// confirmed with the provider.
	StateAwaitingPayment State = "awaiting_payment_confirmation"

	// StateConfirming: the provider confirmed the card; the upstream is
	// being told to mark the order paid.
	StateConfirming State = "confirming_with_server"

	// StateSuccess: the order is placed (and paid, on the card path).
	StateSuccess State = "success"

	// StateFailed: the attempt failed; the form stays filled and the
	// shopper may retry.
	StateFailed State = "failed"
)

// Attempt is one run through the checkout flow. Items and Total are frozen
// when the attempt begins; later cart changes do not affect a submitted
// order. The attempt is shared between requests, so state moves only
// through transition and claimSubmit, which serialize access.
type Attempt struct {
	mu sync.Mutex

	ID    string          `json:"id"`
	State State           `json:"state"`
	Items []cart.LineItem `json:"items"`
	Total float64         `json:"total"`

	// Set once the order exists upstream.
	OrderID int `json:"order_id,omitempty"`

	// Card path only.
	PaymentIntentID string `json:"payment_intent_id,omitempty"`

	// Shopper-facing outcome.
	Message       string        `json:"message,omitempty"`
	FailureReason string        `json:"failure_reason,omitempty"`
	RedirectTo    string        `json:"redirect_to,omitempty"`
	RedirectAfter time.Duration `json:"redirect_after,omitempty"`

	// Transitions records the states the attempt passed through, in order.
	Transitions []State `json:"transitions"`
}

// transition moves the attempt to the next state and records it.
func (a *Attempt) transition(next State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.State = next
	a.Transitions = append(a.Transitions, next)
}

// claimSubmit atomically takes a submittable attempt into StateSubmitting.
// It returns false when the attempt is already being driven by another
// request or has reached a terminal success, so a double-click cannot
// place two orders.
func (a *Attempt) claimSubmit() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.State != StateReady && a.State != StateFailed {
		return false
	}
	a.State = StateSubmitting
	a.Transitions = append(a.Transitions, StateSubmitting)
	return true
}

// Empty reports whether the frozen snapshot has no items.
func (a *Attempt) Empty() bool {
	return len(a.Items) == 0
}
