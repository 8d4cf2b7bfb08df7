// Package provider abstracts the card payment provider used on the card
// checkout path. The upstream API creates the payment intent; the provider
// confirms it with the shopper's card details.
package provider

import "context"

// Card holds the card details collected by the checkout form. They are
// passed straight to the provider and never stored.
type Card struct {
	Number   string
	ExpMonth int
	ExpYear  int
	CVC      string
	Holder   string
}

// ConfirmInput holds the parameters for confirming a payment intent.
type ConfirmInput struct {
	ClientSecret    string
	PaymentIntentID string
	Card            Card
}

// ConfirmResult holds the provider's confirmation outcome.
type ConfirmResult struct {
	PaymentIntentID string
	Status          string // "succeeded" or "failed"
	FailureReason   string
}

// Succeeded reports whether the confirmation went through.
func (r *ConfirmResult) Succeeded() bool {
	return r.Status == "succeeded"
}

// Provider defines the interface for card payment provider integrations.
type Provider interface {
	// Name returns the provider name (e.g., "mock", "stripe").
	Name() string

	// ConfirmPayment confirms a payment intent with the shopper's card.
	ConfirmPayment(ctx context.Context, input *ConfirmInput) (*ConfirmResult, error)
}
