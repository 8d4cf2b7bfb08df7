package mock

import (
	"context"
	"strings"
	"time"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/checkout/provider"
)

// DeclineCardNumber triggers a declined confirmation, for development and
// tests.
const DeclineCardNumber = "4000000000000002"

// Provider is a mock card provider. Every confirmation succeeds except the
// well-known decline card number.
type Provider struct{}

// NewProvider creates a new mock card provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "mock"
}

// ConfirmPayment simulates confirming a payment intent.
func (p *Provider) ConfirmPayment(_ context.Context, input *provider.ConfirmInput) (*provider.ConfirmResult, error) {
	// Simulate a small processing delay.
	time.Sleep(50 * time.Millisecond)

	if strings.ReplaceAll(input.Card.Number, " ", "") == DeclineCardNumber {
		return &provider.ConfirmResult{
			PaymentIntentID: input.PaymentIntentID,
			Status:          "failed",
			FailureReason:   "card declined",
		}, nil
	}

	return &provider.ConfirmResult{
		PaymentIntentID: input.PaymentIntentID,
		Status:          "succeeded",
	}, nil
}
