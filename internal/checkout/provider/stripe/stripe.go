// Package stripe confirms payment intents against the Stripe API. It
// performs the same confirm call Stripe.js makes from the browser: the
// publishable key plus the intent's client secret, with the card details
// sent as payment method data.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/checkout/provider"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/httpclient"
)

const apiBaseURL = "https://api.stripe.com/v1"

// Provider confirms payment intents with Stripe.
type Provider struct {
	publishableKey string
	baseURL        string
	http           *httpclient.Client
	logger         *slog.Logger
}

// NewProvider creates a Stripe card provider using the given publishable
// key.
func NewProvider(publishableKey string, client *httpclient.Client, logger *slog.Logger) *Provider {
	return &Provider{
		publishableKey: publishableKey,
		baseURL:        apiBaseURL,
		http:           client,
		logger:         logger,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "stripe"
}

// intentResponse is the slice of Stripe's payment intent object the
// storefront reads.
type intentResponse struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	LastPaymentError *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"last_payment_error"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// ConfirmPayment confirms a payment intent with the shopper's card.
// Declines come back as a failed result, not an error; errors are reserved
// for transport failures.
func (p *Provider) ConfirmPayment(ctx context.Context, input *provider.ConfirmInput) (*provider.ConfirmResult, error) {
	form := url.Values{}
	form.Set("key", p.publishableKey)
	form.Set("client_secret", input.ClientSecret)
	form.Set("payment_method_data[type]", "card")
	form.Set("payment_method_data[card][number]", strings.ReplaceAll(input.Card.Number, " ", ""))
	form.Set("payment_method_data[card][exp_month]", strconv.Itoa(input.Card.ExpMonth))
	form.Set("payment_method_data[card][exp_year]", strconv.Itoa(input.Card.ExpYear))
	form.Set("payment_method_data[card][cvc]", input.Card.CVC)
	if input.Card.Holder != "" {
		form.Set("payment_method_data[billing_details][name]", input.Card.Holder)
	}

	endpoint := fmt.Sprintf("%s/payment_intents/%s/confirm", p.baseURL, input.PaymentIntentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build stripe confirm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("stripe confirm: %w", err)
	}
	defer resp.Body.Close()

	var intent intentResponse
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("decode stripe confirm response: %w", err)
	}

	if intent.Error != nil {
		p.logger.WarnContext(ctx, "stripe rejected confirmation",
			slog.String("payment_intent_id", input.PaymentIntentID),
			slog.String("code", intent.Error.Code),
		)
		return &provider.ConfirmResult{
			PaymentIntentID: input.PaymentIntentID,
			Status:          "failed",
			FailureReason:   intent.Error.Message,
		}, nil
	}

	result := &provider.ConfirmResult{
		PaymentIntentID: intent.ID,
		Status:          "failed",
	}
	if result.PaymentIntentID == "" {
		result.PaymentIntentID = input.PaymentIntentID
	}

	if intent.Status == "succeeded" || intent.Status == "requires_capture" {
		result.Status = "succeeded"
		return result, nil
	}

	if intent.LastPaymentError != nil {
		result.FailureReason = intent.LastPaymentError.Message
	}
	if result.FailureReason == "" {
		result.FailureReason = "payment was not completed (status " + intent.Status + ")"
	}
	return result, nil
}
