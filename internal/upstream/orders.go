package upstream

import (
	"context"
	"net/http"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/domain"
)

// OrderItemInput is one line of an order creation request.
type OrderItemInput struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// CreateOrderRequest is the order creation payload. PaymentStatus selects
// the payment path: "cod" for cash on delivery, "stripe" for card.
type CreateOrderRequest struct {
	ShippingAddress string           `json:"shipping_address"`
	PaymentStatus   string           `json:"payment_status"`
	Items           []OrderItemInput `json:"items"`
	TotalAmount     float64          `json:"total_amount"`
}

// CreateOrderResponse is the order creation result. ClientSecret and
// PaymentIntentID are only present on the card path.
type CreateOrderResponse struct {
	Order           domain.Order `json:"order"`
	Message         string       `json:"message,omitempty"`
	ClientSecret    string       `json:"client_secret,omitempty"`
	PaymentIntentID string       `json:"payment_intent_id,omitempty"`
}

// CreateOrder places an order. On the card path the response carries the
// payment intent the browser confirms with the provider.
func (c *Client) CreateOrder(ctx context.Context, token string, req CreateOrderRequest) (*CreateOrderResponse, error) {
	var resp CreateOrderResponse
	if err := c.do(ctx, http.MethodPost, "/orders/create/", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ConfirmPayment reports a confirmed card payment back to the upstream,
// which verifies the intent with the provider before marking the order paid.
func (c *Client) ConfirmPayment(ctx context.Context, token string, orderID int, paymentIntentID string) error {
	body := map[string]any{
		"order_id":          orderID,
		"payment_intent_id": paymentIntentID,
	}

	var msg message
	return c.do(ctx, http.MethodPost, "/orders/confirm-payment/", token, body, &msg)
}

// MyOrders fetches the authenticated user's order history, newest first.
func (c *Client) MyOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders/my-orders/", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// DashboardStats fetches the admin dashboard aggregates.
func (c *Client) DashboardStats(ctx context.Context, token string) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/orders/admin/dashboard/", token, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
