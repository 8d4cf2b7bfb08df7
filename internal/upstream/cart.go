package upstream

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/domain"
)

// ViewCart fetches the authoritative cart snapshot. An empty cart arrives
// as a bare message with no items, which decodes to a zero-item view.
func (c *Client) ViewCart(ctx context.Context, token string) (*domain.CartView, error) {
	var view domain.CartView
	if err := c.do(ctx, http.MethodGet, "/cart/view/", token, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// AddToCart adds quantity units of a product to the cart. The upstream
// accumulates onto any existing line for the same product.
func (c *Client) AddToCart(ctx context.Context, token string, productID, quantity int) error {
	body := map[string]int{
		"product_id": productID,
		"quantity":   quantity,
	}
	return c.do(ctx, http.MethodPost, "/cart/add/", token, body, nil)
}

// UpdateCartItem sets the absolute quantity of a cart line. The upstream
// removes the line when quantity is zero.
func (c *Client) UpdateCartItem(ctx context.Context, token string, itemID, quantity int) error {
	body := map[string]int{"quantity": quantity}
	path := "/cart/item/" + strconv.Itoa(itemID) + "/"
	return c.do(ctx, http.MethodPut, path, token, body, nil)
}

// RemoveCartItem deletes one cart line.
func (c *Client) RemoveCartItem(ctx context.Context, token string, itemID int) error {
	path := "/cart/item/" + strconv.Itoa(itemID) + "/"
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

// ClearCart removes every line from the cart in one call.
func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/cart/clear/", token, nil, nil)
}
