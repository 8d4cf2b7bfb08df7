// Package cart keeps a read-through mirror of the upstream cart. The
// upstream owns the cart; the mirror exists so the header badge and the
// cart page render without a round trip, and it is refreshed after every
// mutation.
package cart

import (
	"time"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/domain"
)

// LineItem is one line of the mirrored cart.
type LineItem struct {
	ID            int     `json:"id"`
	ProductID     int     `json:"product_id"`
	ProductName   string  `json:"product_name"`
	UnitPrice     float64 `json:"unit_price"`
	Quantity      int     `json:"quantity"`
	StockQuantity int     `json:"stock_quantity"`
	ImageURL      string  `json:"image_url,omitempty"`
}

// LineTotal returns the line's price contribution.
func (li LineItem) LineTotal() float64 {
	return li.UnitPrice * float64(li.Quantity)
}

// Mirror is the storefront's snapshot of the upstream cart. Count is the
// number of distinct lines, not the quantity sum; the header badge counts
// lines, so two units of one shoe still show a badge of 1.
type Mirror struct {
	Items       []LineItem `json:"items"`
	Count       int        `json:"count"`
	Total       float64    `json:"total"`
	RefreshedAt time.Time  `json:"refreshed_at"`
}

// Empty reports whether the mirror holds no items.
func (m *Mirror) Empty() bool {
	return len(m.Items) == 0
}

// LinesFromView maps upstream cart lines to mirror line items.
func LinesFromView(view *domain.CartView) []LineItem {
	items := make([]LineItem, 0, len(view.Items))
	for _, line := range view.Items {
		item := LineItem{
			ID:            line.ID,
			ProductID:     line.ProductID,
			ProductName:   line.ProductName,
			UnitPrice:     line.ProductPrice,
			Quantity:      line.Quantity,
			StockQuantity: line.StockQuantity,
		}
		if line.ProductImage != nil {
			item.ImageURL = *line.ProductImage
		}
		items = append(items, item)
	}
	return items
}

// newMirror builds a mirror from the upstream cart view. The total is
// recomputed from the lines rather than trusting the view's total field,
// so the rendered sum always matches the rendered lines.
func newMirror(view *domain.CartView, now time.Time) *Mirror {
	m := &Mirror{
		Items:       LinesFromView(view),
		RefreshedAt: now,
	}
	m.Count = len(m.Items)
	for _, item := range m.Items {
		m.Total += item.LineTotal()
	}
	return m
}

// emptyMirror is the zero snapshot used when the upstream cart cannot be
// read. The badge shows zero rather than stale data.
func emptyMirror(now time.Time) *Mirror {
	return &Mirror{Items: []LineItem{}, RefreshedAt: now}
}
