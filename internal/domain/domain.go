// Package domain holds the wire types exchanged with the upstream commerce
// API. Field names and JSON tags follow the upstream contract, including its
// use of floating point prices; the storefront never does money arithmetic
// beyond summing line totals for display.
package domain

import "time"

// Category is a product category scoped to a storefront section.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // "women" or "men"
}

// ProductImage is one image attached to a product.
type ProductImage struct {
	ID       int    `json:"id"`
	ImageURL string `json:"image_url"`
}

// Product is the upstream catalog representation of a product.
type Product struct {
	ID              int            `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Price           float64        `json:"price,string"`
	DiscountPrice   *float64       `json:"discount_price,string"`
	StockQuantity   int            `json:"stock_quantity"`
	Category        *Category      `json:"category"`
	Images          []ProductImage `json:"images"`
	AverageRating   *float64       `json:"average_rating"`
	Material        string         `json:"material"`
	HasDiscount     bool           `json:"has_discount"`
	AvailableSizes  []string       `json:"available_sizes"`
	AvailableColors []string       `json:"available_colors"`
	Reviews         []Review       `json:"reviews,omitempty"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

// CartLine is one line of the upstream cart as returned by the cart view
// endpoint. ID is the cart item ID; ProductID identifies the product.
type CartLine struct {
	ID            int     `json:"id"`
	ProductID     int     `json:"product_id"`
	ProductName   string  `json:"product_name"`
	ProductPrice  float64 `json:"product_price"`
	Quantity      int     `json:"quantity"`
	StockQuantity int     `json:"stock_quantity"`
	Total         float64 `json:"total"`
	ProductImage  *string `json:"product_image"`
}

// CartView is the upstream cart snapshot. An empty cart arrives as a bare
// message with no items array.
type CartView struct {
	Items      []CartLine `json:"items"`
	TotalPrice float64    `json:"total_price"`
	Message    string     `json:"message,omitempty"`
}

// Order statuses used by the upstream API.
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
)

// OrderItem is one line of a placed order.
type OrderItem struct {
	ProductID   int     `json:"product_id"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price,string"`
	ProductName string  `json:"product_name,omitempty"`
}

// Order is a placed order as returned by the upstream API.
type Order struct {
	ID              int         `json:"id"`
	User            string      `json:"user"`
	TotalPrice      float64     `json:"total_price,string"`
	Status          string      `json:"status"`
	ShippingAddress string      `json:"shipping_address"`
	IsPaid          bool        `json:"is_paid"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	PaymentStatus   string      `json:"payment_status"`
}

// Review is a customer review on a product.
type Review struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	FullName    string    `json:"full_name"`
	Product     int       `json:"product"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
	ProductName string    `json:"product_name,omitempty"`
}

// Rating is a bare 1-5 score on a product, separate from written reviews.
type Rating struct {
	ID      int    `json:"id"`
	User    string `json:"user"`
	Product int    `json:"product"`
	Score   int    `json:"score"`
}

// Profile is the upstream account representation shown on the profile page.
type Profile struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
	Country   string `json:"country"`
	IsStaff   bool   `json:"is_staff"`
	IsActive  bool   `json:"is_active"`
}

// DashboardStats is the admin dashboard aggregate.
type DashboardStats struct {
	TotalUsers  int     `json:"total_users"`
	TotalOrders int     `json:"total_orders"`
	TotalSales  float64 `json:"total_sales"`
}
