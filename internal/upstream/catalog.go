package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/domain"
)

// Products fetches the filtered product listing. rawQuery is a pre-encoded
// query string built by the catalog package.
func (c *Client) Products(ctx context.Context, rawQuery string) ([]domain.Product, error) {
	path := "/products/"
	if rawQuery != "" {
		path += "?" + rawQuery
	}

	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, path, "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches a single product with its reviews inlined.
func (c *Client) Product(ctx context.Context, id int) (*domain.Product, error) {
	var product domain.Product
	path := "/products/products/" + strconv.Itoa(id) + "/"
	if err := c.do(ctx, http.MethodGet, path, "", nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// HomeProducts fetches the curated landing page selection.
func (c *Client) HomeProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/home/", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductsBySection fetches products for a storefront section ("women" or
// "men"), optionally narrowed to a category name.
func (c *Client) ProductsBySection(ctx context.Context, section, category string) ([]domain.Product, error) {
	path := "/products/type/" + url.PathEscape(section) + "/"
	if category != "" {
		path += url.PathEscape(category) + "/"
	}

	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, path, "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Categories fetches all categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.do(ctx, http.MethodGet, "/products/crud/categories/", "", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CategoriesBySection fetches the categories under a storefront section.
func (c *Client) CategoriesBySection(ctx context.Context, section string) ([]domain.Category, error) {
	var categories []domain.Category
	path := "/products/categories/type/" + url.PathEscape(section) + "/"
	if err := c.do(ctx, http.MethodGet, path, "", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
