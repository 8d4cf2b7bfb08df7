package catalog

import (
	"context"
	"log/slog"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/domain"
	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/slug"
)

// API is the slice of the upstream client the catalog uses.
type API interface {
	Products(ctx context.Context, rawQuery string) ([]domain.Product, error)
	Product(ctx context.Context, id int) (*domain.Product, error)
	HomeProducts(ctx context.Context) ([]domain.Product, error)
	ProductsBySection(ctx context.Context, section, category string) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	CategoriesBySection(ctx context.Context, section string) ([]domain.Category, error)
}

// Service answers catalog browsing requests against the upstream API.
type Service struct {
	api    API
	logger *slog.Logger
}

// NewService creates a catalog service.
func NewService(api API, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// Browse fetches the product listing for the given filter query. At least
// one facet, search term, or section scope is required.
func (s *Service) Browse(ctx context.Context, q Query) ([]ProductView, error) {
	if !q.HasFacets() {
		return nil, apperrors.Validation("select at least one filter, search term, or section")
	}

	products, err := s.api.Products(ctx, q.Encode())
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "catalog browse",
		slog.String("query", q.Encode()),
		slog.Int("results", len(products)),
	)

	return productViews(products), nil
}

// Product fetches a single product with reviews.
func (s *Service) Product(ctx context.Context, id int) (*ProductView, error) {
	product, err := s.api.Product(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProductView{Product: *product, Slug: slug.Generate(product.Name)}, nil
}

// Home fetches the landing page selection.
func (s *Service) Home(ctx context.Context) ([]ProductView, error) {
	products, err := s.api.HomeProducts(ctx)
	if err != nil {
		return nil, err
	}
	return productViews(products), nil
}

// Section fetches products for a storefront section, optionally narrowed
// to a category name.
func (s *Service) Section(ctx context.Context, section, category string) ([]ProductView, error) {
	if section == "" {
		return nil, apperrors.Validation("section is required")
	}
	products, err := s.api.ProductsBySection(ctx, section, category)
	if err != nil {
		return nil, err
	}
	return productViews(products), nil
}

// Categories lists all categories, or the ones under a section when given.
func (s *Service) Categories(ctx context.Context, section string) ([]CategoryView, error) {
	var (
		categories []domain.Category
		err        error
	)
	if section == "" {
		categories, err = s.api.Categories(ctx)
	} else {
		categories, err = s.api.CategoriesBySection(ctx, section)
	}
	if err != nil {
		return nil, err
	}
	return categoryViews(categories), nil
}
