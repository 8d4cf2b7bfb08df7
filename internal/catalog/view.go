package catalog

import (
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/domain"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/slug"
)

// ProductView is a product decorated with the URL slug the storefront uses
// for shareable product links.
type ProductView struct {
	domain.Product
	Slug string `json:"slug"`
}

// CategoryView is a category decorated with its navigation slug.
type CategoryView struct {
	domain.Category
	Slug string `json:"slug"`
}

func productViews(products []domain.Product) []ProductView {
	views := make([]ProductView, len(products))
	for i, p := range products {
		views[i] = ProductView{Product: p, Slug: slug.Generate(p.Name)}
	}
	return views
}

func categoryViews(categories []domain.Category) []CategoryView {
	views := make([]CategoryView, len(categories))
	for i, c := range categories {
		views[i] = CategoryView{Category: c, Slug: slug.Generate(c.Name)}
	}
	return views
}
