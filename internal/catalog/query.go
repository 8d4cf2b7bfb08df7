package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// Query holds the catalog filter facets selected in the storefront sidebar.
// Facet values are normalized the way the upstream matches them: sizes
// upper-cased, colors lower-cased, multi-value facets comma-joined.
type Query struct {
	Sizes    []string
	Colors   []string
	Material string
	Search   string
	Section  string // "women" or "men"
	Category int    // category ID, 0 means all
}

// HasFacets reports whether at least one facet, search term, or scope is
// set. A completely unconstrained listing is never sent upstream.
func (q Query) HasFacets() bool {
	return len(q.Sizes) > 0 ||
		len(q.Colors) > 0 ||
		q.Material != "" ||
		q.Search != "" ||
		q.Section != "" ||
		q.Category > 0
}

// Encode renders the query as the upstream filter query string.
func (q Query) Encode() string {
	v := url.Values{}

	if len(q.Sizes) > 0 {
		sizes := make([]string, 0, len(q.Sizes))
		for _, s := range q.Sizes {
			if s = strings.TrimSpace(s); s != "" {
				sizes = append(sizes, strings.ToUpper(s))
			}
		}
		if len(sizes) > 0 {
			v.Set("size", strings.Join(sizes, ","))
		}
	}

	if len(q.Colors) > 0 {
		colors := make([]string, 0, len(q.Colors))
		for _, c := range q.Colors {
			if c = strings.TrimSpace(c); c != "" {
				colors = append(colors, strings.ToLower(c))
			}
		}
		if len(colors) > 0 {
			v.Set("color", strings.Join(colors, ","))
		}
	}

	if q.Material != "" {
		v.Set("material", q.Material)
	}
	if q.Search != "" {
		v.Set("search", strings.TrimSpace(q.Search))
	}
	if q.Section != "" {
		v.Set("type", q.Section)
	}
	if q.Category > 0 {
		v.Set("category", strconv.Itoa(q.Category))
	}

	return v.Encode()
}

// FromValues builds a Query from request query parameters. Multi-value
// facets accept both repeated parameters and comma-joined values.
func FromValues(values url.Values) Query {
	q := Query{
		Material: strings.TrimSpace(values.Get("material")),
		Search:   strings.TrimSpace(values.Get("search")),
		Section:  strings.TrimSpace(values.Get("type")),
	}

	q.Sizes = splitMulti(values["size"])
	q.Colors = splitMulti(values["color"])

	if raw := values.Get("category"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil && id > 0 {
			q.Category = id
		}
	}

	return q
}

func splitMulti(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
