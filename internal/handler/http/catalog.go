package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/catalog"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/httputil"
)

// CatalogHandler handles the public browsing endpoints. None of them need
// a session.
type CatalogHandler struct {
	catalog *catalog.Service
	logger  *slog.Logger
}

// NewCatalogHandler creates a catalog HTTP handler.
func NewCatalogHandler(svc *catalog.Service, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: svc, logger: logger}
}

// Browse handles GET /api/products with facet query parameters.
func (h *CatalogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	q := catalog.FromValues(r.URL.Query())

	products, err := h.catalog.Browse(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// Product handles GET /api/products/{id}.
func (h *CatalogHandler) Product(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// Home handles GET /api/home, the landing page's product picks.
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Home(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// Section handles GET /api/sections/{section} and
// GET /api/sections/{section}/{category}.
func (h *CatalogHandler) Section(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	category := chi.URLParam(r, "category")

	products, err := h.catalog.Section(r.Context(), section, category)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// Categories handles GET /api/categories and GET /api/categories/{section}.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")

	categories, err := h.catalog.Categories(r.Context(), section)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: categories})
}
