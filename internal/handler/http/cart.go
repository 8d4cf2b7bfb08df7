package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/cart"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/httputil"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/validator"
)

// CartHandler handles the cart pages. Reads serve the local mirror; writes
// go upstream and refresh the mirror.
type CartHandler struct {
	carts    *cart.Service
	sessions session.Store
	logger   *slog.Logger
}

// NewCartHandler creates a cart HTTP handler.
func NewCartHandler(carts *cart.Service, sessions session.Store, logger *slog.Logger) *CartHandler {
	return &CartHandler{carts: carts, sessions: sessions, logger: logger}
}

// Mirror handles GET /api/cart. It serves the stored mirror without
// touching the upstream, so it stays fast and cannot fail the page.
func (h *CartHandler) Mirror(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	mirror, err := h.carts.Mirror(r.Context(), sess.ID)
	if err != nil {
		writeError(w, r, err, h.sessions, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: mirror})
}

// Refresh handles POST /api/cart/refresh, re-syncing the mirror from the
// upstream cart.
func (h *CartHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	mirror, err := h.carts.Refresh(r.Context(), sess)
	if err != nil {
		writeError(w, r, err, h.sessions, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: mirror})
}

// AddItemRequest is the JSON body for POST /api/cart/items.
type AddItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,gte=1"`
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	mirror, err := h.carts.Add(r.Context(), sess, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, r, err, h.sessions, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: mirror})
}

// UpdateQuantityRequest is the JSON body for PUT /api/cart/items/{id}.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// UpdateItem handles PUT /api/cart/items/{id}.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	mirror, err := h.carts.UpdateQuantity(r.Context(), sess, id, req.Quantity)
	if err != nil {
		writeError(w, r, err, h.sessions, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: mirror})
}

// RemoveItem handles DELETE /api/cart/items/{id}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	mirror, err := h.carts.Remove(r.Context(), sess, id)
	if err != nil {
		writeError(w, r, err, h.sessions, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: mirror})
}
