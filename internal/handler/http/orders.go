package http

import (
	"log/slog"
	"net/http"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/orders"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/httputil"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/pagination"
)

// OrdersHandler serves the order history page.
type OrdersHandler struct {
	orders   *orders.Service
	sessions session.Store
	logger   *slog.Logger
}

// NewOrdersHandler creates an orders HTTP handler.
func NewOrdersHandler(svc *orders.Service, sessions session.Store, logger *slog.Logger) *OrdersHandler {
	return &OrdersHandler{orders: svc, sessions: sessions, logger: logger}
}

// History handles GET /api/orders.
func (h *OrdersHandler) History(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	result, err := h.orders.History(r.Context(), sess, pagination.FromRequest(r))
	if err != nil {
		writeError(w, r, err, h.sessions, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
