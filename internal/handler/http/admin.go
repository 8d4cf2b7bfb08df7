package http

import (
	"log/slog"
	"net/http"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/admin"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/httputil"
)

// AdminHandler serves the admin dashboard. The CRUD surfaces are proxied
// straight to the upstream by admin.Proxy and need no handler here.
type AdminHandler struct {
	dashboard *admin.Dashboard
	logger    *slog.Logger
}

// NewAdminHandler creates an admin HTTP handler.
func NewAdminHandler(dashboard *admin.Dashboard, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{dashboard: dashboard, logger: logger}
}

// Dashboard handles GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	stats, err := h.dashboard.Stats(r.Context(), sess)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}
