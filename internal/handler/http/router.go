package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminpkg "github.com/Ahmed-Mansy/shoe-zone-online/internal/admin"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/auth"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/config"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/health"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/middleware"
)

// Handlers bundles the per-page handlers the router mounts.
type Handlers struct {
	Account  *AccountHandler
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Reviews  *ReviewsHandler
	Admin    *AdminHandler
}

// NewRouter creates the storefront's chi router with the global middleware
// stack, health and metrics endpoints, and all page routes.
func NewRouter(
	cfg *config.Config,
	h Handlers,
	adminProxy *adminpkg.Proxy,
	sessions session.Store,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack (applied in order).
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Environment:    cfg.Environment,
	}))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints (no auth required).
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(SessionLoader(sessions, logger))

		// Public browsing.
		r.Get("/home", h.Catalog.Home)
		r.Get("/products", h.Catalog.Browse)
		r.Get("/products/{id}", h.Catalog.Product)
		r.Get("/products/{id}/reviews", h.Reviews.List)
		r.Get("/sections/{section}", h.Catalog.Section)
		r.Get("/sections/{section}/{category}", h.Catalog.Section)
		r.Get("/categories", h.Catalog.Categories)
		r.Get("/categories/{section}", h.Catalog.Categories)

		// Account entry points.
		r.Post("/auth/login", h.Account.Login)
		r.Post("/auth/register", h.Account.Register)
		r.Post("/auth/password-reset", h.Account.RequestPasswordReset)
		r.Post("/auth/password-reset/confirm", h.Account.ConfirmPasswordReset)

		// Everything below needs a session.
		r.Group(func(r chi.Router) {
			r.Use(RequireSession(logger))

			r.Post("/auth/logout", h.Account.Logout)
			r.Get("/account/profile", h.Account.Profile)
			r.Put("/account/profile", h.Account.UpdateProfile)
			r.Post("/account/delete", h.Account.DeleteAccount)

			r.Get("/cart", h.Cart.Mirror)
			r.Post("/cart/refresh", h.Cart.Refresh)
			r.Post("/cart/items", h.Cart.AddItem)
			r.Put("/cart/items/{id}", h.Cart.UpdateItem)
			r.Delete("/cart/items/{id}", h.Cart.RemoveItem)

			r.Get("/checkout", h.Checkout.Attempt)
			r.Post("/checkout", h.Checkout.Begin)
			r.Post("/checkout/submit", h.Checkout.Submit)

			r.Get("/orders", h.Orders.History)

			r.Post("/products/{id}/reviews", h.Reviews.Create)
			r.Post("/products/{id}/ratings", h.Reviews.Rate)
			r.Delete("/reviews/{id}", h.Reviews.Delete)
		})

		// Admin console.
		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin(logger))

			r.Get("/dashboard", h.Admin.Dashboard)

			r.Handle("/products/*", adminProxy.Handler(auth.ResourceProducts))
			r.Handle("/categories/*", adminProxy.Handler(auth.ResourceCategories))
			r.Handle("/orders/*", adminProxy.Handler(auth.ResourceOrders))
			r.Handle("/users/*", adminProxy.Handler(auth.ResourceUsers))
		})
	})

	return r
}
