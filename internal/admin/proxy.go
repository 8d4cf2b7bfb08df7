// Package admin serves the admin console: CRUD surfaces proxied to the
// upstream API plus a typed dashboard. Access is gated locally by role so
// non-admin traffic never reaches the upstream admin endpoints.
package admin

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/auth"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
	pkghttputil "github.com/Ahmed-Mansy/shoe-zone-online/pkg/httputil"
)

// resourcePrefixes maps each admin resource to its upstream path prefix.
// Categories live under the product service's CRUD tree upstream.
var resourcePrefixes = map[auth.Resource]string{
	auth.ResourceProducts:   "/products/crud",
	auth.ResourceCategories: "/products/crud/categories",
	auth.ResourceOrders:     "/orders/crud",
	auth.ResourceUsers:      "/users/crud",
}

// Proxy forwards admin CRUD traffic to the upstream API, rewriting the
// console path to the upstream's layout and attaching the session's token.
type Proxy struct {
	authz  *auth.Authorizer
	proxy  *httputil.ReverseProxy
	logger *slog.Logger
}

// NewProxy creates an admin proxy targeting the given upstream base URL.
func NewProxy(baseURL string, authz *auth.Authorizer, logger *slog.Logger) (*Proxy, error) {
	target, err := url.Parse(baseURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "invalid admin upstream URL")
	}

	rp := httputil.NewSingleHostReverseProxy(target)
	rp.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("admin proxy error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"code":"BAD_GATEWAY","message":"admin upstream unavailable"}`))
	}

	return &Proxy{authz: authz, proxy: rp, logger: logger}, nil
}

// Handler returns a handler for one admin resource. It requires an admin
// session, rewrites the console path onto the upstream prefix, and proxies.
func (p *Proxy) Handler(resource auth.Resource) http.Handler {
	prefix, ok := resourcePrefixes[resource]
	if !ok {
		p.logger.Error("no upstream prefix for admin resource", slog.String("resource", string(resource)))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pkghttputil.WriteError(w, r, apperrors.NotFound("resource", string(resource)), p.logger)
		})
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		if !ok {
			pkghttputil.WriteError(w, r, apperrors.SessionExpired(""), p.logger)
			return
		}
		if !p.authz.CanManage(sess.Role, resource) {
			p.logger.Warn("admin access denied",
				slog.String("user_id", sess.UserID),
				slog.String("resource", string(resource)),
			)
			pkghttputil.WriteError(w, r, apperrors.Forbidden("admin access required"), p.logger)
			return
		}

		rest := chi.URLParam(r, "*")
		r.URL.Path = prefix + "/" + strings.TrimPrefix(rest, "/")
		r.Header.Set("Authorization", "Bearer "+sess.AccessToken)

		p.proxy.ServeHTTP(w, r)
	})
}
