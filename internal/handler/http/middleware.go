package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/httputil"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/logger"
)

// sessionID pulls the session ID from the X-Session-ID header, falling back
// to a bearer Authorization header for API clients.
func sessionID(r *http.Request) string {
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// SessionLoader resolves the request's session from the store and places it
// in the context. Requests without a session pass through; handlers that
// need one use RequireSession.
func SessionLoader(store session.Store, l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessionID(r)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := store.Get(r.Context(), id)
			if err != nil {
				// An unknown or swept session ID behaves like no session.
				next.ServeHTTP(w, r)
				return
			}

			ctx := session.NewContext(r.Context(), sess)
			ctx = logger.WithSessionID(ctx, sess.ID)
			ctx = logger.WithUserID(ctx, sess.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests that did not resolve a session, steering
// the browser to the login page.
func RequireSession(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := session.FromContext(r.Context()); !ok {
				httputil.WriteError(w, r, apperrors.SessionExpired(""), l)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects sessions that do not carry the admin role. It
// implies RequireSession.
func RequireAdmin(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok {
				httputil.WriteError(w, r, apperrors.SessionExpired(""), l)
				return
			}
			if !sess.IsAdmin() {
				httputil.WriteError(w, r, apperrors.Forbidden("admin access required"), l)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
