package http

import (
	"log/slog"
	"net/http"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/httputil"
)

// writeError writes the standard error response. When the upstream reported
// the bearer token expired, the stale session is dropped from the store
// first, so the dead session ID stops resolving on the next request.
func writeError(w http.ResponseWriter, r *http.Request, err error, sessions session.Store, l *slog.Logger) {
	if apperrors.KindOf(err) == apperrors.KindSessionExpired {
		if sess, ok := session.FromContext(r.Context()); ok {
			if clearErr := sessions.Clear(r.Context(), sess.ID); clearErr != nil {
				l.WarnContext(r.Context(), "failed to clear expired session",
					slog.String("session_id", sess.ID),
					slog.String("error", clearErr.Error()),
				)
			}
		}
	}
	httputil.WriteError(w, r, err, l)
}
