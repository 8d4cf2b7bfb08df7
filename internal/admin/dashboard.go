package admin

import (
	"context"
	"log/slog"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/auth"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/domain"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
)

// DashboardAPI is the slice of the upstream client the dashboard uses.
type DashboardAPI interface {
	DashboardStats(ctx context.Context, token string) (*domain.DashboardStats, error)
}

// Dashboard serves the admin dashboard aggregates.
type Dashboard struct {
	api    DashboardAPI
	authz  *auth.Authorizer
	logger *slog.Logger
}

// NewDashboard creates the admin dashboard service.
func NewDashboard(api DashboardAPI, authz *auth.Authorizer, logger *slog.Logger) *Dashboard {
	return &Dashboard{api: api, authz: authz, logger: logger}
}

// Stats fetches the dashboard aggregates for an admin session.
func (d *Dashboard) Stats(ctx context.Context, sess *session.Session) (*domain.DashboardStats, error) {
	if !d.authz.CanManage(sess.Role, auth.ResourceDashboard) {
		return nil, apperrors.Forbidden("admin access required")
	}
	return d.api.DashboardStats(ctx, sess.AccessToken)
}
