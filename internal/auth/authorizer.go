package auth

import (
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
)

// Resource names an admin console surface that can be gated per role.
type Resource string

const (
	ResourceProducts   Resource = "products"
	ResourceCategories Resource = "categories"
	ResourceOrders     Resource = "orders"
	ResourceUsers      Resource = "users"
	ResourceDashboard  Resource = "dashboard"
)

// Authorizer decides which admin resources a session may manage. The
// upstream API enforces its own permissions as well; this gate exists so the
// storefront can refuse locally and keep non-admin traffic off the admin
// proxy entirely.
type Authorizer struct {
	grants map[session.Role]map[Resource]struct{}
}

// NewAuthorizer builds the default grant table: admins manage everything,
// regular users manage nothing.
func NewAuthorizer() *Authorizer {
	all := map[Resource]struct{}{
		ResourceProducts:   {},
		ResourceCategories: {},
		ResourceOrders:     {},
		ResourceUsers:      {},
		ResourceDashboard:  {},
	}
	return &Authorizer{
		grants: map[session.Role]map[Resource]struct{}{
			session.RoleAdmin: all,
		},
	}
}

// CanManage reports whether the given role may manage the given resource.
func (a *Authorizer) CanManage(role session.Role, resource Resource) bool {
	granted, ok := a.grants[role]
	if !ok {
		return false
	}
	_, ok = granted[resource]
	return ok
}
