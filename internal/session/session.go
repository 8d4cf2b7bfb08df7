package session

import (
	"context"
	"time"
)

// Role determines which surfaces of the storefront a session may reach.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Session holds the per-browser state the storefront keeps between requests.
// The upstream API remains the source of truth for identity; the session only
// mirrors the bearer token and the claims extracted from it.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the session belongs to an admin user.
func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Store defines the interface for session persistence.
type Store interface {
	// Get retrieves a session by its ID.
	Get(ctx context.Context, id string) (*Session, error)

	// Set persists a session, overwriting any existing session with the same ID.
	Set(ctx context.Context, sess *Session) error

	// Clear removes a session from the store. Clearing a session that does
	// not exist is not an error.
	Clear(ctx context.Context, id string) error
}
