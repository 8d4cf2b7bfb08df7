// Package account handles sign in, sign up, and profile management. The
// upstream API owns accounts and credentials; this layer exchanges
// credentials for tokens and keeps the resulting session.
package account

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/auth"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/domain"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/upstream"
	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
)

// API is the slice of the upstream client the account service uses.
type API interface {
	Login(ctx context.Context, email, password string) (*upstream.TokenPair, error)
	Register(ctx context.Context, req upstream.RegisterRequest) (*domain.Profile, error)
	Profile(ctx context.Context, token string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, token string, userID int, req upstream.UpdateProfileRequest) (*domain.Profile, error)
	DeleteAccount(ctx context.Context, token, email, password string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, uid, resetToken, newPassword string) error
}

// Service manages accounts and their sessions.
type Service struct {
	api      API
	sessions session.Store
	logger   *slog.Logger
}

// NewService creates an account service.
func NewService(api API, sessions session.Store, logger *slog.Logger) *Service {
	return &Service{api: api, sessions: sessions, logger: logger}
}

// Login exchanges credentials for a token pair upstream and opens a session.
// The role comes from the token claims, with the login response's is_staff
// flag as a fallback for tokens that omit the claim.
func (s *Service) Login(ctx context.Context, email, password string) (*session.Session, error) {
	if email == "" || password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	pair, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	role := session.RoleUser
	userID := strconv.Itoa(pair.ID)

	identity, err := auth.DecodeToken(pair.Access)
	if err != nil {
		s.logger.WarnContext(ctx, "could not decode access token claims",
			slog.String("error", err.Error()),
		)
	} else {
		if identity.IsStaff {
			role = session.RoleAdmin
		}
		if identity.UserID != "" {
			userID = identity.UserID
		}
	}
	if pair.IsStaff {
		role = session.RoleAdmin
	}

	sess := &session.Session{
		ID:           uuid.New().String(),
		UserID:       userID,
		Email:        pair.Email,
		Role:         role,
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.sessions.Set(ctx, sess); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", sess.UserID),
		slog.String("role", string(sess.Role)),
	)
	return sess, nil
}

// Logout closes the session. The upstream tokens are simply discarded.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Clear(ctx, sessionID)
}

// Register creates a new account upstream. No session is opened; the
// account needs email activation before it can log in.
func (s *Service) Register(ctx context.Context, req upstream.RegisterRequest) (*domain.Profile, error) {
	return s.api.Register(ctx, req)
}

// Profile fetches the session user's profile.
func (s *Service) Profile(ctx context.Context, sess *session.Session) (*domain.Profile, error) {
	return s.api.Profile(ctx, sess.AccessToken)
}

// UpdateProfile updates the session user's editable profile fields.
func (s *Service) UpdateProfile(ctx context.Context, sess *session.Session, req upstream.UpdateProfileRequest) (*domain.Profile, error) {
	userID, err := strconv.Atoi(sess.UserID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.api.UpdateProfile(ctx, sess.AccessToken, userID, req)
}

// DeleteAccount deletes the account after the upstream re-checks the
// password, then closes the session.
func (s *Service) DeleteAccount(ctx context.Context, sess *session.Session, password string) error {
	if password == "" {
		return apperrors.Validation("password is required")
	}
	if err := s.api.DeleteAccount(ctx, sess.AccessToken, sess.Email, password); err != nil {
		return err
	}
	if err := s.sessions.Clear(ctx, sess.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear session after account deletion",
			slog.String("session_id", sess.ID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// RequestPasswordReset asks the upstream to email a reset link. The result
// is the same whether or not the email exists, so account presence is not
// leaked.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return apperrors.Validation("email is required")
	}
	return s.api.RequestPasswordReset(ctx, email)
}

// ConfirmPasswordReset completes a reset with the emailed token.
func (s *Service) ConfirmPasswordReset(ctx context.Context, uid, resetToken, newPassword string) error {
	if uid == "" || resetToken == "" || newPassword == "" {
		return apperrors.Validation("uid, token and password are required")
	}
	return s.api.ConfirmPasswordReset(ctx, uid, resetToken, newPassword)
}
