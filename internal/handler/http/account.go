// Package http wires the storefront's HTTP surface: session handling,
// per-page handlers, and the router.
package http

import (
	"log/slog"
	"net/http"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/account"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/cart"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/upstream"
	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/httputil"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/validator"
)

// AccountHandler handles sign in, sign up, and profile endpoints.
type AccountHandler struct {
	accounts *account.Service
	carts    *cart.Service
	sessions session.Store
	logger   *slog.Logger
}

// NewAccountHandler creates an account HTTP handler.
func NewAccountHandler(accounts *account.Service, carts *cart.Service, sessions session.Store, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, carts: carts, sessions: sessions, logger: logger}
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the opened session. The browser sends SessionID on
// subsequent requests via the X-Session-ID header.
type LoginResponse struct {
	SessionID string       `json:"session_id"`
	UserID    string       `json:"user_id"`
	Email     string       `json:"email"`
	Role      session.Role `json:"role"`
}

// Login handles POST /api/auth/login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: LoginResponse{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		Email:     sess.Email,
		Role:      sess.Role,
	}})
}

// Logout handles POST /api/auth/logout. The cart mirror goes with the
// session.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.accounts.Logout(r.Context(), sess.ID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.carts.Forget(r.Context(), sess.ID)

	w.WriteHeader(http.StatusNoContent)
}

// RegisterRequest is the JSON body for POST /api/auth/register.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,max=150"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Mobile    string `json:"mobile" validate:"max=20"`
	Country   string `json:"country" validate:"max=100"`
}

// Register handles POST /api/auth/register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	profile, err := h.accounts.Register(r.Context(), upstream.RegisterRequest{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Mobile:    req.Mobile,
		Country:   req.Country,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: profile})
}

// Profile handles GET /api/account/profile.
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	profile, err := h.accounts.Profile(r.Context(), sess)
	if err != nil {
		writeError(w, r, err, h.sessions, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: profile})
}

// UpdateProfileRequest is the JSON body for PUT /api/account/profile.
// All fields are optional; blank ones are left untouched upstream.
type UpdateProfileRequest struct {
	Username  string `json:"username" validate:"max=150"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Mobile    string `json:"mobile" validate:"max=20"`
	Country   string `json:"country" validate:"max=100"`
}

// UpdateProfile handles PUT /api/account/profile.
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req UpdateProfileRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	profile, err := h.accounts.UpdateProfile(r.Context(), sess, upstream.UpdateProfileRequest{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Mobile:    req.Mobile,
		Country:   req.Country,
	})
	if err != nil {
		writeError(w, r, err, h.sessions, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: profile})
}

// DeleteAccountRequest is the JSON body for POST /api/account/delete.
type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

// DeleteAccount handles POST /api/account/delete.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req DeleteAccountRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), sess, req.Password); err != nil {
		writeError(w, r, err, h.sessions, h.logger)
		return
	}
	h.carts.Forget(r.Context(), sess.ID)

	w.WriteHeader(http.StatusNoContent)
}

// PasswordResetRequest is the JSON body for POST /api/auth/password-reset.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RequestPasswordReset handles POST /api/auth/password-reset.
func (h *AccountHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.accounts.RequestPasswordReset(r.Context(), req.Email); err != nil {
		// The response is identical either way to avoid leaking which
		// emails exist; only genuine transport failures surface.
		if apperrors.KindOf(err) == apperrors.KindNetwork {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "If the email exists, a reset link has been sent."},
	})
}

// PasswordResetConfirmRequest is the body for POST /api/auth/password-reset/confirm.
type PasswordResetConfirmRequest struct {
	UID      string `json:"uid" validate:"required"`
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// ConfirmPasswordReset handles POST /api/auth/password-reset/confirm.
func (h *AccountHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetConfirmRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.accounts.ConfirmPasswordReset(r.Context(), req.UID, req.Token, req.Password); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "Password has been reset."},
	})
}
