package upstream

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/domain"
)

// TokenPair is the upstream login response: a JWT pair plus the user fields
// the login serializer inlines alongside the tokens.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	ID      int    `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsStaff bool   `json:"is_staff"`
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, "/users/login/", "", body, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Mobile    string `json:"mobile,omitempty"`
	Country   string `json:"country,omitempty"`
}

// Register creates a new account. The upstream sends an activation email;
// the account stays inactive until the link is followed.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.do(ctx, http.MethodPost, "/users/register/", "", req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context, token string) (*domain.Profile, error) {
	var resp struct {
		User domain.Profile `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/profile/", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateProfileRequest carries the editable profile fields. Zero-valued
// fields are omitted so the upstream treats the update as partial.
type UpdateProfileRequest struct {
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
	Country   string `json:"country,omitempty"`
}

// UpdateProfile updates the given user's profile fields.
func (c *Client) UpdateProfile(ctx context.Context, token string, userID int, req UpdateProfileRequest) (*domain.Profile, error) {
	var profile domain.Profile
	path := "/users/user/" + strconv.Itoa(userID) + "/"
	if err := c.do(ctx, http.MethodPut, path, token, req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// DeleteAccount deletes the account matching the given credentials. The
// upstream re-checks the password rather than trusting the bearer token.
func (c *Client) DeleteAccount(ctx context.Context, token, email, password string) error {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	return c.do(ctx, http.MethodPost, "/users/delete-account/", token, body, nil)
}

// RequestPasswordReset asks the upstream to email a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/users/password-reset-request/", "", body, nil)
}

// ConfirmPasswordReset completes a password reset with the emailed token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, uid, resetToken, newPassword string) error {
	body := map[string]string{
		"uid":      uid,
		"token":    resetToken,
		"password": newPassword,
	}
	return c.do(ctx, http.MethodPost, "/users/password-reset-confirm/", "", body, nil)
}
