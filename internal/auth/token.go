package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity holds the claims the storefront reads out of the upstream access
// token. The token is treated as an opaque bearer credential: the upstream
// API verifies the signature on every call, so the storefront only decodes
// the payload for display and routing decisions.
type Identity struct {
	UserID    string
	Email     string
	IsStaff   bool
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim has passed.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// DecodeToken extracts identity claims from a JWT access token without
// verifying the signature. Signature verification stays with the upstream
// API that issued the token.
func DecodeToken(tokenString string) (Identity, error) {
	parser := jwt.NewParser()

	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return Identity{}, fmt.Errorf("decode access token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, fmt.Errorf("decode access token: unexpected claims type")
	}

	ident := Identity{
		UserID:  stringClaim(claims, "user_id"),
		Email:   stringClaim(claims, "email"),
		IsStaff: boolClaim(claims, "is_staff"),
	}
	if ident.UserID == "" {
		ident.UserID = stringClaim(claims, "sub")
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		ident.ExpiresAt = exp.Time
	}

	return ident, nil
}

// stringClaim reads a claim that may arrive as a string or a JSON number.
// The upstream API issues numeric user IDs.
func stringClaim(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}

func boolClaim(claims jwt.MapClaims, key string) bool {
	v, _ := claims[key].(bool)
	return v
}
