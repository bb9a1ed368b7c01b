package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims mirrors the claims the backend signs into its bearer tokens.
// Only the expiry is ever read client-side; the signature is not checked here.
type TokenClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// ExpiredAt reports whether the token carries an expiry at or before now.
// Tokens without an exp claim never expire from the client's point of view.
func (c TokenClaims) ExpiredAt(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !c.ExpiresAt.After(now)
}
