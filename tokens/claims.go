package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expiry reads the exp claim of a JWT without verifying its signature; the backend remains the
// authority on validity. ok is false for opaque tokens or tokens without exp.
func Expiry(raw string) (exp time.Time, ok bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
