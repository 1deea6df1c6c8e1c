// Package token holds the client-side token stores. Expiry decoding here is
// an optimization to avoid requests that would bounce with 401; tokens are
// never signature-verified on the client and the server stays authoritative.
package token

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ExpiryLeeway is the window before the exp claim within which a token is
// already treated as expired and must be refreshed before use.
const ExpiryLeeway = 60 * time.Second

// DecodeExpiry extracts the exp claim from a JWT without verifying its
// signature.
func DecodeExpiry(tokenStr string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, errors.New("token has no exp claim")
	}
	return exp.Time, nil
}

// Expired reports whether tokenStr is within leeway of its expiry at now.
// A token that cannot be decoded is treated as expired.
func Expired(tokenStr string, now time.Time, leeway time.Duration) bool {
	exp, err := DecodeExpiry(tokenStr)
	if err != nil {
		return true
	}
	return exp.Sub(now) < leeway
}
