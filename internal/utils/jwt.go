package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned when a token carries no exp claim.
var ErrNoExpiry = errors.New("token has no expiration claim")

// ParseTokenExpiry reads the exp claim of a JWT access token without
// verifying its signature. The token was issued to this device by the
// remote service, which verifies it; the client only needs to know when to
// stop presenting it.
//
// Returns:
//
//	time.Time - expiration time of the token
//	error     - non-nil if the token cannot be parsed or has no exp claim
//
// Example usage:
//
//	exp, err := utils.ParseTokenExpiry(rawToken)
func ParseTokenExpiry(tokenString string) (time.Time, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("error occurred parsing token: %w", err)
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("error occurred reading exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}

	return exp.Time, nil
}

// TokenExpired reports whether the token expires within leeway of now.
// Tokens that are not JWTs, or carry no exp claim, are treated as never
// expiring.
func TokenExpired(tokenString string, now time.Time, leeway time.Duration) bool {
	exp, err := ParseTokenExpiry(tokenString)
	if err != nil {
		return false
	}
	return !now.Add(leeway).Before(exp)
}
