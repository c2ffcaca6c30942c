package sessionclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// DecodeToken parses the token payload without verifying its signature and
// returns the structured claims. Pure function of its input: no network, no
// clock, no side effects.
func DecodeToken(tokenString string) (*TokenClaims, error) {
	parser := jwt.NewParser()

	token, _, err := parser.ParseUnverified(tokenString, &TokenClaims{})
	if err != nil {
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// IsTokenExpired reports whether the token should be treated as expired at
// the given instant. Fails open as expired: an undecodable token, or one
// without an exp claim, is never treated as valid.
func IsTokenExpired(tokenString string, now time.Time) bool {
	claims, err := DecodeToken(tokenString)
	if err != nil {
		return true
	}

	expires := claims.Expires()
	if expires.IsZero() {
		return true
	}

	return !now.Before(expires)
}
