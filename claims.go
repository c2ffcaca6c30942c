package sessionclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the fields this client reads out of a bearer token.
// Decoded without signature verification: expiry and identity are used for
// UX decisions only, never for authorization.
type TokenClaims struct {
	jwt.RegisteredClaims
	UID       string `json:"uid,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	UserRole  string `json:"role,omitempty"`
}

// UserID returns the user ID, preferring the uid claim over the subject.
func (c *TokenClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Role returns the global role
func (c *TokenClaims) Role() string {
	return c.UserRole
}

// Expires returns the expiration time, zero when the claim is absent.
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time, zero when the claim is absent.
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Identity maps the identity claims into the displayable record the session
// carries.
func (c *TokenClaims) Identity() Identity {
	return Identity{
		ID:        c.UserID(),
		Username:  c.Username,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Role:      c.UserRole,
	}
}
