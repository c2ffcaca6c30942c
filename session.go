package sessionclient

import (
	"fmt"
	"time"
)

// Status is the authentication status of the client process. Exactly one
// value holds at any time.
type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusChecking        Status = "checking"
	StatusAuthenticated   Status = "authenticated"
)

// Identity is the displayable user record carried by the session. Claims are
// decoded without signature verification, so these fields are display data
// only; authorization stays server-enforced.
type Identity struct {
	ID        string `json:"id,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role,omitempty"`
}

// DisplayName returns the best available human label for the identity.
func (i Identity) DisplayName() string {
	if i.FirstName != "" || i.LastName != "" {
		switch {
		case i.FirstName == "":
			return i.LastName
		case i.LastName == "":
			return i.FirstName
		default:
			return i.FirstName + " " + i.LastName
		}
	}
	if i.Username != "" {
		return i.Username
	}
	return i.Email
}

// Session is the observable authentication state: status, identity, and the
// most recent failure message. User is nil unless Status is
// StatusAuthenticated.
type Session struct {
	Status       Status    `json:"status"`
	User         *Identity `json:"user,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// Authenticated reports whether the session currently holds a verified user.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

func (s Session) String() string {
	user := "<nil>"
	if s.User != nil {
		user = s.User.Username
	}
	return fmt.Sprintf("status=%s user=%s err=%q", s.Status, user, s.ErrorMessage)
}

// Staleness reports how long ago the persisted credential was acquired,
// for display purposes only; expiry decisions come from the token claims.
func Staleness(acquiredAt time.Time, now time.Time) time.Duration {
	if acquiredAt.IsZero() || acquiredAt.After(now) {
		return 0
	}
	return now.Sub(acquiredAt)
}
