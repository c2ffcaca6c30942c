package sessionclient

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// CredentialStore persists the current bearer token and the timestamp it was
// acquired. Implementations must be idempotent: Save overwrites, Clear on an
// empty store is a no-op.
type CredentialStore interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Gateway is the remote service that issues and renews tokens. Out of scope
// for this package beyond the minimal request contract; see HTTPGateway for
// the default client.
type Gateway interface {
	Login(ctx context.Context, payload LoginPayload) (*AuthResult, error)
	Register(ctx context.Context, payload RegisterPayload) (*AuthResult, error)
	Renew(ctx context.Context, token string) (*RenewResult, error)
}

// AuthResult is the gateway response to login and register calls.
type AuthResult struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// RenewResult is the gateway response to a renew call. Identity travels
// inside the token claims, not alongside them.
type RenewResult struct {
	Token string `json:"token"`
}

// Config holds client options.
type Config interface {
	GetBaseURL() string
	GetAuthScheme() string
	GetRequestTimeout() time.Duration
	GetErrorClearDelay() time.Duration
	GetDebug() bool
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
