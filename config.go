package sessionclient

import "time"

const (
	// DefaultErrorClearDelay mirrors how long a failure message stays on
	// screen before it is dismissed automatically.
	DefaultErrorClearDelay = 10 * time.Second

	// DefaultRequestTimeout bounds every gateway round-trip.
	DefaultRequestTimeout = 15 * time.Second

	// DefaultAuthScheme prefixes the token in the renew request header.
	DefaultAuthScheme = "Bearer"
)

// ClientConfig is the concrete Config implementation with sane defaults.
// Zero values fall back to the package defaults; BaseURL is the only field
// without one.
type ClientConfig struct {
	BaseURL         string
	AuthScheme      string
	RequestTimeout  time.Duration
	ErrorClearDelay time.Duration
	Debug           bool
}

func (c ClientConfig) GetBaseURL() string {
	return c.BaseURL
}

func (c ClientConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return DefaultAuthScheme
	}
	return c.AuthScheme
}

func (c ClientConfig) GetRequestTimeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return c.RequestTimeout
}

func (c ClientConfig) GetErrorClearDelay() time.Duration {
	if c.ErrorClearDelay <= 0 {
		return DefaultErrorClearDelay
	}
	return c.ErrorClearDelay
}

func (c ClientConfig) GetDebug() bool {
	return c.Debug
}
