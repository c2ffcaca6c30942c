package sessionclient

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Storage keys shared by every CredentialStore implementation. Clear removes
// everything in the subsystem's area, not just these two.
const (
	credentialKeyToken    = "token"
	credentialKeyInitDate = "token-init-date"
)

func formatInitDate(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func parseInitDate(s string) (time.Time, bool) {
	millis, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}

// MemoryCredentialStore keeps credentials in process memory. Useful for tests
// and for ephemeral clients that should not leave a token on disk.
type MemoryCredentialStore struct {
	mu     sync.Mutex
	values map[string]string
	now    func() time.Time
}

// MemoryStoreOption customizes a MemoryCredentialStore.
type MemoryStoreOption func(*MemoryCredentialStore)

// WithMemoryStoreClock injects a custom clock (useful for tests).
func WithMemoryStoreClock(clock func() time.Time) MemoryStoreOption {
	return func(s *MemoryCredentialStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewMemoryCredentialStore returns an empty in-memory store.
func NewMemoryCredentialStore(opts ...MemoryStoreOption) *MemoryCredentialStore {
	s := &MemoryCredentialStore{
		values: map[string]string{},
		now:    time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Save stores the token and the current timestamp, overwriting any prior value.
func (s *MemoryCredentialStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[credentialKeyToken] = token
	s.values[credentialKeyInitDate] = formatInitDate(s.now())
	return nil
}

// Load returns the stored token or ErrNoCredential.
func (s *MemoryCredentialStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.values[credentialKeyToken]
	if !ok {
		return "", ErrNoCredential
	}
	return token, nil
}

// Clear removes every stored key. Idempotent.
func (s *MemoryCredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = map[string]string{}
	return nil
}

// AcquiredAt returns the instant the current token was stored.
func (s *MemoryCredentialStore) AcquiredAt(_ context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.values[credentialKeyInitDate]
	if !ok {
		return time.Time{}, ErrNoCredential
	}

	at, ok := parseInitDate(raw)
	if !ok {
		return time.Time{}, ErrNoCredential
	}
	return at, nil
}
