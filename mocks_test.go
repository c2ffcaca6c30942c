package sessionclient_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	sessionclient "github.com/goliatone/go-session-client"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGateway implements sessionclient.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Login(ctx context.Context, payload sessionclient.LoginPayload) (*sessionclient.AuthResult, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionclient.AuthResult), args.Error(1)
}

func (m *MockGateway) Register(ctx context.Context, payload sessionclient.RegisterPayload) (*sessionclient.AuthResult, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionclient.AuthResult), args.Error(1)
}

func (m *MockGateway) Renew(ctx context.Context, token string) (*sessionclient.RenewResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionclient.RenewResult), args.Error(1)
}

// funcGateway routes calls to plain functions, for tests that need to block
// or interleave responses.
type funcGateway struct {
	login    func(ctx context.Context, payload sessionclient.LoginPayload) (*sessionclient.AuthResult, error)
	register func(ctx context.Context, payload sessionclient.RegisterPayload) (*sessionclient.AuthResult, error)
	renew    func(ctx context.Context, token string) (*sessionclient.RenewResult, error)
}

func (g *funcGateway) Login(ctx context.Context, payload sessionclient.LoginPayload) (*sessionclient.AuthResult, error) {
	return g.login(ctx, payload)
}

func (g *funcGateway) Register(ctx context.Context, payload sessionclient.RegisterPayload) (*sessionclient.AuthResult, error) {
	return g.register(ctx, payload)
}

func (g *funcGateway) Renew(ctx context.Context, token string) (*sessionclient.RenewResult, error) {
	return g.renew(ctx, token)
}

// failingStore breaks on demand so controller error paths can be exercised.
type failingStore struct {
	inner    sessionclient.CredentialStore
	saveErr  error
	loadErr  error
	clearErr error
}

func (s *failingStore) Save(ctx context.Context, token string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.inner.Save(ctx, token)
}

func (s *failingStore) Load(ctx context.Context) (string, error) {
	if s.loadErr != nil {
		return "", s.loadErr
	}
	return s.inner.Load(ctx)
}

func (s *failingStore) Clear(ctx context.Context) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	return s.inner.Clear(ctx)
}

// mintToken signs a real HS256 token; the codec ignores the signature but
// tokens in tests should look like what the gateway issues.
func mintToken(t *testing.T, identity sessionclient.Identity, expiresAt time.Time) string {
	t.Helper()

	claims := &sessionclient.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UID:       identity.ID,
		Username:  identity.Username,
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		UserRole:  identity.Role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// mintTokenWithoutExpiry builds a token missing the exp claim.
func mintTokenWithoutExpiry(t *testing.T, identity sessionclient.Identity) string {
	t.Helper()

	claims := &sessionclient.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: identity.ID,
		},
		UID:      identity.ID,
		Username: identity.Username,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}
