package sessionclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
)

// HTTPGateway talks to the remote auth service over its minimal JSON
// contract:
//
//	POST /auth/login    {email, password}            -> {token, user}
//	POST /auth/register {username, ..., password}    -> {token, user}
//	GET  /auth/renew    Authorization: <scheme> <t>  -> {token}
//
// Failures the service reports arrive as {error: string}; anything else
// (transport error, timeout, non-2xx without that shape) is a generic
// failure. Both surface as tagged *errors.Error values so callers never
// probe response shapes.
type HTTPGateway struct {
	baseURL    string
	authScheme string
	timeout    time.Duration
	logger     Logger
	debug      bool
}

// gatewayErrorBody is the error shape the service is known to send.
type gatewayErrorBody struct {
	Error string `json:"error"`
}

// NewHTTPGateway returns a Gateway bound to cfg.GetBaseURL().
func NewHTTPGateway(cfg Config) *HTTPGateway {
	return &HTTPGateway{
		baseURL:    cfg.GetBaseURL(),
		authScheme: cfg.GetAuthScheme(),
		timeout:    cfg.GetRequestTimeout(),
		logger:     defLogger{},
		debug:      cfg.GetDebug(),
	}
}

// WithLogger overrides the gateway logger.
func (g *HTTPGateway) WithLogger(logger Logger) *HTTPGateway {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// Login exchanges credentials for a token and user record.
func (g *HTTPGateway) Login(ctx context.Context, payload LoginPayload) (*AuthResult, error) {
	result := &AuthResult{}
	if err := g.do(ctx, fiber.MethodPost, "/auth/login", payload, "", result); err != nil {
		return nil, err
	}
	return result, nil
}

// Register creates an account and returns its first token and user record.
func (g *HTTPGateway) Register(ctx context.Context, payload RegisterPayload) (*AuthResult, error) {
	result := &AuthResult{}
	if err := g.do(ctx, fiber.MethodPost, "/auth/register", payload, "", result); err != nil {
		return nil, err
	}
	return result, nil
}

// Renew exchanges a still-valid token for a fresh one bound to the same
// identity.
func (g *HTTPGateway) Renew(ctx context.Context, token string) (*RenewResult, error) {
	result := &RenewResult{}
	if err := g.do(ctx, fiber.MethodGet, "/auth/renew", nil, token, result); err != nil {
		return nil, err
	}
	return result, nil
}

// do issues one round-trip. The context is consulted before dispatch; an
// in-flight request cannot be interrupted, callers drop stale results at the
// state transition boundary instead.
func (g *HTTPGateway) do(ctx context.Context, method, path string, body any, bearer string, out any) error {
	if err := ctx.Err(); err != nil {
		return GatewayUnreachable(err)
	}

	agent := fiber.AcquireAgent()
	agent.Timeout(g.timeout)

	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(g.baseURL + path)

	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, g.authScheme+" "+bearer)
	}

	if body != nil {
		agent.JSON(body)
	}

	if err := agent.Parse(); err != nil {
		return GatewayUnreachable(err)
	}

	code, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		g.logger.Error("gateway request failed", "path", path, "error", errs[0])
		return GatewayUnreachable(errs[0])
	}

	if g.debug {
		g.logger.Debug("gateway %s %s -> %d %s", method, path, code,
			print.MaybePrettyJSON(json.RawMessage(respBody)))
	}

	if code < 200 || code >= 300 {
		return g.rejection(path, code, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			g.logger.Error("gateway sent undecodable success body", "path", path, "error", err)
			return GatewayUnreachable(err)
		}
	}

	return nil
}

func (g *HTTPGateway) rejection(path string, code int, body []byte) error {
	shaped := gatewayErrorBody{}
	if err := json.Unmarshal(body, &shaped); err == nil && shaped.Error != "" {
		return GatewayRejection(shaped.Error).WithMetadata(map[string]any{
			"status": code,
			"path":   path,
		})
	}

	return GatewayUnreachable(fmt.Errorf("unexpected gateway status %d", code)).
		WithMetadata(map[string]any{
			"status": code,
			"path":   path,
		})
}

var _ Gateway = (*HTTPGateway)(nil)
