package sessionclient

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeTokenMalformed     = "AUTH_TOKEN_MALFORMED"
	TextCodeTokenExpired       = "AUTH_TOKEN_EXPIRED"
	TextCodeGatewayRejected    = "AUTH_GATEWAY_REJECTED"
	TextCodeGatewayUnreachable = "AUTH_GATEWAY_UNREACHABLE"
	TextCodeNoCredential       = "AUTH_NO_CREDENTIAL"
	TextCodeInvalidTransition  = "INVALID_SESSION_TRANSITION"
	TextCodeSuperseded         = "AUTH_REQUEST_SUPERSEDED"
)

// GenericFailureMessage is surfaced when the gateway fails without a
// well-formed {error} body.
const GenericFailureMessage = "Authentication failed, please try again"

// ErrTokenMalformed is returned when a token payload cannot be decoded.
// Treated the same as an expired token: the credential is discarded.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a decodable token is past its expiry.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrNoCredential is returned by credential stores when no token is held.
// A missing credential is normal, not exceptional.
var ErrNoCredential = errors.New("no stored credential", errors.CategoryNotFound).
	WithTextCode(TextCodeNoCredential).
	WithCode(errors.CodeNotFound)

// ErrInvalidTransition is returned when a requested status change is not
// allowed by the session state machine.
var ErrInvalidTransition = errors.New("invalid session state transition", errors.CategoryConflict).
	WithTextCode(TextCodeInvalidTransition).
	WithCode(errors.CodeConflict)

// ErrRequestSuperseded is returned when a resumed gateway call finds that a
// newer session-changing call was issued while it was in flight. The stale
// result is dropped; the session reflects the most recent call.
var ErrRequestSuperseded = errors.New("session request superseded by a newer call", errors.CategoryConflict).
	WithTextCode(TextCodeSuperseded).
	WithCode(errors.CodeConflict)

// GatewayRejection wraps a failure the gateway explicitly reported through
// its {error} response shape. Message is user facing.
func GatewayRejection(message string) *errors.Error {
	if message == "" {
		message = GenericFailureMessage
	}
	return errors.New(message, errors.CategoryAuth).
		WithTextCode(TextCodeGatewayRejected).
		WithCode(errors.CodeUnauthorized)
}

// GatewayUnreachable wraps a transport failure or a non-success response
// without the {error} shape. The user-facing message is the generic fallback.
func GatewayUnreachable(cause error) *errors.Error {
	return errors.Wrap(cause, errors.CategoryOperation, GenericFailureMessage).
		WithTextCode(TextCodeGatewayUnreachable)
}

// UserMessage extracts the user-facing message from an error surfaced by the
// gateway boundary, falling back to the generic failure message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Message != "" {
		return richErr.Message
	}
	return GenericFailureMessage
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
