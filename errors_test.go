package sessionclient_test

import (
	"fmt"
	"testing"

	sessionclient "github.com/goliatone/go-session-client"
	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	assert.Empty(t, sessionclient.UserMessage(nil))

	rejected := sessionclient.GatewayRejection("Invalid credentials")
	assert.Equal(t, "Invalid credentials", sessionclient.UserMessage(rejected))

	unreachable := sessionclient.GatewayUnreachable(fmt.Errorf("connection refused"))
	assert.Equal(t, sessionclient.GenericFailureMessage, sessionclient.UserMessage(unreachable))

	assert.Equal(t, sessionclient.GenericFailureMessage,
		sessionclient.UserMessage(fmt.Errorf("plain error")))
}

func TestGatewayRejectionEmptyMessageFallsBack(t *testing.T) {
	err := sessionclient.GatewayRejection("")
	assert.Equal(t, sessionclient.GenericFailureMessage, sessionclient.UserMessage(err))
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.False(t, sessionclient.IsTokenExpiredError(nil))
	assert.True(t, sessionclient.IsTokenExpiredError(sessionclient.ErrTokenExpired))
	assert.True(t, sessionclient.IsTokenExpiredError(fmt.Errorf("jwt: token is expired")))
	assert.False(t, sessionclient.IsTokenExpiredError(fmt.Errorf("some other failure")))
}

func TestIsMalformedError(t *testing.T) {
	assert.False(t, sessionclient.IsMalformedError(nil))
	assert.True(t, sessionclient.IsMalformedError(sessionclient.ErrTokenMalformed))
	assert.True(t, sessionclient.IsMalformedError(fmt.Errorf("jwt: token is malformed")))
	assert.True(t, sessionclient.IsMalformedError(fmt.Errorf("missing or malformed JWT")))
	assert.False(t, sessionclient.IsMalformedError(fmt.Errorf("some other failure")))
}
