package sessionclient

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
)

// Controller orchestrates the session lifecycle: it decides whether a held
// token is usable, drives login, registration, renewal, and logout, and is
// the only writer of both the SessionMachine and the CredentialStore.
//
// Overlapping operations are serialized by a sequence guard: every
// session-changing call takes a number when it starts, and a resumed call
// commits its outcome (state transition plus credential write) only while
// that number is still the latest issued. A stale resume is dropped with
// ErrRequestSuperseded, so the most recently initiated call always wins.
//
// Observers registered through Watch are invoked synchronously after each
// transition and must not call back into the Controller from the callback.
type Controller struct {
	mu         sync.Mutex
	machine    *SessionMachine
	store      CredentialStore
	gateway    Gateway
	logger     Logger
	now        func() time.Time
	clearDelay time.Duration

	seq        uint64
	clearTimer *time.Timer
}

// NewController wires a Controller from its collaborators. The machine
// starts unauthenticated; call CheckSession to reconcile with any persisted
// credential.
func NewController(gateway Gateway, store CredentialStore, cfg Config) *Controller {
	return &Controller{
		machine:    NewSessionMachine(),
		store:      store,
		gateway:    gateway,
		logger:     defLogger{},
		now:        time.Now,
		clearDelay: cfg.GetErrorClearDelay(),
	}
}

// WithLogger overrides the controller logger.
func (c *Controller) WithLogger(logger Logger) *Controller {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithClock injects a custom clock (useful for tests).
func (c *Controller) WithClock(clock func() time.Time) *Controller {
	if clock != nil {
		c.now = clock
	}
	return c
}

// Machine exposes the underlying SessionMachine.
func (c *Controller) Machine() *SessionMachine {
	return c.machine
}

// Current returns the current session snapshot.
func (c *Controller) Current() Session {
	return c.machine.Current()
}

// Watch registers a read-only observer of session snapshots. The returned
// function unsubscribes.
func (c *Controller) Watch(fn func(Session)) func() {
	return c.machine.Watch(fn)
}

// CheckSession reconciles the session with the persisted credential,
// normally once at startup.
//
// No stored token means logout without any network traffic. An expired or
// undecodable token clears the store and logs out, also without calling the
// gateway; a stale session is normal, not an error. Otherwise the token is
// exchanged for a fresh one and the session becomes authenticated with the
// identity carried in the new token's claims.
func (c *Controller) CheckSession(ctx context.Context) error {
	seq := c.nextSeq()

	token, err := c.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoCredential) {
			c.logger.Error("check session could not read credential store", "error", err)
		}
		return c.commitLogout(ctx, seq, false)
	}

	if IsTokenExpired(token, c.now()) {
		c.logger.Debug("check session found expired or undecodable token")
		return c.commitLogout(ctx, seq, true)
	}

	if err := c.commit(ctx, seq, func() error {
		c.machine.BeginCheck()
		return nil
	}); err != nil {
		return err
	}

	renewed, gerr := c.gateway.Renew(ctx, token)
	if gerr != nil {
		c.logger.Info("token renewal rejected", "error", gerr)
		if err := c.commitFailure(ctx, seq, UserMessage(gerr), true); err != nil {
			return err
		}
		return gerr
	}

	claims, derr := DecodeToken(renewed.Token)
	if derr != nil {
		c.logger.Error("gateway issued an undecodable token", "error", derr)
		if err := c.commitFailure(ctx, seq, GenericFailureMessage, true); err != nil {
			return err
		}
		return derr
	}

	return c.commitSuccess(ctx, seq, renewed.Token, claims.Identity())
}

// Login exchanges credentials for a session. Payload shape problems are
// reported before any network traffic or state change; gateway rejections
// surface through the session's error message and are dismissed
// automatically after the configured delay. Never retried: a failure is
// terminal until the user tries again.
func (c *Controller) Login(ctx context.Context, payload LoginPayload) error {
	if err := payload.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid login payload")
	}

	seq := c.nextSeq()

	if err := c.commit(ctx, seq, func() error {
		c.machine.BeginCheck()
		return nil
	}); err != nil {
		return err
	}

	result, gerr := c.gateway.Login(ctx, payload)
	if gerr != nil {
		c.logger.Info("login rejected", "identifier", payload.Email, "error", gerr)
		if err := c.commitFailure(ctx, seq, UserMessage(gerr), false); err != nil {
			return err
		}
		return gerr
	}

	return c.commitSuccess(ctx, seq, result.Token, result.User)
}

// Register creates an account and starts a session from the newly issued
// token, with the same shape as Login.
func (c *Controller) Register(ctx context.Context, payload RegisterPayload) error {
	if err := payload.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid registration payload")
	}

	seq := c.nextSeq()

	if err := c.commit(ctx, seq, func() error {
		c.machine.BeginCheck()
		return nil
	}); err != nil {
		return err
	}

	result, gerr := c.gateway.Register(ctx, payload)
	if gerr != nil {
		c.logger.Info("registration rejected", "identifier", payload.Email, "error", gerr)
		if err := c.commitFailure(ctx, seq, UserMessage(gerr), false); err != nil {
			return err
		}
		return gerr
	}

	return c.commitSuccess(ctx, seq, result.Token, result.User)
}

// Logout clears the credential store and forces the session to
// unauthenticated. No network call: server-side invalidation is the
// gateway's concern. Idempotent, and it supersedes any in-flight
// session-changing call.
func (c *Controller) Logout(ctx context.Context) error {
	return c.commitLogout(ctx, c.nextSeq(), true)
}

// nextSeq issues a new sequence number, invalidating every in-flight call.
func (c *Controller) nextSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// commit runs fn only if seq is still the latest issued and ctx is alive.
// Both checks happen immediately before the commit, so a canceled caller or
// a superseded call neither transitions the session nor touches the
// credential store.
func (c *Controller) commit(ctx context.Context, seq uint64, fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.logger.Debug("dropping stale session commit", "seq", seq, "latest", c.seq)
		return ErrRequestSuperseded
	}

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "canceled before session transition")
	}

	return fn()
}

// commitSuccess persists the issued token and authenticates the session in
// one guarded step. A persistence failure downgrades to a generic failure:
// an unauthenticated session with a message beats claiming a session we
// cannot restore after a reload.
func (c *Controller) commitSuccess(ctx context.Context, seq uint64, token string, user Identity) error {
	return c.commit(ctx, seq, func() error {
		if err := c.store.Save(ctx, token); err != nil {
			c.logger.Error("could not persist issued token", "error", err)
			if ferr := c.machine.Fail(GenericFailureMessage); ferr == nil {
				c.armClearTimerLocked()
			}
			return err
		}

		c.stopClearTimerLocked()
		return c.machine.Succeed(user)
	})
}

// commitFailure moves the session to unauthenticated with a user-facing
// message and arms the auto-clear timer. When clearCredentials is set the
// persisted token is discarded in the same guarded step, so a rejected
// renewal cannot be replayed from storage.
func (c *Controller) commitFailure(ctx context.Context, seq uint64, message string, clearCredentials bool) error {
	return c.commit(ctx, seq, func() error {
		if clearCredentials {
			c.clearStore(ctx)
		}

		if err := c.machine.Fail(message); err != nil {
			return err
		}

		c.armClearTimerLocked()
		return nil
	})
}

func (c *Controller) commitLogout(ctx context.Context, seq uint64, clearCredentials bool) error {
	return c.commit(ctx, seq, func() error {
		if clearCredentials {
			c.clearStore(ctx)
		}

		c.stopClearTimerLocked()
		c.machine.Logout()
		return nil
	})
}

func (c *Controller) clearStore(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error("could not clear credential store", "error", err)
	}
}

// armClearTimerLocked schedules the error auto-clear, replacing any pending
// timer. The identity check in the callback keeps a superseded timer that
// already fired from wiping a message armed after it.
func (c *Controller) armClearTimerLocked() {
	c.stopClearTimerLocked()

	var t *time.Timer
	t = time.AfterFunc(c.clearDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if c.clearTimer != t {
			return
		}
		c.clearTimer = nil
		c.machine.ClearError()
	})
	c.clearTimer = t
}

func (c *Controller) stopClearTimerLocked() {
	if c.clearTimer != nil {
		c.clearTimer.Stop()
		c.clearTimer = nil
	}
}
