package sessionclient

import (
	"sync"

	"github.com/google/uuid"
)

// SessionMachine is the single source of truth for the client's
// authentication state. Three states, five transitions:
//
//	BeginCheck  any           -> checking         clears the error message
//	Succeed     checking      -> authenticated    sets the user, clears the error
//	Fail        checking      -> unauthenticated  sets the error, drops the user
//	Logout      any           -> unauthenticated  drops user and error
//	ClearError  any           -> unchanged        clears the error only
//
// The machine starts unauthenticated: a prior session is never assumed until
// explicitly checked. There is no terminal state.
//
// Only the Controller mutates the machine; everything else observes through
// Current and Watch.
type SessionMachine struct {
	mu          sync.Mutex
	session     Session
	transitions map[Status]map[Status]struct{}
	observers   map[uuid.UUID]func(Session)
	logger      Logger
}

// SessionMachineOption customizes machine construction.
type SessionMachineOption func(*SessionMachine)

// WithMachineLogger overrides the logger used for observer bookkeeping.
func WithMachineLogger(logger Logger) SessionMachineOption {
	return func(m *SessionMachine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewSessionMachine returns a machine in the unauthenticated state.
func NewSessionMachine(opts ...SessionMachineOption) *SessionMachine {
	m := &SessionMachine{
		session: Session{Status: StatusUnauthenticated},
		transitions: map[Status]map[Status]struct{}{
			StatusUnauthenticated: {
				StatusChecking: {},
			},
			StatusChecking: {
				StatusAuthenticated:   {},
				StatusUnauthenticated: {},
			},
			StatusAuthenticated: {
				StatusChecking:        {},
				StatusUnauthenticated: {},
			},
		},
		observers: map[uuid.UUID]func(Session){},
		logger:    defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m
}

// Current returns a snapshot of the session. The returned User is a copy;
// mutating it does not affect the machine.
func (m *SessionMachine) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// Watch registers an observer invoked with a snapshot after every applied
// transition. The returned function unsubscribes; it is safe to call more
// than once.
func (m *SessionMachine) Watch(fn func(Session)) func() {
	if fn == nil {
		return func() {}
	}

	id := uuid.New()

	m.mu.Lock()
	m.observers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

// BeginCheck moves the machine into the checking state and clears any error
// message. Legal from every state.
func (m *SessionMachine) BeginCheck() {
	m.mu.Lock()
	m.session.Status = StatusChecking
	m.session.User = nil
	m.session.ErrorMessage = ""
	snapshot, observers := m.snapshot(), m.observerList()
	m.mu.Unlock()

	m.notify(snapshot, observers)
}

// Succeed moves checking into authenticated, setting the user and clearing
// the error message. Any other origin state is an invalid transition.
func (m *SessionMachine) Succeed(user Identity) error {
	m.mu.Lock()

	if !m.canTransition(m.session.Status, StatusAuthenticated) {
		from := m.session.Status
		m.mu.Unlock()
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from": from,
			"to":   StatusAuthenticated,
		})
	}

	m.session.Status = StatusAuthenticated
	m.session.User = &user
	m.session.ErrorMessage = ""
	snapshot, observers := m.snapshot(), m.observerList()
	m.mu.Unlock()

	m.notify(snapshot, observers)
	return nil
}

// Fail moves checking into unauthenticated with a user-facing message. Any
// other origin state is an invalid transition.
func (m *SessionMachine) Fail(message string) error {
	m.mu.Lock()

	if m.session.Status != StatusChecking {
		from := m.session.Status
		m.mu.Unlock()
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from": from,
			"to":   StatusUnauthenticated,
		})
	}

	m.session.Status = StatusUnauthenticated
	m.session.User = nil
	m.session.ErrorMessage = message
	snapshot, observers := m.snapshot(), m.observerList()
	m.mu.Unlock()

	m.notify(snapshot, observers)
	return nil
}

// Logout moves the machine into unauthenticated, dropping the user and any
// error message. Legal from every state and idempotent.
func (m *SessionMachine) Logout() {
	m.mu.Lock()
	m.session.Status = StatusUnauthenticated
	m.session.User = nil
	m.session.ErrorMessage = ""
	snapshot, observers := m.snapshot(), m.observerList()
	m.mu.Unlock()

	m.notify(snapshot, observers)
}

// ClearError clears the error message without touching status or user.
// Observers are only notified when a message was actually cleared.
func (m *SessionMachine) ClearError() {
	m.mu.Lock()
	if m.session.ErrorMessage == "" {
		m.mu.Unlock()
		return
	}
	m.session.ErrorMessage = ""
	snapshot, observers := m.snapshot(), m.observerList()
	m.mu.Unlock()

	m.notify(snapshot, observers)
}

func (m *SessionMachine) canTransition(from, to Status) bool {
	if allowed, ok := m.transitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}

func (m *SessionMachine) snapshot() Session {
	out := Session{
		Status:       m.session.Status,
		ErrorMessage: m.session.ErrorMessage,
	}
	if m.session.User != nil {
		user := *m.session.User
		out.User = &user
	}
	return out
}

func (m *SessionMachine) observerList() []func(Session) {
	list := make([]func(Session), 0, len(m.observers))
	for _, fn := range m.observers {
		list = append(list, fn)
	}
	return list
}

// notify runs outside the machine lock so observers may call Current or
// Watch without deadlocking.
func (m *SessionMachine) notify(snapshot Session, observers []func(Session)) {
	for _, fn := range observers {
		fn(snapshot)
	}
}
