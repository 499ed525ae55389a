package auth

import (
	"context"
	"sync"

	"budgetwise/internal/logger"
)

// Listener receives every state the session manager moves to.
type Listener func(State)

// SessionManager holds the current auth state and notifies subscribers on
// every transition. It is safe for concurrent use. Listeners run in the
// goroutine that caused the transition, one transition at a time, and must
// not call SetSession, ClearSession or Initialize themselves.
type SessionManager struct {
	provider Provider

	// notifyMu orders deliveries; mu guards the fields below it.
	notifyMu  sync.Mutex
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
	closed    bool
}

// NewSessionManager returns a manager in the loading state.
func NewSessionManager(provider Provider) *SessionManager {
	return &SessionManager{
		provider:  provider,
		state:     State{Status: StatusLoading},
		listeners: make(map[int]Listener),
	}
}

// Initialize loads the stored session from the provider. Provider errors
// leave the manager unauthenticated.
func (m *SessionManager) Initialize(ctx context.Context) {
	m.setState(State{Status: StatusLoading})

	session, err := m.provider.GetSession(ctx)
	switch {
	case err != nil:
		logger.Named("auth").Warnw("Failed to initialize session", "error", err)
		m.setState(State{Status: StatusUnauthenticated})
	case session == nil:
		m.setState(State{Status: StatusUnauthenticated})
	default:
		m.SetSession(*session)
	}
}

// SetSession marks the user as logged in.
func (m *SessionManager) SetSession(session Session) {
	m.setState(State{Status: StatusAuthenticated, Session: &session})
}

// ClearSession marks the user as logged out.
func (m *SessionManager) ClearSession() {
	m.setState(State{Status: StatusUnauthenticated})
}

// Subscribe calls fn with the current state right away and again after every
// transition until the returned function is called.
func (m *SessionManager) Subscribe(fn Listener) (unsubscribe func()) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	if !m.closed {
		m.listeners[id] = fn
	}
	current := m.state
	m.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}

// State returns the current state.
func (m *SessionManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// User returns the logged-in user, or nil.
func (m *SessionManager) User() *User {
	state := m.State()
	if state.Status != StatusAuthenticated {
		return nil
	}
	user := state.Session.User
	return &user
}

// AccessToken returns the current access token, or "" when logged out.
func (m *SessionManager) AccessToken() string {
	state := m.State()
	if state.Status != StatusAuthenticated {
		return ""
	}
	return state.Session.Tokens.AccessToken
}

// IsAuthenticated reports whether a session is set.
func (m *SessionManager) IsAuthenticated() bool {
	return m.State().Status == StatusAuthenticated
}

// IsLoading reports whether the manager is still initializing.
func (m *SessionManager) IsLoading() bool {
	return m.State().Status == StatusLoading
}

// Close drops all subscribers. Later transitions notify no one.
func (m *SessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.listeners = make(map[int]Listener)
}

func (m *SessionManager) setState(state State) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	m.state = state
	listeners := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}
