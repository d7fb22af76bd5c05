package session

import (
	"context"
	"log"
	"sync"

	"github.com/clipdeck/clipdeck/internal/api"
)

// Session is the current authentication state. User is nil when nobody is
// signed in.
type Session struct {
	User  *api.User
	Token string
}

func (s Session) Authenticated() bool { return s.User != nil && s.Token != "" }

// Manager owns the session lifecycle: restore on startup, login, logout.
// Observers are notified on every transition so views can re-render.
type Manager struct {
	client *api.Client
	store  TokenStore

	mu       sync.Mutex
	session  Session
	onChange []func(Session)
}

func NewManager(client *api.Client, store TokenStore) *Manager {
	return &Manager{client: client, store: store}
}

// OnChange registers an observer fired after every session transition.
func (m *Manager) OnChange(fn func(Session)) {
	m.mu.Lock()
	m.onChange = append(m.onChange, fn)
	m.mu.Unlock()
}

func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

func (m *Manager) set(s Session) {
	m.mu.Lock()
	m.session = s
	observers := make([]func(Session), len(m.onChange))
	copy(observers, m.onChange)
	m.mu.Unlock()

	for _, fn := range observers {
		fn(s)
	}
}

// Restore validates a persisted token against the backend and populates
// the session. Any failure, network or rejection, clears the stored token
// and leaves the session unauthenticated. Called once at startup.
func (m *Manager) Restore(ctx context.Context) Session {
	token, err := m.store.Load()
	if err != nil {
		log.Printf("session: failed to load token: %v", err)
		m.set(Session{})
		return m.Current()
	}
	if token == "" {
		m.set(Session{})
		return m.Current()
	}

	// A stored JWT whose exp has passed is doomed; drop it without the
	// round-trip. Opaque tokens fall through to server validation.
	if tokenExpired(token) {
		log.Print("session: persisted token expired, clearing")
		m.discardToken()
		m.set(Session{})
		return m.Current()
	}

	m.client.SetToken(token)
	user, err := m.client.Me(ctx)
	if err != nil {
		m.discardToken()
		m.client.SetToken("")
		m.set(Session{})
		return m.Current()
	}

	m.set(Session{User: user, Token: token})
	return m.Current()
}

// Login exchanges credentials for a token, persists it and refreshes the
// session. A server rejection is returned as *api.Error so the view can
// surface the server's message verbatim.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	result, err := m.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if err := m.store.Save(result.Token); err != nil {
		log.Printf("session: failed to persist token: %v", err)
	}
	m.client.SetToken(result.Token)

	// Re-validate rather than trusting the login payload, mirroring the
	// startup path.
	user, err := m.client.Me(ctx)
	if err != nil {
		user = &result.User
	}
	m.set(Session{User: user, Token: result.Token})
	return nil
}

// Logout notifies the server best-effort, then clears local state. The
// returned Result records the server call's outcome; callers may ignore
// it.
func (m *Manager) Logout(ctx context.Context) api.Result {
	var result api.Result
	if m.Current().Token != "" {
		result.Err = m.client.Logout(ctx)
		if result.Err != nil {
			log.Printf("session: logout request failed: %v", result.Err)
		}
	}

	m.discardToken()
	m.client.SetToken("")
	m.set(Session{})
	return result
}

func (m *Manager) discardToken() {
	if err := m.store.Clear(); err != nil {
		log.Printf("session: failed to clear token: %v", err)
	}
}
