package session

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/clipdeck/clipdeck/internal/api"
	"github.com/clipdeck/clipdeck/internal/platformtest"
)

// memStore keeps the token in memory; failures are simulated by
// preloading tokens directly.
type memStore struct {
	token string
}

func (s *memStore) Load() (string, error) { return s.token, nil }
func (s *memStore) Save(tok string) error { s.token = tok; return nil }
func (s *memStore) Clear() error          { s.token = ""; return nil }

func newTestManager(t *testing.T, store TokenStore) (*Manager, *platformtest.Server) {
	t.Helper()
	stub := platformtest.New()
	server := httptest.NewServer(stub.Handler())
	t.Cleanup(server.Close)
	return NewManager(api.New(server.URL), store), stub
}

func TestLogin_PersistsTokenAndPopulatesSession(t *testing.T) {
	store := &memStore{}
	m, stub := newTestManager(t, store)
	stub.AddUser("alice", "secret123", false)

	if err := m.Login(context.Background(), "alice", "secret123"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	s := m.Current()
	if !s.Authenticated() {
		t.Fatal("expected an authenticated session")
	}
	if s.User.Username != "alice" {
		t.Errorf("expected user alice, got %q", s.User.Username)
	}
	if store.token == "" || store.token != s.Token {
		t.Errorf("expected persisted token to match session, got store=%q session=%q", store.token, s.Token)
	}
}

func TestLogin_RejectionLeavesSessionEmpty(t *testing.T) {
	store := &memStore{}
	m, stub := newTestManager(t, store)
	stub.AddUser("alice", "secret123", false)

	err := m.Login(context.Background(), "alice", "wrong")
	apiErr, ok := err.(*api.Error)
	if !ok {
		t.Fatalf("expected *api.Error, got %T: %v", err, err)
	}
	if apiErr.Message != "Invalid username or password" {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
	if m.Current().Authenticated() {
		t.Error("expected session to stay unauthenticated")
	}
	if store.token != "" {
		t.Errorf("expected no persisted token, got %q", store.token)
	}
}

func TestRestore_ValidTokenRestoresUser(t *testing.T) {
	store := &memStore{}
	m, stub := newTestManager(t, store)
	stub.AddUser("alice", "secret123", false)
	store.token = stub.SessionToken("alice")

	s := m.Restore(context.Background())
	if !s.Authenticated() {
		t.Fatal("expected an authenticated session")
	}
	if s.User.Username != "alice" {
		t.Errorf("expected user alice, got %q", s.User.Username)
	}
}

func TestRestore_RejectedTokenIsCleared(t *testing.T) {
	store := &memStore{token: "stale-token"}
	m, _ := newTestManager(t, store)

	s := m.Restore(context.Background())
	if s.Authenticated() {
		t.Fatal("expected an unauthenticated session")
	}
	if store.token != "" {
		t.Errorf("expected the stale token to be cleared, got %q", store.token)
	}
}

func TestRestore_EmptyStoreSkipsNetwork(t *testing.T) {
	// Unreachable base URL: any request would fail loudly.
	m := NewManager(api.New("http://127.0.0.1:1"), &memStore{})
	if s := m.Restore(context.Background()); s.Authenticated() {
		t.Fatal("expected an unauthenticated session")
	}
}

func TestLogout_TerminatesServerSessionAndClearsState(t *testing.T) {
	store := &memStore{}
	m, stub := newTestManager(t, store)
	stub.AddUser("alice", "secret123", false)
	if err := m.Login(context.Background(), "alice", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if stub.SessionCount() == 0 {
		t.Fatal("expected a live server session after login")
	}

	result := m.Logout(context.Background())
	if !result.Ok() {
		t.Errorf("expected logout to succeed, got %v", result.Err)
	}
	if stub.SessionCount() != 0 {
		t.Errorf("expected server session terminated, %d remain", stub.SessionCount())
	}
	if m.Current().Authenticated() {
		t.Error("expected local session cleared")
	}
	if store.token != "" {
		t.Errorf("expected persisted token cleared, got %q", store.token)
	}
}

func TestLogout_WithoutSessionIsLocalOnly(t *testing.T) {
	// Unreachable base URL: a request would surface as a Result error.
	m := NewManager(api.New("http://127.0.0.1:1"), &memStore{})
	if result := m.Logout(context.Background()); !result.Ok() {
		t.Errorf("expected a silent local logout, got %v", result.Err)
	}
}

func TestOnChange_FiresOnEveryTransition(t *testing.T) {
	store := &memStore{}
	m, stub := newTestManager(t, store)
	stub.AddUser("alice", "secret123", false)

	var transitions []bool
	m.OnChange(func(s Session) { transitions = append(transitions, s.Authenticated()) })

	if err := m.Login(context.Background(), "alice", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	m.Logout(context.Background())

	if len(transitions) != 2 || !transitions[0] || transitions[1] {
		t.Errorf("expected [true false] transitions, got %v", transitions)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store := NewFileStore(path)

	if tok, err := store.Load(); err != nil || tok != "" {
		t.Fatalf("expected empty load from missing file, got %q, %v", tok, err)
	}

	if err := store.Save("tok123"); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected 0600 permissions, got %o", perm)
	}

	tok, err := store.Load()
	if err != nil || tok != "tok123" {
		t.Fatalf("expected tok123, got %q, %v", tok, err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("expected clearing twice to be a no-op, got %v", err)
	}
	if tok, _ := store.Load(); tok != "" {
		t.Errorf("expected empty token after clear, got %q", tok)
	}
}
