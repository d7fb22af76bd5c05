package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clipdeck/clipdeck/internal/api"
	"github.com/clipdeck/clipdeck/internal/feed"
	"github.com/clipdeck/clipdeck/internal/locale"
	"github.com/clipdeck/clipdeck/internal/platformtest"
	"github.com/clipdeck/clipdeck/internal/session"
	"github.com/clipdeck/clipdeck/internal/thumbnail"
	"github.com/clipdeck/clipdeck/internal/ui"
	"github.com/clipdeck/clipdeck/internal/upload"
)

type memStore struct {
	token string
}

func (s *memStore) Load() (string, error) { return s.token, nil }
func (s *memStore) Save(tok string) error { s.token = tok; return nil }
func (s *memStore) Clear() error          { s.token = ""; return nil }

// fixture is the fully wired component graph against a stub backend,
// with recorders in place of the real renderers.
type fixture struct {
	ctrl     *Controller
	stub     *platformtest.Server
	client   *api.Client
	store    *memStore
	sessions *session.Manager
	toasts   *ui.ToastManager
	modals   *ui.ModalManager

	requests *int64

	mu        sync.Mutex
	reloads   int
	navigated []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{requests: new(int64)}
	f.stub = platformtest.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(f.requests, 1)
		f.stub.Handler().ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	f.client = api.New(server.URL)
	f.store = &memStore{}
	f.sessions = session.NewManager(f.client, f.store)
	f.toasts = ui.NewToastManager(time.Minute)
	f.modals = ui.NewModalManager()
	pending := &thumbnail.Pending{}
	extractor := thumbnail.NewExtractor("/nonexistent/ffmpeg", "/nonexistent/ffprobe")
	notifFeed := feed.New(f.client, f.sessions)
	flow := upload.New(f.client, f.sessions, pending, extractor)

	f.ctrl = New(Config{
		Client:    f.client,
		Sessions:  f.sessions,
		Toasts:    f.toasts,
		Modals:    f.modals,
		Feed:      notifFeed,
		Uploads:   flow,
		Pending:   pending,
		Extractor: extractor,
		Reload: func() {
			f.mu.Lock()
			f.reloads++
			f.mu.Unlock()
		},
		Navigate: func(path string) {
			f.mu.Lock()
			f.navigated = append(f.navigated, path)
			f.mu.Unlock()
		},
		ReloadDelay: time.Millisecond,
	})
	return f
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	f.stub.AddUser("alice", "secret123", false)
	if err := f.ctrl.Login(context.Background(), "alice", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func (f *fixture) requestCount() int64 { return atomic.LoadInt64(f.requests) }

func (f *fixture) lastToast(t *testing.T) ui.Toast {
	t.Helper()
	active := f.toasts.Active()
	if len(active) == 0 {
		t.Fatal("expected a toast")
	}
	return active[len(active)-1]
}

func (f *fixture) waitNavigated(t *testing.T) string {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		if len(f.navigated) > 0 {
			path := f.navigated[len(f.navigated)-1]
			f.mu.Unlock()
			return path
		}
		f.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expected a navigation")
	return ""
}

func (f *fixture) waitReload(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		n := f.reloads
		f.mu.Unlock()
		if n > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expected a view reload")
}

func TestLogin_ClosesModalAndShowsToast(t *testing.T) {
	f := newFixture(t)
	f.modals.Show(ui.ModalLogin)
	f.login(t)

	if f.modals.IsOpen(ui.ModalLogin) {
		t.Error("expected the login modal closed")
	}
	toast := f.lastToast(t)
	if toast.Message != "Вы успешно вошли!" || toast.Severity != ui.Success {
		t.Errorf("unexpected toast: %+v", toast)
	}
}

func TestLogin_RejectionShowsServerMessageVerbatim(t *testing.T) {
	f := newFixture(t)
	f.stub.AddUser("alice", "secret123", false)

	err := f.ctrl.Login(context.Background(), "alice", "wrong")
	var inlineErr *InlineError
	if !errors.As(err, &inlineErr) {
		t.Fatalf("expected *InlineError, got %T: %v", err, err)
	}
	if inlineErr.Message != "Invalid username or password" {
		t.Errorf("expected the server message verbatim, got %q", inlineErr.Message)
	}
	if len(f.toasts.Active()) != 0 {
		t.Error("expected no toast on an inline rejection")
	}
}

func TestLogin_TransportFailureShowsConnectionMessage(t *testing.T) {
	f := newFixture(t)
	// A controller against a dead endpoint.
	client := api.New("http://127.0.0.1:1")
	sessions := session.NewManager(client, &memStore{})
	ctrl := New(Config{
		Client:   client,
		Sessions: sessions,
		Toasts:   f.toasts,
		Modals:   f.modals,
		Feed:     feed.New(client, sessions),
	})

	err := ctrl.Login(context.Background(), "alice", "secret123")
	var inlineErr *InlineError
	if !errors.As(err, &inlineErr) {
		t.Fatalf("expected *InlineError, got %T: %v", err, err)
	}
	if inlineErr.Message != locale.T(locale.ConnectionError) {
		t.Errorf("expected %q, got %q", locale.T(locale.ConnectionError), inlineErr.Message)
	}
}

func TestLogout_ShowsToastAndSchedulesReload(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.ctrl.Logout(context.Background())
	toast := f.lastToast(t)
	if toast.Message != "Вы вышли из системы" || toast.Severity != ui.Info {
		t.Errorf("unexpected toast: %+v", toast)
	}
	f.waitReload(t)
}

func TestRegister_MismatchRejectedWithoutNetwork(t *testing.T) {
	f := newFixture(t)
	before := f.requestCount()

	err := f.ctrl.Register(context.Background(), RegisterForm{
		Username:        "bob",
		Email:           "bob@example.com",
		Password:        "secret123",
		PasswordConfirm: "different",
	})
	var inlineErr *InlineError
	if !errors.As(err, &inlineErr) {
		t.Fatalf("expected *InlineError, got %T: %v", err, err)
	}
	if inlineErr.Message != "Пароли не совпадают" {
		t.Errorf("unexpected message: %q", inlineErr.Message)
	}
	if got := f.requestCount(); got != before {
		t.Errorf("expected no network traffic, got %d extra requests", got-before)
	}
}

func TestRegister_BadUsernameRejectedWithoutNetwork(t *testing.T) {
	f := newFixture(t)
	before := f.requestCount()

	err := f.ctrl.Register(context.Background(), RegisterForm{
		Username:        "bad name",
		Email:           "bob@example.com",
		Password:        "secret123",
		PasswordConfirm: "secret123",
	})
	var inlineErr *InlineError
	if !errors.As(err, &inlineErr) {
		t.Fatalf("expected *InlineError, got %T: %v", err, err)
	}
	if got := f.requestCount(); got != before {
		t.Errorf("expected no network traffic, got %d extra requests", got-before)
	}
}

func TestRegister_SuccessHandsOffToLogin(t *testing.T) {
	f := newFixture(t)
	f.modals.Show(ui.ModalRegister)

	err := f.ctrl.Register(context.Background(), RegisterForm{
		Username:        "bob",
		Email:           "bob@example.com",
		Password:        "secret123",
		PasswordConfirm: "secret123",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if f.modals.IsOpen(ui.ModalRegister) {
		t.Error("expected the register modal closed")
	}
	if !f.modals.IsOpen(ui.ModalLogin) {
		t.Error("expected the login modal opened")
	}
	toast := f.lastToast(t)
	if toast.Message != locale.RegistrationSuccess("bob#1000") {
		t.Errorf("unexpected toast: %q", toast.Message)
	}
}

func TestRegister_DuplicateUsernameSurfacesInline(t *testing.T) {
	f := newFixture(t)
	f.stub.AddUser("bob", "secret123", false)

	err := f.ctrl.Register(context.Background(), RegisterForm{
		Username:        "bob",
		Email:           "bob@example.com",
		Password:        "secret123",
		PasswordConfirm: "secret123",
	})
	var inlineErr *InlineError
	if !errors.As(err, &inlineErr) {
		t.Fatalf("expected *InlineError, got %T: %v", err, err)
	}
	if inlineErr.Message != "User with this username already exists" {
		t.Errorf("unexpected message: %q", inlineErr.Message)
	}
}

func TestRegister_GeneratedPasswordSkipsConfirmation(t *testing.T) {
	f := newFixture(t)
	pwd, _, err := f.ctrl.GeneratePassword(context.Background())
	if err != nil {
		t.Fatalf("generate password: %v", err)
	}

	err = f.ctrl.Register(context.Background(), RegisterForm{
		Username: "bob",
		Email:    "bob@example.com",
		Password: pwd,
	})
	if err != nil {
		t.Fatalf("expected the empty confirmation to be accepted, got %v", err)
	}
}

func TestPasswordEdited_RestoresConfirmationRequirement(t *testing.T) {
	f := newFixture(t)
	if _, _, err := f.ctrl.GeneratePassword(context.Background()); err != nil {
		t.Fatalf("generate password: %v", err)
	}
	if !f.ctrl.PasswordGenerated() {
		t.Fatal("expected the generated flag set")
	}

	f.ctrl.PasswordEdited()
	if f.ctrl.PasswordGenerated() {
		t.Fatal("expected the generated flag cleared")
	}

	err := f.ctrl.Register(context.Background(), RegisterForm{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret123",
	})
	var inlineErr *InlineError
	if !errors.As(err, &inlineErr) {
		t.Fatalf("expected a mismatch rejection, got %v", err)
	}
}
