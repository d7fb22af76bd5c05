package app

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/clipdeck/clipdeck/internal/api"
	"github.com/clipdeck/clipdeck/internal/feed"
	"github.com/clipdeck/clipdeck/internal/locale"
	"github.com/clipdeck/clipdeck/internal/session"
	"github.com/clipdeck/clipdeck/internal/thumbnail"
	"github.com/clipdeck/clipdeck/internal/ui"
	"github.com/clipdeck/clipdeck/internal/upload"
)

// InlineError is a form-level message ready for display next to the
// field that caused it.
type InlineError struct {
	Message string
	cause   error
}

func (e *InlineError) Error() string { return e.Message }
func (e *InlineError) Unwrap() error { return e.cause }

// Controller wires the flow components to the UI state managers. It is
// the explicit replacement for the original's global handlers: every
// dependency is injected, every state change goes through an observable
// manager.
type Controller struct {
	client    *api.Client
	sessions  *session.Manager
	toasts    *ui.ToastManager
	modals    *ui.ModalManager
	feed      *feed.Feed
	uploads   *upload.Flow
	pending   *thumbnail.Pending
	extractor *thumbnail.Extractor

	// reload re-renders the whole view; navigate moves to a page path.
	// Both are scheduled after reloadDelay, matching the original's
	// deliberate pause so the user sees the toast first.
	reload      func()
	navigate    func(path string)
	reloadDelay time.Duration

	mu                sync.Mutex
	passwordGenerated bool
	panelOpen         bool
}

type Config struct {
	Client    *api.Client
	Sessions  *session.Manager
	Toasts    *ui.ToastManager
	Modals    *ui.ModalManager
	Feed      *feed.Feed
	Uploads   *upload.Flow
	Pending   *thumbnail.Pending
	Extractor *thumbnail.Extractor

	Reload      func()
	Navigate    func(path string)
	ReloadDelay time.Duration
}

func New(cfg Config) *Controller {
	if cfg.ReloadDelay <= 0 {
		cfg.ReloadDelay = time.Second
	}
	c := &Controller{
		client:      cfg.Client,
		sessions:    cfg.Sessions,
		toasts:      cfg.Toasts,
		modals:      cfg.Modals,
		feed:        cfg.Feed,
		uploads:     cfg.Uploads,
		pending:     cfg.Pending,
		extractor:   cfg.Extractor,
		reload:      cfg.Reload,
		navigate:    cfg.Navigate,
		reloadDelay: cfg.ReloadDelay,
	}

	// The unread badge is fetched once per sign-in, whether the session
	// comes from the login form or from a token restored at startup.
	if c.sessions != nil && c.feed != nil {
		c.sessions.OnChange(func(s session.Session) {
			if !s.Authenticated() {
				return
			}
			if _, err := c.feed.RefreshUnread(context.Background()); err != nil {
				log.Printf("app: unread refresh failed: %v", err)
			}
		})
	}
	return c
}

func (c *Controller) scheduleReload() {
	if c.reload == nil {
		return
	}
	time.AfterFunc(c.reloadDelay, c.reload)
}

func (c *Controller) scheduleNavigate(path string) {
	if c.navigate == nil {
		return
	}
	time.AfterFunc(c.reloadDelay, func() { c.navigate(path) })
}

// inline converts an error into the message the form shows: the server's
// own message for structured rejections, a localized fallback for
// transport failures.
func inline(err error, fallback locale.Message) *InlineError {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return &InlineError{Message: apiErr.Message, cause: err}
	}
	return &InlineError{Message: locale.T(fallback), cause: err}
}
