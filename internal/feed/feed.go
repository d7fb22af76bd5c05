package feed

import (
	"context"
	"html"
	"log"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/clipdeck/clipdeck/internal/api"
	"github.com/clipdeck/clipdeck/internal/session"
)

// SessionSource exposes the current session; satisfied by
// *session.Manager.
type SessionSource interface {
	Current() session.Session
}

// Entry is one notification prepared for rendering: content escaped
// against markup injection, timestamp localized, unread styling flag.
type Entry struct {
	ID      int64
	Content string
	Time    string
	Unread  bool
}

// Feed is the client-side view of server-owned notifications. The server
// is the source of truth; the feed holds a read-only cached copy and
// issues mutation requests. Every operation is a silent no-op without an
// active session.
type Feed struct {
	client   *api.Client
	sessions SessionSource

	// Throttles unsolicited unread-count polling. Refreshes that follow
	// a mark-read mutation skip it, so the badge never lags behind an
	// acknowledgement.
	limiter *rate.Limiter

	mu        sync.Mutex
	lastCount int
	entries   []Entry
}

func New(client *api.Client, sessions SessionSource) *Feed {
	return &Feed{
		client:   client,
		sessions: sessions,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

// SetRefreshLimit replaces the unread-refresh throttle. Call before the
// feed is shared between goroutines.
func (f *Feed) SetRefreshLimit(l *rate.Limiter) {
	f.limiter = l
}

// BadgeText renders the unread badge: hidden at zero, capped at "99+".
func BadgeText(count int) (text string, visible bool) {
	if count <= 0 {
		return "", false
	}
	if count > 99 {
		return "99+", true
	}
	return strconv.Itoa(count), true
}

// RefreshUnread fetches the unread count, falling back to the cached
// value when the session is absent, the refresh is throttled, or the
// request fails.
func (f *Feed) RefreshUnread(ctx context.Context) (int, error) {
	return f.refreshUnread(ctx, false)
}

// refreshUnread is the shared fetch path. force bypasses the polling
// throttle for refreshes triggered by a mutation.
func (f *Feed) refreshUnread(ctx context.Context, force bool) (int, error) {
	if !f.sessions.Current().Authenticated() {
		return 0, nil
	}
	if !force && !f.limiter.Allow() {
		return f.UnreadCount(), nil
	}

	count, err := f.client.UnreadCount(ctx)
	if err != nil {
		return f.UnreadCount(), err
	}

	f.mu.Lock()
	f.lastCount = count
	f.mu.Unlock()
	return count, nil
}

// UnreadCount returns the last successfully fetched count.
func (f *Feed) UnreadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastCount
}

// Load fetches the notification list, fired lazily when the panel opens.
func (f *Feed) Load(ctx context.Context) ([]Entry, error) {
	if !f.sessions.Current().Authenticated() {
		return nil, nil
	}

	notifs, err := f.client.Notifications(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(notifs))
	for _, n := range notifs {
		entries = append(entries, Entry{
			ID:      n.ID,
			Content: html.EscapeString(n.Content),
			Time:    formatTimestamp(n.CreatedAt),
			Unread:  !n.IsRead,
		})
	}

	f.mu.Lock()
	f.entries = entries
	f.mu.Unlock()
	return f.Entries(), nil
}

// Entries returns a snapshot of the cached list.
func (f *Feed) Entries() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := make([]Entry, len(f.entries))
	copy(snapshot, f.entries)
	return snapshot
}

// MarkRead acknowledges one notification. The unread styling is cleared
// optimistically before the server answers; the request outcome is
// carried in the Result for callers that care.
func (f *Feed) MarkRead(ctx context.Context, id int64) api.Result {
	if !f.sessions.Current().Authenticated() {
		return api.Result{}
	}

	f.mu.Lock()
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries[i].Unread = false
		}
	}
	f.mu.Unlock()

	result := api.Result{Err: f.client.MarkNotificationRead(ctx, id)}
	if result.Err != nil {
		log.Printf("feed: mark read %d failed: %v", id, result.Err)
	}
	if _, err := f.refreshUnread(ctx, true); err != nil {
		log.Printf("feed: unread refresh failed: %v", err)
	}
	return result
}

// MarkAllRead acknowledges everything, then refreshes both the list and
// the count.
func (f *Feed) MarkAllRead(ctx context.Context) api.Result {
	if !f.sessions.Current().Authenticated() {
		return api.Result{}
	}

	result := api.Result{Err: f.client.MarkAllNotificationsRead(ctx)}
	if result.Err != nil {
		log.Printf("feed: mark all read failed: %v", result.Err)
	}
	if _, err := f.Load(ctx); err != nil {
		log.Printf("feed: reload failed: %v", err)
	}
	if _, err := f.refreshUnread(ctx, true); err != nil {
		log.Printf("feed: unread refresh failed: %v", err)
	}
	return result
}

// formatTimestamp renders created_at the way the original UI did for the
// ru-RU locale. Unparseable values pass through untouched.
func formatTimestamp(s string) string {
	t, ok := api.ParseTimestamp(s)
	if !ok {
		return s
	}
	return t.Format("02.01.2006, 15:04:05")
}
