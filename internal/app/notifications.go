package app

import (
	"context"

	"github.com/clipdeck/clipdeck/internal/feed"
)

// ToggleNotificationPanel opens or closes the panel. The list is fetched
// lazily on open; closing fetches nothing.
func (c *Controller) ToggleNotificationPanel(ctx context.Context) (entries []feed.Entry, open bool, err error) {
	c.mu.Lock()
	c.panelOpen = !c.panelOpen
	open = c.panelOpen
	c.mu.Unlock()

	if !open {
		return nil, false, nil
	}
	entries, err = c.feed.Load(ctx)
	return entries, true, err
}

// CloseNotificationPanel handles the outside-click dismissal.
func (c *Controller) CloseNotificationPanel() {
	c.mu.Lock()
	c.panelOpen = false
	c.mu.Unlock()
}

// NotificationPanelOpen reports the panel's visibility flag.
func (c *Controller) NotificationPanelOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panelOpen
}

// MarkNotificationRead acknowledges one entry; the unread styling clears
// optimistically and the badge refreshes afterwards.
func (c *Controller) MarkNotificationRead(ctx context.Context, id int64) {
	_ = c.feed.MarkRead(ctx, id)
}

// MarkAllNotificationsRead acknowledges everything and refreshes the
// panel and badge.
func (c *Controller) MarkAllNotificationsRead(ctx context.Context) {
	_ = c.feed.MarkAllRead(ctx)
}

// Badge renders the unread indicator from the cached count.
func (c *Controller) Badge() (string, bool) {
	return feed.BadgeText(c.feed.UnreadCount())
}
