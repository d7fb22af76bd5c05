package app

import (
	"context"
	"testing"
)

func TestToggleNotificationPanel_LazyLoadsOnOpen(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.stub.AddNotification("alice", "new video", false, "")

	entries, open, err := f.ctrl.ToggleNotificationPanel(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !open || !f.ctrl.NotificationPanelOpen() {
		t.Fatal("expected the panel open")
	}
	if len(entries) != 1 || entries[0].Content != "new video" {
		t.Errorf("unexpected entries: %+v", entries)
	}

	before := f.requestCount()
	if _, open, _ := f.ctrl.ToggleNotificationPanel(context.Background()); open {
		t.Fatal("expected the panel closed on second toggle")
	}
	if got := f.requestCount(); got != before {
		t.Errorf("expected closing to fetch nothing, got %d extra requests", got-before)
	}
}

func TestCloseNotificationPanel_OutsideClick(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	if _, _, err := f.ctrl.ToggleNotificationPanel(context.Background()); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	f.ctrl.CloseNotificationPanel()
	if f.ctrl.NotificationPanelOpen() {
		t.Error("expected the panel closed")
	}
}

func TestBadge_ReflectsUnreadCount(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.stub.AddNotification("alice", "one", false, "")
	f.stub.AddNotification("alice", "two", false, "")

	// Login already refreshed the badge once; mark-read refreshes again.
	f.ctrl.MarkAllNotificationsRead(context.Background())
	if text, visible := f.ctrl.Badge(); visible {
		t.Errorf("expected the badge hidden, got %q", text)
	}
}

func TestRestore_PopulatesUnreadBadge(t *testing.T) {
	f := newFixture(t)
	f.stub.AddUser("alice", "secret123", false)
	f.store.token = f.stub.SessionToken("alice")
	f.stub.AddNotification("alice", "one", false, "")
	f.stub.AddNotification("alice", "two", false, "")

	if s := f.sessions.Restore(context.Background()); !s.Authenticated() {
		t.Fatal("expected the persisted token to restore a session")
	}
	if text, visible := f.ctrl.Badge(); !visible || text != "2" {
		t.Errorf("expected badge %q after restore, got %q (visible=%v)", "2", text, visible)
	}
}

func TestMarkNotificationRead_ClearsEntryStyling(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	id := f.stub.AddNotification("alice", "new video", false, "")

	entries, _, err := f.ctrl.ToggleNotificationPanel(context.Background())
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !entries[0].Unread {
		t.Fatal("expected the entry unread before acknowledgment")
	}

	f.ctrl.MarkNotificationRead(context.Background(), id)
	if text, visible := f.ctrl.Badge(); visible {
		t.Errorf("expected the badge hidden after acknowledgment, got %q", text)
	}
}
