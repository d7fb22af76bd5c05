package app

import (
	"context"
	"testing"

	"github.com/clipdeck/clipdeck/internal/locale"
	"github.com/clipdeck/clipdeck/internal/ui"
)

func TestShowMyChannel_RequiresSession(t *testing.T) {
	f := newFixture(t)
	f.ctrl.ShowMyChannel(context.Background())

	toast := f.lastToast(t)
	if toast.Message != locale.T(locale.LoginRequired) || toast.Severity != ui.Error {
		t.Errorf("unexpected toast: %+v", toast)
	}
}

func TestShowMyChannel_NavigatesToExistingChannel(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ch := f.stub.AddChannel("alice", "Alice's corner", "")

	f.ctrl.ShowMyChannel(context.Background())

	want := "/channel/1"
	if ch.ID != 1 {
		t.Fatalf("expected channel id 1, got %d", ch.ID)
	}
	if got := f.waitNavigated(t); got != want {
		t.Errorf("expected navigation to %q, got %q", want, got)
	}
}

func TestShowMyChannel_CreatesChannelNamedAfterUser(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.ctrl.ShowMyChannel(context.Background())
	f.waitNavigated(t)

	channels, err := f.client.Channels(context.Background())
	if err != nil {
		t.Fatalf("channels: %v", err)
	}
	if len(channels) != 1 {
		t.Fatalf("expected 1 channel, got %d", len(channels))
	}
	// AddUser seeds the display name from the username.
	if channels[0].Name != "alice" {
		t.Errorf("expected channel named after the user, got %q", channels[0].Name)
	}
}

func TestCreateUserChannel_ToastsThenNavigates(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.ctrl.CreateUserChannel(context.Background(), "Gaming corner")
	toast := f.lastToast(t)
	if toast.Message != "Канал создан!" || toast.Severity != ui.Success {
		t.Errorf("unexpected toast: %+v", toast)
	}
	if got := f.waitNavigated(t); got != "/channel/1" {
		t.Errorf("expected navigation to /channel/1, got %q", got)
	}
}

func TestShowSubscriptions_EmptyListShowsInfoToast(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.ctrl.ShowSubscriptions(context.Background())
	toast := f.lastToast(t)
	if toast.Message != "Нет подписок" || toast.Severity != ui.Info {
		t.Errorf("unexpected toast: %+v", toast)
	}
}

func TestShowSubscriptions_NavigatesToFirstChannel(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ch := f.stub.AddChannel("alice", "Some channel", "")
	f.stub.Subscribe("alice", ch.ID)

	f.ctrl.ShowSubscriptions(context.Background())
	if got := f.waitNavigated(t); got != "/channel/1" {
		t.Errorf("expected navigation to /channel/1, got %q", got)
	}
}
