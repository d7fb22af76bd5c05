package app

import (
	"context"
	"fmt"
	"log"

	"github.com/clipdeck/clipdeck/internal/locale"
	"github.com/clipdeck/clipdeck/internal/ui"
)

// ShowMyChannel navigates to the signed-in user's channel, creating one
// named after them when none exists yet.
func (c *Controller) ShowMyChannel(ctx context.Context) {
	current := c.sessions.Current()
	if !current.Authenticated() {
		c.toasts.Show(locale.T(locale.LoginRequired), ui.Error)
		return
	}

	channels, err := c.client.Channels(ctx)
	if err != nil {
		log.Printf("app: channel list failed: %v", err)
		c.toasts.Show(locale.T(locale.GenericError), ui.Error)
		return
	}
	for _, ch := range channels {
		if ch.AuthorID == current.User.ID {
			c.navigateTo(fmt.Sprintf("/channel/%d", ch.ID))
			return
		}
	}

	name := current.User.DisplayName
	if name == "" {
		name = current.User.Username
	}
	created, err := c.client.CreateChannel(ctx, name, "")
	if err != nil {
		log.Printf("app: channel create failed: %v", err)
		c.toasts.Show(locale.T(locale.GenericError), ui.Error)
		return
	}
	c.navigateTo(fmt.Sprintf("/channel/%d", created.ID))
}

// CreateUserChannel creates a channel with the given name and navigates
// to it after the toast has had its moment.
func (c *Controller) CreateUserChannel(ctx context.Context, name string) {
	created, err := c.client.CreateChannel(ctx, name, locale.T(locale.MyChannelDefault))
	if err != nil {
		log.Printf("app: channel create failed: %v", err)
		c.toasts.Show(locale.T(locale.GenericError), ui.Error)
		return
	}
	c.toasts.Show(locale.T(locale.ChannelCreated), ui.Success)
	c.scheduleNavigate(fmt.Sprintf("/channel/%d", created.ID))
}

// ShowSubscriptions jumps to the first subscribed channel, or reports
// that there are none.
func (c *Controller) ShowSubscriptions(ctx context.Context) {
	if !c.sessions.Current().Authenticated() {
		c.toasts.Show(locale.T(locale.LoginRequired), ui.Error)
		return
	}

	subs, err := c.client.MySubscriptions(ctx)
	if err != nil {
		log.Printf("app: subscription list failed: %v", err)
		c.toasts.Show(locale.T(locale.GenericError), ui.Error)
		return
	}
	if len(subs) == 0 {
		c.toasts.Show(locale.T(locale.NoSubscriptions), ui.Info)
		return
	}
	c.navigateTo(fmt.Sprintf("/channel/%d", subs[0].ChannelID))
}

func (c *Controller) navigateTo(path string) {
	if c.navigate != nil {
		c.navigate(path)
	}
}
