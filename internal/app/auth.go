package app

import (
	"context"

	"github.com/clipdeck/clipdeck/internal/api"
	"github.com/clipdeck/clipdeck/internal/locale"
	"github.com/clipdeck/clipdeck/internal/ui"
	"github.com/clipdeck/clipdeck/internal/validate"
)

// Login exchanges credentials for a session. A non-nil return is the
// inline error for the login form; the server's message is shown verbatim
// on rejection, the generic connection message only on transport failure.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	if err := c.sessions.Login(ctx, username, password); err != nil {
		return inline(err, locale.ConnectionError)
	}

	c.modals.Close(ui.ModalLogin)
	c.toasts.Show(locale.T(locale.LoginSuccess), ui.Success)
	return nil
}

// Logout is best-effort on the wire and always succeeds locally. The
// view fully resets to the unauthenticated state after a short delay.
func (c *Controller) Logout(ctx context.Context) {
	_ = c.sessions.Logout(ctx)
	c.toasts.Show(locale.T(locale.LoggedOut), ui.Info)
	c.scheduleReload()
}

// RegisterForm is the registration dialog's state at submission time.
type RegisterForm struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	DisplayName     string
}

// Register submits the form. Field limits and the confirmation match are
// checked locally without any network call; uniqueness stays server-side
// and surfaces inline.
func (c *Controller) Register(ctx context.Context, form RegisterForm) error {
	for _, msg := range []string{
		validate.Username(form.Username),
		validate.Password(form.Password),
		validate.DisplayName(form.DisplayName),
	} {
		if msg != "" {
			return &InlineError{Message: msg}
		}
	}

	c.mu.Lock()
	generated := c.passwordGenerated
	c.mu.Unlock()

	if !generated {
		if form.PasswordConfirm == "" || form.Password != form.PasswordConfirm {
			return &InlineError{Message: locale.T(locale.PasswordMismatch)}
		}
	}

	req := api.RegisterRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	}
	if form.DisplayName != "" {
		req.DisplayName = &form.DisplayName
	}

	user, err := c.client.Register(ctx, req)
	if err != nil {
		return inline(err, locale.ConnectionError)
	}

	c.modals.Close(ui.ModalRegister)
	c.toasts.Show(locale.RegistrationSuccess(user.Tag), ui.Success)
	c.modals.Show(ui.ModalLogin)
	return nil
}
