package app

import (
	"context"

	"github.com/clipdeck/clipdeck/internal/locale"
	"github.com/clipdeck/clipdeck/internal/ui"
)

// StrengthIndicator is the rendered strength bar: a proportional width
// and a colored label from the fixed weak/medium/strong/invalid taxonomy.
type StrengthIndicator struct {
	Level string
	Label string
	Color string
	Width int
}

var strengthColors = map[string]string{
	"weak":    "#f5576c",
	"medium":  "#ff9800",
	"strong":  "#4caf50",
	"invalid": "#f5576c",
}

var strengthWidths = map[string]int{
	"weak":    33,
	"medium":  66,
	"strong":  100,
	"invalid": 10,
}

var strengthLabels = map[string]locale.Message{
	"weak":    locale.StrengthWeak,
	"medium":  locale.StrengthMedium,
	"strong":  locale.StrengthStrong,
	"invalid": locale.StrengthInvalid,
}

func buildIndicator(level, message string) *StrengthIndicator {
	label := locale.T(strengthLabels[level])
	if level == "invalid" && message != "" {
		label = message
	}
	return &StrengthIndicator{
		Level: level,
		Label: label,
		Color: strengthColors[level],
		Width: strengthWidths[level],
	}
}

// CheckPasswordStrength asks the server-side evaluator. Empty input
// clears the indicator (nil, nil). Evaluation errors are returned for the
// caller to ignore; the original UI simply left the bar untouched.
func (c *Controller) CheckPasswordStrength(ctx context.Context, password string) (*StrengthIndicator, error) {
	if password == "" {
		return nil, nil
	}
	result, err := c.client.PasswordStrength(ctx, password)
	if err != nil {
		return nil, err
	}
	return buildIndicator(result.Strength, result.Message), nil
}

// GeneratePassword fetches a server-generated password. The generated
// flag suppresses the confirmation requirement until the user edits the
// field manually.
func (c *Controller) GeneratePassword(ctx context.Context) (string, *StrengthIndicator, error) {
	result, err := c.client.GeneratePassword(ctx)
	if err != nil {
		return "", nil, err
	}

	c.mu.Lock()
	c.passwordGenerated = true
	c.mu.Unlock()

	c.toasts.Show(locale.T(locale.PasswordGenerated), ui.Info)
	return result.Password, buildIndicator(result.Strength, ""), nil
}

// PasswordEdited is called on every manual change to the password field:
// a server-generated password is no longer in effect and the confirmation
// field reappears.
func (c *Controller) PasswordEdited() {
	c.mu.Lock()
	c.passwordGenerated = false
	c.mu.Unlock()
}

// PasswordGenerated reports whether the current password came from the
// server; views use it to hide the confirmation field.
func (c *Controller) PasswordGenerated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.passwordGenerated
}

// PasswordMatchStatus renders the live match hint below the confirmation
// field. Visible is false while the confirmation is empty.
func PasswordMatchStatus(password, confirm string) (text string, match, visible bool) {
	if confirm == "" {
		return "", false, false
	}
	if password == confirm {
		return "✓ " + locale.T(locale.PasswordsMatch), true, true
	}
	return "✗ " + locale.T(locale.PasswordMismatch), false, true
}
