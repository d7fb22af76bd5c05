package validate

import (
	"regexp"

	"github.com/clipdeck/clipdeck/internal/locale"
)

// Local form limits, matching the platform's counters. The server remains
// authoritative; these only catch obvious mistakes before a request is
// built.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 2000
	MaxDisplayNameLength = 80

	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 6
)

var usernameChars = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)

// Messages are localized like every other form string so a rejection
// reads the same whether it came from this package or the server.
func checkLen(value string, max int, field locale.Message) string {
	if len([]rune(value)) > max {
		return locale.FieldTooLong(field, max)
	}
	return ""
}

func Title(s string) string       { return checkLen(s, MaxTitleLength, locale.FieldTitle) }
func Description(s string) string { return checkLen(s, MaxDescriptionLength, locale.FieldDescription) }
func DisplayName(s string) string { return checkLen(s, MaxDisplayNameLength, locale.FieldDisplayName) }

func Username(s string) string {
	if n := len([]rune(s)); n < MinUsernameLength || n > MaxUsernameLength {
		return locale.UsernameLength(MinUsernameLength, MaxUsernameLength)
	}
	if !usernameChars.MatchString(s) {
		return locale.T(locale.UsernameChars)
	}
	return ""
}

func Password(s string) string {
	if len(s) < MinPasswordLength {
		return locale.PasswordMinLength(MinPasswordLength)
	}
	return ""
}

// FieldLimits feeds the form character counters.
func FieldLimits() map[string]int {
	return map[string]int{
		"title":       MaxTitleLength,
		"description": MaxDescriptionLength,
		"displayName": MaxDisplayNameLength,
		"username":    MaxUsernameLength,
	}
}
