package api

import "time"

// User is the profile shape returned by /api/auth/me and login. Fields the
// UI never reads are still carried so callers can round-trip them.
type User struct {
	ID                   int    `json:"id"`
	Username             string `json:"username"`
	DisplayName          string `json:"display_name"`
	Tag                  string `json:"tag"`
	Email                string `json:"email,omitempty"`
	IsAuthor             bool   `json:"is_author"`
	IsAdmin              bool   `json:"is_admin"`
	IsModerator          bool   `json:"is_moderator"`
	IsVIP                bool   `json:"is_vip"`
	Mexels               int    `json:"mexels"`
	AvatarURL            string `json:"avatar_url,omitempty"`
	Bio                  string `json:"bio,omitempty"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	CreatedAt            string `json:"created_at"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterRequest struct {
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName *string `json:"display_name"`
}

type Channel struct {
	ID              int    `json:"id"`
	AuthorID        int    `json:"author_id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	SubscriberCount int    `json:"subscriber_count"`
	CreatedAt       string `json:"created_at"`
}

type Subscription struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	ChannelID int    `json:"channel_id"`
	IsSponsor bool   `json:"is_sponsor"`
	CreatedAt string `json:"created_at"`
}

type Notification struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

type Video struct {
	ID           int    `json:"id"`
	ChannelID    int    `json:"channel_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Duration     int    `json:"duration"`
	Category     string `json:"category"`
	Tags         string `json:"tags"`
	AccessLevel  string `json:"access_level"`
	Status       string `json:"status"`
	ViewsCount   int    `json:"views_count"`
	ThumbnailURL string `json:"thumbnail_url"`
	CreatedAt    string `json:"created_at"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PasswordStrength is the server-side strength verdict: one of weak,
// medium, strong, invalid. Message is set for invalid passwords.
type PasswordStrength struct {
	Strength string `json:"strength"`
	Message  string `json:"message,omitempty"`
}

type GeneratedPassword struct {
	Password string `json:"password"`
	Strength string `json:"strength"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses the API's created_at values, which are ISO 8601
// with or without fractional seconds and time zone.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
