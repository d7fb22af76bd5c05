// Package platformtest is an in-memory stand-in for the video platform's
// REST API. It implements exactly the contract the client assumes, and
// nothing behind it, so package tests and offline demos can run against
// a real HTTP surface.
package platformtest

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/clipdeck/clipdeck/internal/api"
	"github.com/clipdeck/clipdeck/internal/httputil"
)

type userRecord struct {
	user         api.User
	passwordHash []byte
}

type notifRecord struct {
	userID int
	notif  api.Notification
}

// UploadedVideo records what a multipart upload delivered, for test
// assertions.
type UploadedVideo struct {
	Video         api.Video
	OwnerID       int
	FileName      string
	FileSize      int64
	ThumbnailName string
	ThumbnailSize int64
	Fields        map[string]string
}

// Server is the in-memory platform. All state is guarded by one mutex;
// the fixture is not a performance target.
type Server struct {
	router chi.Router

	mu            sync.Mutex
	users         map[int]*userRecord
	byUsername    map[string]int
	sessions      map[string]int
	notifications []*notifRecord
	channels      []api.Channel
	subscriptions []api.Subscription
	uploads       []UploadedVideo

	nextUserID    int
	nextChannelID int
	nextVideoID   int
	nextSubID     int
	nextNotifID   int64
}

func New() *Server {
	s := &Server{
		users:      make(map[int]*userRecord),
		byUsername: make(map[string]int),
		sessions:   make(map[string]int),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	r := chi.NewRouter()

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/password-strength", s.handlePasswordStrength)
		r.Get("/generate-password", s.handleGeneratePassword)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/logout", s.handleLogout)
			r.Get("/me", s.handleMe)
		})
	})

	r.Get("/api/channels", s.handleListChannels)
	r.With(s.requireAuth).Post("/api/channels", s.handleCreateChannel)
	r.With(s.requireAuth).Get("/api/subscriptions/my", s.handleMySubscriptions)

	r.Get("/api/videos/categories", s.handleCategories)
	r.With(s.requireAuth).Post("/api/videos", s.handleUploadVideo)

	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.handleListNotifications)
		r.Get("/unread-count", s.handleUnreadCount)
		r.Post("/{id}/read", s.handleMarkRead)
		r.Post("/read-all", s.handleMarkAllRead)
	})

	s.router = r
}

// AddUser seeds an account with a bcrypt-hashed password, the way the
// real backend stores credentials.
func (s *Server) AddUser(username, password string, admin bool) api.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	user := api.User{
		ID:          s.nextUserID,
		Username:    username,
		DisplayName: username,
		Tag:         username + "#1000",
		Email:       username + "@example.com",
		IsAdmin:     admin,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	s.users[user.ID] = &userRecord{user: user, passwordHash: hash}
	s.byUsername[username] = user.ID
	return user
}

// SessionToken opens a session for a seeded user and returns its bearer
// token.
func (s *Server) SessionToken(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byUsername[username]
	if !ok {
		panic("platformtest: unknown user " + username)
	}
	token := newToken()
	s.sessions[token] = id
	return token
}

// AddNotification seeds a notification; createdAt may be empty for "now".
func (s *Server) AddNotification(username, content string, read bool, createdAt string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byUsername[username]
	if !ok {
		panic("platformtest: unknown user " + username)
	}
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}
	s.nextNotifID++
	s.notifications = append(s.notifications, &notifRecord{
		userID: id,
		notif: api.Notification{
			ID:        s.nextNotifID,
			Type:      "system",
			Content:   content,
			IsRead:    read,
			CreatedAt: createdAt,
		},
	})
	return s.nextNotifID
}

// AddChannel seeds a channel owned by the given user.
func (s *Server) AddChannel(username, name, description string) api.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	authorID, ok := s.byUsername[username]
	if !ok {
		panic("platformtest: unknown user " + username)
	}
	return s.addChannelLocked(authorID, name, description)
}

func (s *Server) addChannelLocked(authorID int, name, description string) api.Channel {
	s.nextChannelID++
	ch := api.Channel{
		ID:          s.nextChannelID,
		AuthorID:    authorID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	s.channels = append(s.channels, ch)
	return ch
}

// Subscribe seeds a subscription of the user to the channel.
func (s *Server) Subscribe(username string, channelID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.byUsername[username]
	if !ok {
		panic("platformtest: unknown user " + username)
	}
	s.nextSubID++
	s.subscriptions = append(s.subscriptions, api.Subscription{
		ID:        s.nextSubID,
		UserID:    userID,
		ChannelID: channelID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// Uploads returns everything POST /api/videos accepted, in order.
func (s *Server) Uploads() []UploadedVideo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]UploadedVideo, len(s.uploads))
	copy(out, s.uploads)
	return out
}

// SessionCount reports the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header is required")
			return
		}
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header format")
			return
		}

		s.mu.Lock()
		_, ok := s.sessions[token]
		s.mu.Unlock()
		if !ok {
			httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired session token")
			return
		}

		ctx := context.WithValue(r.Context(), sessionTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type contextKey string

const sessionTokenKey contextKey = "sessionToken"

// currentUser resolves the session stashed by requireAuth.
func (s *Server) currentUser(r *http.Request) (api.User, string, bool) {
	token, _ := r.Context().Value(sessionTokenKey).(string)
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.sessions[token]
	if !ok {
		return api.User{}, "", false
	}
	rec, ok := s.users[userID]
	if !ok {
		return api.User{}, "", false
	}
	return rec.user, token, true
}

func newToken() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
