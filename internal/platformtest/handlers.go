package platformtest

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/clipdeck/clipdeck/internal/api"
	"github.com/clipdeck/clipdeck/internal/httputil"
)

type registerRequest struct {
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName *string `json:"display_name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Request body is required")
		return
	}

	if msg := validateUsername(req.Username); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", msg)
		return
	}
	if req.Email == "" {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Email is required")
		return
	}
	if msg := validatePassword(req.Password); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", msg)
		return
	}

	s.mu.Lock()
	if _, exists := s.byUsername[req.Username]; exists {
		s.mu.Unlock()
		httputil.WriteError(w, http.StatusConflict, "CONFLICT", "User with this username already exists")
		return
	}
	s.mu.Unlock()

	user := s.AddUser(req.Username, req.Password, false)
	if req.DisplayName != nil && *req.DisplayName != "" {
		s.mu.Lock()
		rec := s.users[user.ID]
		rec.user.DisplayName = *req.DisplayName
		user = rec.user
		s.mu.Unlock()
	}
	httputil.WriteJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Request body is required")
		return
	}
	if req.Username == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Username and password are required")
		return
	}

	s.mu.Lock()
	id, ok := s.byUsername[req.Username]
	var rec *userRecord
	if ok {
		rec = s.users[id]
	}
	s.mu.Unlock()

	if rec == nil || bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(req.Password)) != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password")
		return
	}

	token := s.SessionToken(req.Username)
	httputil.WriteJSON(w, http.StatusOK, api.LoginResult{Token: token, User: rec.user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	_, token, ok := s.currentUser(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired session token")
		return
	}
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _, ok := s.currentUser(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired session token")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (s *Server) handlePasswordStrength(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password *string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Password is required")
		return
	}
	if msg := validatePassword(*req.Password); msg != "" {
		httputil.WriteJSON(w, http.StatusOK, api.PasswordStrength{Strength: "invalid", Message: msg})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, api.PasswordStrength{Strength: scorePassword(*req.Password)})
}

func (s *Server) handleGeneratePassword(w http.ResponseWriter, r *http.Request) {
	pwd := generatePassword(20)
	httputil.WriteJSON(w, http.StatusOK, api.GeneratedPassword{Password: pwd, Strength: scorePassword(pwd)})
}

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	channels := make([]api.Channel, len(s.channels))
	copy(channels, s.channels)
	s.mu.Unlock()
	httputil.WriteJSON(w, http.StatusOK, channels)
}

func (s *Server) handleCreateChannel(w http.ResponseWriter, r *http.Request) {
	user, _, ok := s.currentUser(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired session token")
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Request body is required")
		return
	}
	if req.Name == "" {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Channel name is required")
		return
	}

	s.mu.Lock()
	ch := s.addChannelLocked(user.ID, req.Name, req.Description)
	s.mu.Unlock()
	httputil.WriteJSON(w, http.StatusCreated, ch)
}

func (s *Server) handleMySubscriptions(w http.ResponseWriter, r *http.Request) {
	user, _, ok := s.currentUser(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired session token")
		return
	}

	s.mu.Lock()
	subs := make([]api.Subscription, 0)
	for _, sub := range s.subscriptions {
		if sub.UserID == user.ID {
			subs = append(subs, sub)
		}
	}
	s.mu.Unlock()
	httputil.WriteJSON(w, http.StatusOK, subs)
}

var categoryLabels = [][2]string{
	{"gaming", "Игры"},
	{"music", "Музыка"},
	{"education", "Образование"},
	{"entertainment", "Развлечения"},
	{"tech", "Технологии"},
	{"sports", "Спорт"},
	{"news", "Новости"},
	{"blog", "Блог"},
	{"other", "Другое"},
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories := make([]api.Category, 0, len(categoryLabels))
	for _, c := range categoryLabels {
		categories = append(categories, api.Category{ID: c[0], Name: c[1]})
	}
	httputil.WriteJSON(w, http.StatusOK, categories)
}

func (s *Server) handleUploadVideo(w http.ResponseWriter, r *http.Request) {
	user, _, ok := s.currentUser(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired session token")
		return
	}

	reader, err := r.MultipartReader()
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Multipart body is required")
		return
	}

	upload := UploadedVideo{OwnerID: user.ID, Fields: make(map[string]string)}
	hasFile := false
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Malformed multipart body")
			return
		}

		switch part.FormName() {
		case "file":
			n, _ := io.Copy(io.Discard, part)
			upload.FileName = part.FileName()
			upload.FileSize = n
			hasFile = true
		case "thumbnail":
			n, _ := io.Copy(io.Discard, part)
			upload.ThumbnailName = part.FileName()
			upload.ThumbnailSize = n
		default:
			value, _ := io.ReadAll(part)
			upload.Fields[part.FormName()] = string(value)
		}
		_ = part.Close()
	}

	if !hasFile {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Video file is required")
		return
	}
	title := upload.Fields["title"]
	if strings.TrimSpace(title) == "" {
		httputil.WriteError(w, http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY", "Title is required")
		return
	}

	duration, _ := strconv.Atoi(upload.Fields["duration"])
	category := upload.Fields["category"]
	if category == "" {
		category = "other"
	}
	accessLevel := upload.Fields["access_level"]
	if accessLevel == "" {
		accessLevel = "public"
	}

	s.mu.Lock()
	s.nextVideoID++
	video := api.Video{
		ID:          s.nextVideoID,
		Title:       title,
		Description: upload.Fields["description"],
		Duration:    duration,
		Category:    category,
		Tags:        upload.Fields["tags"],
		AccessLevel: accessLevel,
		Status:      "ready",
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	upload.Video = video
	s.uploads = append(s.uploads, upload)
	s.mu.Unlock()

	httputil.WriteJSON(w, http.StatusCreated, video)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	user, _, ok := s.currentUser(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired session token")
		return
	}

	s.mu.Lock()
	notifs := make([]api.Notification, 0)
	// Newest first, capped at 50, like the real feed.
	for i := len(s.notifications) - 1; i >= 0 && len(notifs) < 50; i-- {
		if s.notifications[i].userID == user.ID {
			notifs = append(notifs, s.notifications[i].notif)
		}
	}
	s.mu.Unlock()
	httputil.WriteJSON(w, http.StatusOK, notifs)
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	user, _, ok := s.currentUser(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired session token")
		return
	}

	s.mu.Lock()
	count := 0
	for _, rec := range s.notifications {
		if rec.userID == user.ID && !rec.notif.IsRead {
			count++
		}
	}
	s.mu.Unlock()
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	user, _, ok := s.currentUser(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired session token")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Notification not found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.notifications {
		if rec.notif.ID == id && rec.userID == user.ID {
			rec.notif.IsRead = true
			httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Marked as read"})
			return
		}
	}
	httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Notification not found")
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	user, _, ok := s.currentUser(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired session token")
		return
	}

	s.mu.Lock()
	for _, rec := range s.notifications {
		if rec.userID == user.ID {
			rec.notif.IsRead = true
		}
	}
	s.mu.Unlock()
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "All marked as read"})
}
