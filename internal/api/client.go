package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Error is a structured rejection from the platform API. Anything that is
// not an *Error is a transport failure and callers fall back to a generic
// localized message.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d, code %s)", e.Message, e.Status, e.Code)
}

// Result is the outcome of a best-effort call. Callers may ignore it, but
// the failure is carried explicitly rather than swallowed.
type Result struct {
	Err error
}

func (r Result) Ok() bool { return r.Err == nil }

// Client speaks the platform's JSON API under a fixed /api prefix with
// bearer-token authentication.
type Client struct {
	baseURL string

	mu    sync.RWMutex
	token string

	httpClient   *http.Client
	uploadClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// Uploads can legitimately run for minutes; cancellation is the
		// caller's context.
		uploadClient: &http.Client{},
	}
}

// SetToken installs the bearer token used for authenticated calls. An
// empty string clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, out interface{}) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(status int, body []byte) error {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error.Message == "" {
		return fmt.Errorf("unexpected status %d: %s", status, string(body))
	}
	return &Error{Status: status, Code: envelope.Error.Code, Message: envelope.Error.Message}
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	req := map[string]string{"username": username, "password": password}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) PasswordStrength(ctx context.Context, password string) (*PasswordStrength, error) {
	req := map[string]string{"password": password}
	var result PasswordStrength
	if err := c.do(ctx, http.MethodPost, "/api/auth/password-strength", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GeneratePassword(ctx context.Context) (*GeneratedPassword, error) {
	var result GeneratedPassword
	if err := c.do(ctx, http.MethodGet, "/api/auth/generate-password", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Channels(ctx context.Context) ([]Channel, error) {
	var channels []Channel
	if err := c.do(ctx, http.MethodGet, "/api/channels", nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

func (c *Client) CreateChannel(ctx context.Context, name, description string) (*Channel, error) {
	req := map[string]string{"name": name, "description": description}
	var channel Channel
	if err := c.do(ctx, http.MethodPost, "/api/channels", req, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

func (c *Client) MySubscriptions(ctx context.Context) ([]Subscription, error) {
	var subs []Subscription
	if err := c.do(ctx, http.MethodGet, "/api/subscriptions/my", nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/api/videos/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var notifs []Notification
	if err := c.do(ctx, http.MethodGet, "/api/notifications", nil, &notifs); err != nil {
		return nil, err
	}
	return notifs, nil
}

func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var result struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/notifications/unread-count", nil, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	path := "/api/notifications/" + strconv.FormatInt(id, 10) + "/read"
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/notifications/read-all", nil, nil)
}

// BaseURL reports the configured API origin, normalized without a
// trailing slash.
func (c *Client) BaseURL() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL
	}
	u.Path = ""
	return u.String()
}
