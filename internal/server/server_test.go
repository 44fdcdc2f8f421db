package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"hearth/internal/config"
	"hearth/internal/mail"
	"hearth/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// recordingSender captures outbound mail instead of talking to an SMTP server.
type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *recordingSender) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *recordingSender) messages() []mail.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mail.Message(nil), f.sent...)
}

// testClient drives the app through app.Test while replaying session cookies
// like a browser would.
type testClient struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func (c *testClient) do(req *http.Request) *http.Response {
	c.t.Helper()
	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)

	for _, cookie := range resp.Cookies() {
		expired := cookie.MaxAge < 0 ||
			(!cookie.Expires.IsZero() && cookie.Expires.Before(time.Now()))
		if expired || cookie.Value == "" {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie.Value
	}
	return resp
}

func (c *testClient) get(path string) *http.Response {
	c.t.Helper()
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *testClient) postForm(path string, form url.Values) *http.Response {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// newTestServer boots the whole app against in-memory SQLite and a recording
// mail sender. Each call gets a fresh database.
func newTestServer(t *testing.T) (*Server, *testClient, *recordingSender) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	cfg := &config.Config{
		Port:          "8080",
		Env:           "test",
		BaseURL:       "http://localhost:8080",
		SessionSecret: "test-session-secret",
		ContactEmail:  "keeper@example.com",
	}

	s, err := NewServer(cfg)
	require.NoError(t, err)

	sender := &recordingSender{}
	s.mailer = sender

	client := &testClient{t: t, app: s.App(), cookies: map[string]string{}}
	return s, client, sender
}

// createUser inserts a user straight through the repository. MinCost keeps
// the test suite fast.
func createUser(t *testing.T, s *Server, username, password string, admin bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		Name:         username,
		ProfileImage: "/static/images/profile/jaina.jpeg",
		PasswordHash: string(hash),
		IsAdmin:      admin,
	}
	require.NoError(t, s.users.Create(context.Background(), user))
	return user
}

// login authenticates the client through the real login form.
func login(t *testing.T, client *testClient, username, password string) {
	t.Helper()
	resp := client.postForm("/login", url.Values{
		"username": {username},
		"password": {password},
	})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode, "login should redirect")
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func postForm(title string) url.Values {
	return url.Values{
		"title":       {title},
		"description": {"A description of " + title},
		"author":      {"The Keeper"},
		"img":         {"https://example.com/cover.png"},
		"featured":    {"False"},
		"body":        {"<p>Body of " + title + "</p>"},
	}
}

func TestHealthCheck(t *testing.T) {
	_, client, _ := newTestServer(t)

	resp := client.get("/healthz")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"status":"ok"`)
}

func TestHomeAndArchive_ListPosts(t *testing.T) {
	s, client, _ := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, s.posts.Create(ctx, &models.Post{Title: "Older Post", Date: "Jan 02, 2026"}))
	require.NoError(t, s.posts.Create(ctx, &models.Post{Title: "Newer Post", Date: "Feb 02, 2026"}))

	for _, path := range []string{"/", "/posts"} {
		resp := client.get(path)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, "Newer Post")
		assert.Contains(t, body, "Older Post")
		// Newest first.
		assert.Less(t, strings.Index(body, "Newer Post"), strings.Index(body, "Older Post"))
	}
}

func TestShowPost_NotFound(t *testing.T) {
	_, client, _ := newTestServer(t)

	resp := client.get("/post/999")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "does not exist")

	resp = client.get("/post/not-a-number")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminGuards(t *testing.T) {
	s, client, _ := newTestServer(t)
	createUser(t, s, "reader", "password", false)

	adminPaths := []string{"/new-post", "/edit-post/1", "/delete-post/1"}

	// Anonymous visitors get 403, not a redirect to login.
	for _, path := range adminPaths {
		resp := client.get(path)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, path)
	}

	// A logged-in non-admin is rejected the same way.
	login(t, client, "reader", "password")
	for _, path := range adminPaths {
		resp := client.get(path)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, path)
		assert.Contains(t, readBody(t, resp), "permission")
	}
}

func TestAdminCanReachPostForm(t *testing.T) {
	s, client, _ := newTestServer(t)
	createUser(t, s, "keeper", "password", true)
	login(t, client, "keeper", "password")

	resp := client.get("/new-post")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLoggedOutOnlyGuards(t *testing.T) {
	s, client, _ := newTestServer(t)
	createUser(t, s, "reader", "password", false)
	login(t, client, "reader", "password")

	for _, path := range []string{"/register", "/login", "/forgot-password"} {
		resp := client.get(path)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, path)
	}
}

func TestLogout_RequiresLogin(t *testing.T) {
	_, client, _ := newTestServer(t)

	resp := client.get("/logout")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
