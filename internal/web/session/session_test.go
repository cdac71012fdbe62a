package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobookshelf/gobookshelf/internal/config"
	"github.com/gobookshelf/gobookshelf/internal/db/testdb"
)

func newManager(t *testing.T, devMode bool) *Manager {
	t.Helper()

	m, err := NewManager(NewGormStorage(testdb.New(t)), config.Session{CookieName: "session", ExpiryTime: time.Hour}, devMode)
	require.NoError(t, err)

	return m
}

func newSessionApp(m *Manager) *fiber.App {
	app := fiber.New()

	app.Post("/login", func(c fiber.Ctx) error {
		return m.Create(c, Data{UserID: 7, Username: "jane"})
	})
	app.Get("/me", func(c fiber.Ctx) error {
		data, err := m.Read(c)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		return c.SendString(data.Username)
	})
	app.Post("/logout", func(c fiber.Ctx) error {
		return m.Destroy(c)
	})

	return app
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()

	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			return c
		}
	}

	t.Fatal("no session cookie")

	return nil
}

func TestManagerLifecycle(t *testing.T) {
	m := newManager(t, false)
	app := newSessionApp(m)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)

	cookie := sessionCookie(t, resp)
	assert.Len(t, cookie.Value, 2*sessionIDBytes)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: cookie.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: cookie.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.True(t, strings.Contains(resp.Header.Get("Set-Cookie"), "session=;"))

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: cookie.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestManagerDevModeCookie(t *testing.T) {
	app := newSessionApp(newManager(t, true))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	assert.False(t, sessionCookie(t, resp).Secure)
}

func TestManagerUnknownSession(t *testing.T) {
	app := newSessionApp(newManager(t, false))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "forged"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNewManagerNilStorage(t *testing.T) {
	_, err := NewManager(nil, config.Session{}, false)
	assert.ErrorIs(t, err, ErrStorageNil)
}

func TestGormStorageExpiry(t *testing.T) {
	store := NewGormStorage(testdb.New(t))
	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set("a", []byte("one"), time.Minute))
	require.NoError(t, store.Set("a", []byte("two"), time.Minute))
	require.NoError(t, store.Set("b", []byte("short"), time.Second))

	got, err := store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)

	now = now.Add(30 * time.Second)

	got, err = store.Get("b")
	require.NoError(t, err)
	assert.Nil(t, got)

	now = now.Add(time.Hour)
	require.NoError(t, store.DeleteExpired())

	got, err = store.Get("a")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGenerateSessionID(t *testing.T) {
	a, err := GenerateSessionID()
	require.NoError(t, err)

	b, err := GenerateSessionID()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
