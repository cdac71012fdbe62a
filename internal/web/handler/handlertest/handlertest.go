// Package handlertest builds fiber apps with the full dependency set for handler tests.
package handlertest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/config"
	"github.com/gobookshelf/gobookshelf/internal/db/models"
	"github.com/gobookshelf/gobookshelf/internal/db/testdb"
	"github.com/gobookshelf/gobookshelf/internal/library"
	"github.com/gobookshelf/gobookshelf/internal/ratelimit"
	"github.com/gobookshelf/gobookshelf/internal/validate"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
	authmiddleware "github.com/gobookshelf/gobookshelf/internal/web/middleware/auth"
	"github.com/gobookshelf/gobookshelf/internal/web/session"
)

// Views is a minimal fiber views engine. It writes the "error" value of the
// bind map if present, the template name otherwise.
type Views struct{}

// Load implements fiber.Views.
func (Views) Load() error { return nil }

// Render implements fiber.Views.
func (Views) Render(w io.Writer, name string, data any, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, err := fmt.Fprint(w, v)
			return err
		}
	}

	_, err := io.WriteString(w, name)

	return err
}

// Config returns the configuration used by handler tests.
func Config() *config.Config {
	return &config.Config{
		Title: "Bookshelf",
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    8080,
			Session: config.Session{CookieName: "session", ExpiryTime: time.Hour},
		},
		RateLimit: config.RateLimit{Limit: 1000, Period: time.Minute},
	}
}

// NewDeps wires every service on a fresh in-memory database.
func NewDeps(t *testing.T) *handler.Deps {
	t.Helper()

	db := testdb.New(t)
	cfg := Config()

	lib, err := library.NewService(db)
	require.NoError(t, err)

	sessions, err := session.NewManager(session.NewGormStorage(db), cfg.Webserver.Session, true)
	require.NoError(t, err)

	accounts := auth.NewService(db)
	require.NoError(t, accounts.SetupGroups(context.Background()))

	return &handler.Deps{
		Cfg:          cfg,
		Gate:         auth.NewGate(db),
		Accounts:     accounts,
		Users:        auth.NewLocalProvider(db),
		Registration: auth.NewRegistration(db, auth.CreateProfileHook(models.RoleMember)),
		Tokens:       auth.NewTokenService(db),
		Library:      lib,
		Validator:    validate.New(validate.WithClock(func() time.Time { return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) })),
		Shape:        validate.NewShape(),
		Sessions:     sessions,
		Limiter:      ratelimit.New(cfg.RateLimit),
	}
}

// NewApp creates a fiber app with the error handler, authentication and csrf middleware
// and initializes services on it.
func NewApp(t *testing.T, d *handler.Deps, services ...handler.Service) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		Views:        Views{},
		ErrorHandler: handler.NewErrorHandler(d),
	})

	app.Use(authmiddleware.New(authmiddleware.Config{Sessions: d.Sessions, Tokens: d.Tokens, Users: d.Users}))
	app.Use(handler.CSRF(d))

	for _, s := range services {
		require.NoError(t, s.Init(app, d))
	}

	return app
}

// NewUser registers an active user with role.
func NewUser(t *testing.T, d *handler.Deps, username string, role models.Role) *models.User {
	t.Helper()

	user, err := d.Registration.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: Password(username),
	})
	require.NoError(t, err)

	if role != models.RoleMember {
		require.NoError(t, d.Accounts.AssignRole(context.Background(), user.ID, role))
	}

	return user
}

// Password is the password NewUser gives username.
func Password(username string) string {
	return "secret-" + username
}

// SessionCookie logs user in and returns the session cookie.
func SessionCookie(t *testing.T, d *handler.Deps, user *models.User) *http.Cookie {
	t.Helper()

	sid, err := d.Sessions.Issue(session.Data{UserID: user.ID, Username: user.Username})
	require.NoError(t, err)

	return &http.Cookie{Name: d.Sessions.CookieName(), Value: sid}
}

// TokenHeader returns the Authorization header value of user.
func TokenHeader(t *testing.T, d *handler.Deps, user *models.User) string {
	t.Helper()

	token, err := d.Tokens.Obtain(context.Background(), user.ID)
	require.NoError(t, err)

	return "Token " + token.Key
}

// Do runs req against app and returns the response with its body.
func Do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, string(body)
}

// CSRF fetches a csrf token from app. It returns the token and the cookie it must be sent with.
func CSRF(t *testing.T, app *fiber.App) (string, *http.Cookie) {
	t.Helper()

	resp, _ := Do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	cookie := ResponseCookie(resp, handler.CSRFCookie)
	require.NotNil(t, cookie, "no csrf cookie issued")

	return cookie.Value, &http.Cookie{Name: cookie.Name, Value: cookie.Value}
}

// PostForm builds an url encoded post of form to target carrying a valid csrf token and cookies.
func PostForm(t *testing.T, app *fiber.App, target string, form url.Values, cookies ...*http.Cookie) *http.Request {
	t.Helper()

	token, csrfCookie := CSRF(t, app)

	values := url.Values{}
	for k, v := range form {
		values[k] = v
	}

	values.Set(handler.CSRFField, token)

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	req.AddCookie(csrfCookie)

	for _, cookie := range cookies {
		if cookie != nil {
			req.AddCookie(cookie)
		}
	}

	return req
}

// ResponseCookie returns the cookie called name that resp sets, nil if there is none.
func ResponseCookie(resp *http.Response, name string) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}

	return nil
}

// JSONBody encodes v for a request body.
func JSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)

	return strings.NewReader(string(b))
}

// Decode unmarshals a json response body into v.
func Decode(t *testing.T, body string, v any) {
	t.Helper()

	require.NoError(t, json.Unmarshal([]byte(body), v), body)
}
