package login

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
	"github.com/gobookshelf/gobookshelf/internal/web/handler/handlertest"
)

func TestGetRendersForm(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})

	resp, body := handlertest.Do(t, app, httptest.NewRequest(http.MethodGet, Path, nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, TemplateName, body)
}

func TestGetRedirectsLoggedInUser(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})
	user := handlertest.NewUser(t, d, "bob", models.RoleMember)

	req := httptest.NewRequest(http.MethodGet, Path, nil)
	req.AddCookie(handlertest.SessionCookie(t, d, user))

	resp, _ := handlertest.Do(t, app, req)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, HomePath, resp.Header.Get("Location"))
}

func TestPostSuccessSetsCookieAndRedirects(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})
	handlertest.NewUser(t, d, "bob", models.RoleMember)

	resp, _ := handlertest.Do(t, app, handlertest.PostForm(t, app, Path, url.Values{
		"username": {"bob"},
		"password": {handlertest.Password("bob")},
		"next":     {"/books/3"},
	}))

	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/books/3", resp.Header.Get("Location"))

	cookie := handlertest.ResponseCookie(resp, d.Sessions.CookieName())
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestPostIgnoresForeignNext(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})
	handlertest.NewUser(t, d, "bob", models.RoleMember)

	resp, _ := handlertest.Do(t, app, handlertest.PostForm(t, app, Path, url.Values{
		"username": {"bob"},
		"password": {handlertest.Password("bob")},
		"next":     {"//evil.example"},
	}))

	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, HomePath, resp.Header.Get("Location"))
}

func TestPostRejected(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})
	user := handlertest.NewUser(t, d, "bob", models.RoleMember)
	handlertest.NewUser(t, d, "carol", models.RoleMember)
	require.NoError(t, d.Users.SetActive(context.Background(), user.ID, false))

	testCases := []struct {
		name     string
		username string
		password string
		want     string
	}{
		{name: "wrong password", username: "carol", password: "wrong", want: ErrInvalidCredentials.Error()},
		{name: "unknown user", username: "nobody", password: "secret", want: ErrInvalidCredentials.Error()},
		{name: "disabled user", username: "bob", password: handlertest.Password("bob"), want: ErrAccountDisabled.Error()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := handlertest.Do(t, app, handlertest.PostForm(t, app, Path, url.Values{
				"username": {tc.username},
				"password": {tc.password},
			}))

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.want, body)
			assert.Nil(t, handlertest.ResponseCookie(resp, d.Sessions.CookieName()))
		})
	}
}

func TestPostWithoutCSRFToken(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})
	handlertest.NewUser(t, d, "bob", models.RoleMember)

	form := url.Values{"username": {"bob"}, "password": {handlertest.Password("bob")}}
	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, _ := handlertest.Do(t, app, req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Nil(t, handlertest.ResponseCookie(resp, d.Sessions.CookieName()))

	// a json body cannot carry the form token
	req = httptest.NewRequest(http.MethodPost, Path, strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")

	resp, _ = handlertest.Do(t, app, req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
