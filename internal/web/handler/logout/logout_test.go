package logout

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/db/models"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
	"github.com/gobookshelf/gobookshelf/internal/web/handler/handlertest"
)

func TestLogoutDestroysSession(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})
	user := handlertest.NewUser(t, d, "bob", models.RoleMember)
	cookie := handlertest.SessionCookie(t, d, user)

	app.Get("/whoami", func(c fiber.Ctx) error {
		return c.SendString(fmt.Sprint(auth.PrincipalFrom(c).IsAuthenticated()))
	})

	resp, _ := handlertest.Do(t, app, handlertest.PostForm(t, app, Path, nil, cookie))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, handler.LoginPath, resp.Header.Get("Location"))

	// the old cookie no longer identifies anyone
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)

	_, body := handlertest.Do(t, app, req)
	assert.Equal(t, "false", body)
}

func TestLogoutAnonymous(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})

	resp, _ := handlertest.Do(t, app, httptest.NewRequest(http.MethodGet, Path, nil))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}
