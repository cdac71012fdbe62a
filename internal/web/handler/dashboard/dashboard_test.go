package dashboard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
	"github.com/gobookshelf/gobookshelf/internal/web/handler/handlertest"
)

func TestDashboardsAreRoleGated(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})

	cookies := map[models.Role]*http.Cookie{
		models.RoleAdmin:     handlertest.SessionCookie(t, d, handlertest.NewUser(t, d, "admin", models.RoleAdmin)),
		models.RoleLibrarian: handlertest.SessionCookie(t, d, handlertest.NewUser(t, d, "librarian", models.RoleLibrarian)),
		models.RoleMember:    handlertest.SessionCookie(t, d, handlertest.NewUser(t, d, "member", models.RoleMember)),
	}

	dashboards := map[models.Role]struct {
		path     string
		template string
	}{
		models.RoleAdmin:     {AdminPath, AdminTemplate},
		models.RoleLibrarian: {LibrarianPath, LibrarianTemplate},
		models.RoleMember:    {MemberPath, MemberTemplate},
	}

	for owner, dash := range dashboards {
		for role, cookie := range cookies {
			req := httptest.NewRequest(http.MethodGet, dash.path, nil)
			req.AddCookie(cookie)

			resp, body := handlertest.Do(t, app, req)

			if role == owner {
				assert.Equal(t, http.StatusOK, resp.StatusCode, "%s on %s", role, dash.path)
				assert.Equal(t, dash.template, body)
			} else {
				assert.Equal(t, http.StatusForbidden, resp.StatusCode, "%s on %s", role, dash.path)
			}
		}
	}
}

func TestDashboardAnonymous(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})

	for _, path := range []string{Path, AdminPath, LibrarianPath, MemberPath} {
		resp, _ := handlertest.Do(t, app, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Contains(t, resp.Header.Get("Location"), "/login?next=")
	}
}

func TestDashboardRedirectsByRole(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})

	for role, want := range pathOf {
		cookie := handlertest.SessionCookie(t, d, handlertest.NewUser(t, d, "user-"+string(role), role))

		req := httptest.NewRequest(http.MethodGet, Path, nil)
		req.AddCookie(cookie)

		resp, _ := handlertest.Do(t, app, req)
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, want, resp.Header.Get("Location"))
	}
}
