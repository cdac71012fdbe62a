package books

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
	"github.com/gobookshelf/gobookshelf/internal/library"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
	"github.com/gobookshelf/gobookshelf/internal/web/handler/handlertest"
)

func newGet(target string, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}

	return req
}

func seedBook(t *testing.T, d *handler.Deps) *models.Book {
	t.Helper()

	book, err := d.Library.CreateBook(context.Background(), library.BookInput{
		Title:           "Django Basics",
		AuthorName:      "Jane Doe",
		PublicationYear: 2020,
	})
	require.NoError(t, err)

	return book
}

func TestListRequiresLogin(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})

	resp, _ := handlertest.Do(t, app, newGet(Path+"/", nil))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fbooks%2F", resp.Header.Get("Location"))
}

func TestListAndDetail(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})
	member := handlertest.SessionCookie(t, d, handlertest.NewUser(t, d, "member", models.RoleMember))
	book := seedBook(t, d)

	resp, body := handlertest.Do(t, app, newGet(Path+"/?title=django&ordering=-title", member))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ListTemplate, body)

	resp, body = handlertest.Do(t, app, newGet(DetailPath(book.ID), member))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, DetailTemplate, body)

	resp, _ = handlertest.Do(t, app, newGet(Path+"/999", member))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = handlertest.Do(t, app, newGet(Path+"/abc", member))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = handlertest.Do(t, app, newGet(Path+"/?publication_year=abc", member))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreate(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})
	librarian := handlertest.SessionCookie(t, d, handlertest.NewUser(t, d, "librarian", models.RoleLibrarian))
	member := handlertest.SessionCookie(t, d, handlertest.NewUser(t, d, "member", models.RoleMember))

	form := url.Values{"title": {"Django Basics"}, "author": {"Jane Doe"}, "publication_year": {"2020"}}

	resp, _ := handlertest.Do(t, app, handlertest.PostForm(t, app, Path+"/create/", form, member))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = handlertest.Do(t, app, handlertest.PostForm(t, app, Path+"/create/", form, librarian))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), Path+"/"))

	resp, body := handlertest.Do(t, app, handlertest.PostForm(t, app, Path+"/create/", form, librarian))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, library.ErrDuplicateBook.Error())

	resp, body = handlertest.Do(t, app, handlertest.PostForm(t, app, Path+"/create/", url.Values{
		"title": {"   "}, "author": {"Jane Doe"}, "publication_year": {"2999"},
	}, librarian))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Title cannot be empty or just whitespace.")
	assert.Contains(t, body, "Publication year cannot be in the future. Current year is 2024, but got 2999.")

	resp, body = handlertest.Do(t, app, handlertest.PostForm(t, app, Path+"/create/", url.Values{
		"title": {"No Year"}, "author": {"Jane Doe"},
	}, librarian))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "publication_year: This field is required.")
}

func TestFormsRequireCSRFToken(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})
	librarian := handlertest.SessionCookie(t, d, handlertest.NewUser(t, d, "librarian", models.RoleLibrarian))
	form := url.Values{"title": {"Django Basics"}, "author": {"Jane Doe"}, "publication_year": {"2020"}}

	post := func(form url.Values, cookies ...*http.Cookie) *http.Response {
		req := httptest.NewRequest(http.MethodPost, Path+"/create/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		for _, c := range cookies {
			req.AddCookie(c)
		}

		resp, _ := handlertest.Do(t, app, req)

		return resp
	}

	// no token at all
	assert.Equal(t, http.StatusForbidden, post(form, librarian).StatusCode)

	token, csrfCookie := handlertest.CSRF(t, app)

	// token in the form but no cookie to match
	withToken := url.Values{handler.CSRFField: {token}}
	for k, v := range form {
		withToken[k] = v
	}

	assert.Equal(t, http.StatusForbidden, post(withToken, librarian).StatusCode)

	// cookie but a forged token
	forged := url.Values{handler.CSRFField: {"forged"}}
	for k, v := range form {
		forged[k] = v
	}

	assert.Equal(t, http.StatusForbidden, post(forged, librarian, csrfCookie).StatusCode)

	resp := post(withToken, librarian, csrfCookie)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	page, err := d.Library.ListBooks(context.Background(), library.BookFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Count)
}

func TestEditAndDelete(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})
	admin := handlertest.SessionCookie(t, d, handlertest.NewUser(t, d, "admin", models.RoleAdmin))
	librarian := handlertest.SessionCookie(t, d, handlertest.NewUser(t, d, "librarian", models.RoleLibrarian))
	book := seedBook(t, d)

	resp, body := handlertest.Do(t, app, newGet(DetailPath(book.ID)+"/edit", librarian))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, FormTemplate, body)

	resp, _ = handlertest.Do(t, app, handlertest.PostForm(t, app, DetailPath(book.ID)+"/edit", url.Values{
		"title": {"Django <Advanced>"}, "author": {"Jane Doe"}, "publication_year": {"2021"},
	}, librarian))
	require.Equal(t, http.StatusFound, resp.StatusCode)

	updated, err := d.Library.GetBook(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Django &lt;Advanced&gt;", updated.Title)
	assert.Equal(t, 2021, updated.PublicationYear)

	// librarians may not delete, whether the book exists or not
	resp, body = handlertest.Do(t, app, handlertest.PostForm(t, app, DetailPath(book.ID)+"/delete", nil, librarian))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, missingBody := handlertest.Do(t, app, handlertest.PostForm(t, app, Path+"/999/delete", nil, librarian))
	assert.Equal(t, body, missingBody)

	resp, body = handlertest.Do(t, app, newGet(DetailPath(book.ID)+"/delete", admin))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, DeleteTemplate, body)

	resp, _ = handlertest.Do(t, app, handlertest.PostForm(t, app, DetailPath(book.ID)+"/delete", nil, admin))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, Path+"/", resp.Header.Get("Location"))

	_, err = d.Library.GetBook(context.Background(), book.ID)
	assert.ErrorIs(t, err, library.ErrBookNotFound)
}

func TestSearch(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})
	member := handlertest.SessionCookie(t, d, handlertest.NewUser(t, d, "member", models.RoleMember))
	seedBook(t, d)

	resp, body := handlertest.Do(t, app, newGet(Path+"/search/?search="+url.QueryEscape("'; DROP TABLE x; --"), member))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, SearchTemplate, body)

	resp, body = handlertest.Do(t, app, newGet(Path+"/search/?search=", member))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Search term cannot be empty or just whitespace.")
}

func TestComment(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})
	member := handlertest.SessionCookie(t, d, handlertest.NewUser(t, d, "member", models.RoleMember))
	book := seedBook(t, d)

	resp, _ := handlertest.Do(t, app, handlertest.PostForm(t, app, DetailPath(book.ID)+"/comments", url.Values{"comment": {"Great read"}}, member))
	require.Equal(t, http.StatusFound, resp.StatusCode)

	resp, body := handlertest.Do(t, app, handlertest.PostForm(t, app, DetailPath(book.ID)+"/comments", url.Values{"comment": {"BUY NOW at www.example.com"}}, member))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Comment contains content that looks like spam.")

	comments, err := d.Library.ListComments(context.Background(), book.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Great read", comments[0].Body)
}
