package api

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobookshelf/gobookshelf/internal/config"
	"github.com/gobookshelf/gobookshelf/internal/db/models"
	"github.com/gobookshelf/gobookshelf/internal/ratelimit"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
	"github.com/gobookshelf/gobookshelf/internal/web/handler/handlertest"
)

type envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type fixture struct {
	d   *handler.Deps
	app *fiber.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	d := handlertest.NewDeps(t)

	return &fixture{d: d, app: handlertest.NewApp(t, d, &Service{})}
}

func (f *fixture) token(t *testing.T, username string, role models.Role) string {
	t.Helper()

	return handlertest.TokenHeader(t, f.d, handlertest.NewUser(t, f.d, username, role))
}

func (f *fixture) do(t *testing.T, method, target, token string, body any) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = handlertest.JSONBody(t, body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", token)
	}

	return handlertest.Do(t, f.app, req)
}

func (f *fixture) createBook(t *testing.T, token string) bookJSON {
	t.Helper()

	resp, body := f.do(t, http.MethodPost, BooksPath+"/", token, fiber.Map{
		"title":            "Django Basics",
		"author":           "Jane Doe",
		"publication_year": 2020,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	var out envelope[bookJSON]
	handlertest.Decode(t, body, &out)

	return out.Data
}

func TestObtainToken(t *testing.T) {
	f := newFixture(t)
	handlertest.NewUser(t, f.d, "reader", models.RoleMember)

	resp, body := f.do(t, http.MethodPost, TokenPath, "", fiber.Map{
		"username": "reader",
		"password": handlertest.Password("reader"),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var out envelope[map[string]string]
	handlertest.Decode(t, body, &out)
	assert.Len(t, out.Data["token"], 40)

	again, body := f.do(t, http.MethodPost, TokenPath, "", fiber.Map{
		"username": "reader",
		"password": handlertest.Password("reader"),
	})
	require.Equal(t, http.StatusOK, again.StatusCode)

	var second envelope[map[string]string]
	handlertest.Decode(t, body, &second)
	assert.Equal(t, out.Data["token"], second.Data["token"])

	resp, body = f.do(t, http.MethodPost, TokenPath, "", fiber.Map{"username": "reader", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Unable to log in with provided credentials.")

	resp, body = f.do(t, http.MethodPost, TokenPath, "", fiber.Map{"username": "reader"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, `"password"`)
}

func TestAuthenticationRequired(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodGet, BooksPath+"/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token", resp.Header.Get(fiber.HeaderWWWAuthenticate))
	assert.Contains(t, body, `"error"`)

	resp, body = f.do(t, http.MethodGet, BooksPath+"/", "Token 0000000000000000000000000000000000000000", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid token.")

	resp, _ = f.do(t, http.MethodGet, UsersPath+"/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionCookieFallback(t *testing.T) {
	f := newFixture(t)
	user := handlertest.NewUser(t, f.d, "reader", models.RoleMember)

	req := httptest.NewRequest(http.MethodGet, BooksPath+"/", nil)
	req.AddCookie(handlertest.SessionCookie(t, f.d, user))

	resp, _ := handlertest.Do(t, f.app, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBookLifecycle(t *testing.T) {
	f := newFixture(t)
	librarian := f.token(t, "librarian", models.RoleLibrarian)
	admin := f.token(t, "admin", models.RoleAdmin)

	book := f.createBook(t, librarian)
	assert.Equal(t, "Django Basics", book.Title)
	assert.Equal(t, "Jane Doe", book.Author.Name)

	resp, body := f.do(t, http.MethodPost, BooksPath+"/", librarian, fiber.Map{
		"title":            "Django Basics",
		"author":           "Jane Doe",
		"publication_year": 2020,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, "already exists")

	resp, body = f.do(t, http.MethodPost, BooksPath+"/", librarian, fiber.Map{
		"title":            "   ",
		"author":           "Jane Doe",
		"publication_year": 2030,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, `"publication_year"`)

	target := fmt.Sprintf("%s/%d", BooksPath, book.ID)

	resp, body = f.do(t, http.MethodGet, target, librarian, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Book retrieved successfully")

	resp, body = f.do(t, http.MethodPatch, target, librarian, fiber.Map{"title": "Django Advanced"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var patched envelope[bookJSON]
	handlertest.Decode(t, body, &patched)
	assert.Equal(t, "Django Advanced", patched.Data.Title)
	assert.Equal(t, 2020, patched.Data.PublicationYear)

	resp, body = f.do(t, http.MethodPut, target, librarian, fiber.Map{
		"title":            "Django Basics",
		"author":           "John Roe",
		"publication_year": 2021,
		"isbn":             "9781234567897",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var replaced envelope[bookJSON]
	handlertest.Decode(t, body, &replaced)
	assert.Equal(t, "John Roe", replaced.Data.Author.Name)
	assert.Equal(t, "9781234567897", replaced.Data.ISBN)

	resp, _ = f.do(t, http.MethodDelete, target, librarian, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = f.do(t, http.MethodDelete, target, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `Book \"Django Basics\" deleted successfully`)

	resp, _ = f.do(t, http.MethodGet, target, admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDenialDoesNotRevealExistence(t *testing.T) {
	f := newFixture(t)
	book := f.createBook(t, f.token(t, "admin", models.RoleAdmin))
	member := f.token(t, "member", models.RoleMember)

	existing, existingBody := f.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", BooksPath, book.ID), member, nil)
	missing, missingBody := f.do(t, http.MethodDelete, BooksPath+"/999", member, nil)

	assert.Equal(t, http.StatusForbidden, existing.StatusCode)
	assert.Equal(t, existing.StatusCode, missing.StatusCode)
	assert.Equal(t, existingBody, missingBody)

	resp, _ := f.do(t, http.MethodPost, BooksPath+"/", member, fiber.Map{
		"title":            "Another",
		"author":           "Jane Doe",
		"publication_year": 2001,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, fmt.Sprintf("%s/%d", BooksPath, book.ID), member, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListAndSearch(t *testing.T) {
	f := newFixture(t)
	member := f.token(t, "member", models.RoleMember)
	f.createBook(t, f.token(t, "admin", models.RoleAdmin))

	resp, body := f.do(t, http.MethodGet, BooksPath+"/?author=jane&ordering=-publication_year", member, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var list envelope[bookList]
	handlertest.Decode(t, body, &list)
	assert.EqualValues(t, 1, list.Data.Count)
	assert.Equal(t, "jane", list.Data.AppliedFilters["author"])

	resp, body = f.do(t, http.MethodGet, BooksPath+"/search/?search=django", member, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var found envelope[searchResult]
	handlertest.Decode(t, body, &found)
	assert.Equal(t, "Found 1 book(s)", found.Message)
	assert.Equal(t, 1, found.Data.ResultCount)
	assert.Equal(t, []string{"title", "author__name"}, found.Data.SearchFields)

	resp, body = f.do(t, http.MethodGet, BooksPath+"/search/?search=%27%3B%20DROP%20TABLE%20x%3B%20--", member, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	handlertest.Decode(t, body, &found)
	assert.Equal(t, 0, found.Data.ResultCount)

	resp, _ = f.do(t, http.MethodGet, BooksPath+"/search/?search=", member, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthorsAndLibraries(t *testing.T) {
	f := newFixture(t)
	librarian := f.token(t, "librarian", models.RoleLibrarian)
	book := f.createBook(t, librarian)

	resp, body := f.do(t, http.MethodPost, AuthorsPath+"/", librarian, fiber.Map{"name": "John Roe"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = f.do(t, http.MethodGet, AuthorsPath+"/?name=jane", librarian, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"book_count":1`)
	assert.NotContains(t, body, "John Roe")

	resp, body = f.do(t, http.MethodGet, fmt.Sprintf("%s/%d", AuthorsPath, book.Author.ID), librarian, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"latest_publication_year":2020`)

	resp, body = f.do(t, http.MethodPost, LibrariesPath+"/", librarian, fiber.Map{"name": "City Library"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	var lib envelope[libraryJSON]
	handlertest.Decode(t, body, &lib)

	base := fmt.Sprintf("%s/%d", LibrariesPath, lib.Data.ID)

	resp, _ = f.do(t, http.MethodPost, fmt.Sprintf("%s/books/%d", base, book.ID), librarian, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = f.do(t, http.MethodPut, base+"/librarian", librarian, fiber.Map{"name": "Ann Smith"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, body = f.do(t, http.MethodGet, base, librarian, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	handlertest.Decode(t, body, &lib)
	require.NotNil(t, lib.Data.Librarian)
	assert.Equal(t, "Ann Smith", lib.Data.Librarian.Name)
	require.Len(t, lib.Data.Books, 1)
	assert.Equal(t, book.ID, lib.Data.Books[0].ID)

	resp, _ = f.do(t, http.MethodDelete, fmt.Sprintf("%s/books/%d", base, book.ID), librarian, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, fmt.Sprintf("%s/999/books/%d", LibrariesPath, book.ID), librarian, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = f.do(t, http.MethodGet, LibrariesPath+"/", librarian, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "City Library")
}

func TestUsers(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, "admin", models.RoleAdmin)
	member := handlertest.NewUser(t, f.d, "member", models.RoleMember)
	memberToken := handlertest.TokenHeader(t, f.d, member)

	resp, body := f.do(t, http.MethodGet, UsersPath+"/me", memberToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var me envelope[userJSON]
	handlertest.Decode(t, body, &me)
	assert.Equal(t, "member", me.Data.Username)
	assert.Equal(t, string(models.RoleMember), me.Data.Role)

	rolePath := fmt.Sprintf("%s/%d/role", UsersPath, member.ID)

	resp, _ = f.do(t, http.MethodPut, rolePath, memberToken, fiber.Map{"role": "Admin"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = f.do(t, http.MethodPut, rolePath, admin, fiber.Map{"role": "Overlord"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, `"role"`)

	resp, _ = f.do(t, http.MethodPut, UsersPath+"/999/role", admin, fiber.Map{"role": "Librarian"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = f.do(t, http.MethodPut, rolePath, admin, fiber.Map{"role": "Librarian"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, body = f.do(t, http.MethodGet, UsersPath+"/me", memberToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	handlertest.Decode(t, body, &me)
	assert.Equal(t, string(models.RoleLibrarian), me.Data.Role)
}

func TestSearchRateLimited(t *testing.T) {
	d := handlertest.NewDeps(t)
	d.Limiter = ratelimit.New(config.RateLimit{Limit: 1, Period: time.Minute})
	f := &fixture{d: d, app: handlertest.NewApp(t, d, &Service{})}
	token := f.token(t, "reader", models.RoleMember)

	resp, body := f.do(t, http.MethodGet, BooksPath+"/search/?search=django", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, body = f.do(t, http.MethodGet, BooksPath+"/search/?search=django", token, nil)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode, body)

	var out handler.ErrorEnvelope
	handlertest.Decode(t, body, &out)
	assert.Equal(t, ratelimit.ErrRateLimited.Error(), out.Error)
	assert.Empty(t, out.Details)

	retry, err := strconv.Atoi(resp.Header.Get(fiber.HeaderRetryAfter))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, retry, 1)
	assert.LessOrEqual(t, retry, 60)

	// other clients keep their own budget
	other := f.token(t, "other", models.RoleMember)
	resp, _ = f.do(t, http.MethodGet, BooksPath+"/search/?search=django", other, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
