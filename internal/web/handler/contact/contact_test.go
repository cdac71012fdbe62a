package contact

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gobookshelf/gobookshelf/internal/web/handler/handlertest"
)

func validForm() url.Values {
	return url.Values{
		"name":    {"Jane Doe"},
		"email":   {"jane@example.com"},
		"subject": {"Opening hours"},
		"message": {"When does the library open on Sundays?"},
	}
}

func TestContact(t *testing.T) {
	d := handlertest.NewDeps(t)
	app := handlertest.NewApp(t, d, &Service{})

	resp, body := handlertest.Do(t, app, httptest.NewRequest(http.MethodGet, Path, nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, TemplateName, body)

	testCases := []struct {
		name   string
		modify func(url.Values)
		status int
		want   string
	}{
		{name: "valid", modify: func(url.Values) {}, status: http.StatusOK, want: TemplateName},
		{name: "honeypot", modify: func(v url.Values) { v.Set("website", "x") }, status: http.StatusBadRequest, want: "submission rejected"},
		{name: "bad email", modify: func(v url.Values) { v.Set("email", "nope") }, status: http.StatusBadRequest, want: "Enter a valid email address."},
		{name: "spam", modify: func(v url.Values) { v.Set("message", "Limited time offer, click here!") }, status: http.StatusBadRequest, want: "looks like spam"},
		{name: "short message", modify: func(v url.Values) { v.Set("message", "hi") }, status: http.StatusBadRequest, want: "Message must be at least 10 characters long."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.modify(form)

			resp, body := handlertest.Do(t, app, handlertest.PostForm(t, app, Path, form))
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Contains(t, body, tc.want)
		})
	}
}
