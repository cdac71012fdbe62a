package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Envelope wraps every successful json response.
type Envelope struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorEnvelope wraps every failed json response.
type ErrorEnvelope struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// JSON sends data with message in the success envelope.
func JSON(c fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{Message: message, Data: data})
}

// IsAPI reports whether the request expects json.
func IsAPI(c fiber.Ctx) bool {
	path := c.Path()

	return path == APIPrefix || strings.HasPrefix(path, APIPrefix+"/") || strings.HasPrefix(path, APIPrefix+"-")
}

// ParamID parses the route parameter name as a database id. Invalid ids are not found.
func ParamID(c fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.ErrNotFound
	}

	return uint(id), nil
}

// QueryInt parses an optional integer query parameter.
func QueryInt(c fiber.Ctx, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil //nolint:nilnil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Enter a whole number for "+name+".")
	}

	return &v, nil
}

// ClientKey identifies the client of a request for rate limiting:
// session cookie, then api token, then remote address.
func ClientKey(cookieName string) func(c fiber.Ctx) string {
	return func(c fiber.Ctx) string {
		if sid := c.Cookies(cookieName); sid != "" {
			return "session:" + sid
		}

		if token := c.Get(fiber.HeaderAuthorization); token != "" {
			return "token:" + token
		}

		return "ip:" + c.IP()
	}
}

// SafeRedirect returns next if it is a local path, fallback otherwise.
func SafeRedirect(next, fallback string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.Contains(next, "\\") {
		return next
	}

	return fallback
}
