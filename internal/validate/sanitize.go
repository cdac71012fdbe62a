package validate

import (
	"html"
	"strings"
)

// Sanitize trims surrounding whitespace and html escapes raw.
// Entities already present are decoded first, so
// Sanitize(Sanitize(x)) == Sanitize(x) for every x.
func Sanitize(raw string) string {
	return html.EscapeString(strings.TrimSpace(html.UnescapeString(strings.TrimSpace(raw))))
}

// Plain reverses the escaping of Sanitize for output channels that escape on their own.
func Plain(stored string) string {
	return html.UnescapeString(stored)
}
