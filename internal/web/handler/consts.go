package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPrefix starts every path answered with json instead of html.
	APIPrefix = "/api"

	// ErrorTemplate renders failed html requests.
	ErrorTemplate = "error"
)
