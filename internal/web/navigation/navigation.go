// Package navigation describes the page title, active menu section and breadcrumbs of a page.
package navigation

// Menu sections of the base layout.
const (
	SectionBooks     = "books"
	SectionLibraries = "libraries"
	SectionContact   = "contact"
	SectionAccount   = "account"
	SectionDashboard = "dashboard"
)

// Crumb is one breadcrumb link. The last crumb of a page is the current one.
type Crumb struct {
	Title string
	URL   string
}

// Context is the navigation state of a rendered page.
type Context struct {
	PageTitle string
	Section   string
	Crumbs    []Crumb
}

// New creates the navigation context of a page in section, starting at the book list.
func New(pageTitle, section string) *Context {
	return &Context{
		PageTitle: pageTitle,
		Section:   section,
		Crumbs:    []Crumb{{Title: "Books", URL: "/books/"}},
	}
}

// Add appends a breadcrumb.
func (c *Context) Add(title, url string) *Context {
	c.Crumbs = append(c.Crumbs, Crumb{Title: title, URL: url})

	return c
}

// IsSection reports whether section is the active menu entry.
func (c *Context) IsSection(section string) bool {
	return c.Section == section
}

// IsCurrent reports whether the crumb at index i is the current page.
func (c *Context) IsCurrent(i int) bool {
	return i == len(c.Crumbs)-1
}
