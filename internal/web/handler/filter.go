package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/gobookshelf/gobookshelf/internal/library"
	"github.com/gobookshelf/gobookshelf/internal/validate"
)

// BookFilter reads the book list filters from the query string.
// Text values are sanitized so they compare against the stored form.
func BookFilter(c fiber.Ctx) (library.BookFilter, error) {
	f := library.BookFilter{
		Title:       validate.Sanitize(c.Query("title")),
		TitleExact:  validate.Sanitize(c.Query("title_exact")),
		Author:      validate.Sanitize(c.Query("author")),
		AuthorExact: validate.Sanitize(c.Query("author_exact")),
		Search:      validate.Sanitize(c.Query("search")),
		Ordering:    c.Query("ordering"),
	}

	ints := []struct {
		name string
		dst  **int
	}{
		{"publication_year", &f.Year},
		{"publication_year_gte", &f.YearGTE},
		{"publication_year_lte", &f.YearLTE},
	}

	for _, p := range ints {
		v, err := QueryInt(c, p.name)
		if err != nil {
			return f, err
		}

		*p.dst = v
	}

	if page, err := strconv.Atoi(strings.TrimSpace(c.Query("page"))); err == nil {
		f.Page = page
	}

	if size, err := strconv.Atoi(strings.TrimSpace(c.Query("page_size"))); err == nil {
		f.PageSize = size
	}

	return f, nil
}
