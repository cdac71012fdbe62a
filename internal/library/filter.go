package library

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
)

const (
	// DefaultPageSize is used when a filter has no page size.
	DefaultPageSize = 20
	// MaxPageSize caps the page size of a filter.
	MaxPageSize = 100
)

// authorNameExpr selects the author name of a book row without joining.
const authorNameExpr = "(SELECT authors.name FROM authors WHERE authors.id = books.author_id)"

// orderColumns maps the public ordering fields to sql expressions.
var orderColumns = map[string]string{
	"title":            "books.title",
	"author":           authorNameExpr,
	"publication_year": "books.publication_year",
	"id":               "books.id",
}

// BookFilter narrows and orders a book listing. Zero values do not filter.
type BookFilter struct {
	Title       string
	TitleExact  string
	Author      string
	AuthorExact string
	Year        *int
	YearGTE     *int
	YearLTE     *int
	Search      string
	// Ordering is a comma separated list of fields, "-" prefixed for descending order.
	Ordering string
	Page     int
	PageSize int
}

// BookPage is one page of a book listing.
type BookPage struct {
	Books    []models.Book
	Count    int64
	Page     int
	PageSize int
	// Applied lists the filters that narrowed the result.
	Applied map[string]string
}

// ListBooks returns the books matching f.
func (s *Service) ListBooks(ctx context.Context, f BookFilter) (*BookPage, error) {
	page := &BookPage{Applied: map[string]string{}}
	page.Page, page.PageSize = f.pagination()

	query := s.db.WithContext(ctx).Model(&models.Book{})
	query = f.apply(query, page.Applied)

	if err := query.Session(&gorm.Session{}).Count(&page.Count).Error; err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	err := query.Session(&gorm.Session{}).
		Preload("Author").
		Order(orderClause(f.Ordering)).
		Offset((page.Page - 1) * page.PageSize).
		Limit(page.PageSize).
		Find(&page.Books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	return page, nil
}

// SearchBooks returns all books whose title or author name contains term.
func (s *Service) SearchBooks(ctx context.Context, term string) ([]models.Book, error) {
	var books []models.Book

	err := searchScope(s.db.WithContext(ctx).Model(&models.Book{}), term).
		Preload("Author").
		Order(orderClause("")).
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}

	return books, nil
}

func (f BookFilter) pagination() (int, int) {
	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}

	switch {
	case size < 1:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}

	return page, size
}

func (f BookFilter) apply(query *gorm.DB, applied map[string]string) *gorm.DB {
	like := " LIKE ? ESCAPE '" + likeEscape + "'"

	if f.Title != "" {
		query = query.Where("books.search_key"+like, containsPattern(f.Title))
		applied["title"] = f.Title
	}

	if f.TitleExact != "" {
		query = query.Where("books.title = ?", f.TitleExact)
		applied["title_exact"] = f.TitleExact
	}

	if f.Author != "" {
		query = query.Where("books.author_id IN (?)",
			query.Session(&gorm.Session{NewDB: true}).Model(&models.Author{}).Select("id").
				Where("search_key"+like, containsPattern(f.Author)))
		applied["author"] = f.Author
	}

	if f.AuthorExact != "" {
		query = query.Where("books.author_id IN (?)",
			query.Session(&gorm.Session{NewDB: true}).Model(&models.Author{}).Select("id").
				Where("name = ?", f.AuthorExact))
		applied["author_exact"] = f.AuthorExact
	}

	if f.Year != nil {
		query = query.Where("books.publication_year = ?", *f.Year)
		applied["publication_year"] = strconv.Itoa(*f.Year)
	}

	if f.YearGTE != nil {
		query = query.Where("books.publication_year >= ?", *f.YearGTE)
		applied["publication_year_gte"] = strconv.Itoa(*f.YearGTE)
	}

	if f.YearLTE != nil {
		query = query.Where("books.publication_year <= ?", *f.YearLTE)
		applied["publication_year_lte"] = strconv.Itoa(*f.YearLTE)
	}

	if f.Search != "" {
		query = searchScope(query, f.Search)
		applied["search"] = f.Search
	}

	return query
}

// searchScope matches term against the title and the author name. term is bound, never interpolated.
func searchScope(query *gorm.DB, term string) *gorm.DB {
	pattern := containsPattern(term)
	like := " LIKE ? ESCAPE '" + likeEscape + "'"

	return query.Where("(books.search_key"+like+" OR books.author_id IN (?))", pattern,
		query.Session(&gorm.Session{NewDB: true}).Model(&models.Author{}).Select("id").
			Where("search_key"+like, pattern))
}

// orderClause builds the ORDER BY of a listing. Unknown fields are ignored, title is the default
// and id breaks ties.
func orderClause(ordering string) string {
	var (
		parts []string
		seen  = map[string]bool{}
	)

	for _, field := range strings.Split(ordering, ",") {
		field = strings.TrimSpace(field)

		desc := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")

		column, ok := orderColumns[field]
		if !ok || seen[field] {
			continue
		}

		seen[field] = true

		if desc {
			column += " DESC"
		}

		parts = append(parts, column)
	}

	if len(parts) == 0 {
		parts = append(parts, orderColumns["title"])
	}

	if !seen["id"] {
		parts = append(parts, orderColumns["id"])
	}

	return strings.Join(parts, ", ")
}
