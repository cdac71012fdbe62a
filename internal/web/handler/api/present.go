package api

import (
	"time"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
	"github.com/gobookshelf/gobookshelf/internal/library"
)

type authorRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type bookJSON struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Author          authorRef `json:"author"`
	PublicationYear int       `json:"publication_year"`
	ISBN            string    `json:"isbn"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func presentBook(b *models.Book) bookJSON {
	return bookJSON{
		ID:              b.ID,
		Title:           b.Title,
		Author:          authorRef{ID: b.AuthorID, Name: b.Author.Name},
		PublicationYear: b.PublicationYear,
		ISBN:            b.ISBN,
		Description:     b.Description,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func presentBooks(books []models.Book) []bookJSON {
	out := make([]bookJSON, 0, len(books))
	for i := range books {
		out = append(out, presentBook(&books[i]))
	}

	return out
}

type bookList struct {
	Count          int64             `json:"count"`
	Page           int               `json:"page"`
	PageSize       int               `json:"page_size"`
	Results        []bookJSON        `json:"results"`
	AppliedFilters map[string]string `json:"applied_filters"`
}

type searchResult struct {
	SearchTerm   string     `json:"search_term"`
	ResultCount  int        `json:"result_count"`
	Results      []bookJSON `json:"results"`
	SearchFields []string   `json:"search_fields"`
}

type authorJSON struct {
	ID                    uint       `json:"id"`
	Name                  string     `json:"name"`
	BookCount             int64      `json:"book_count"`
	LatestPublicationYear *int       `json:"latest_publication_year"`
	Books                 []bookJSON `json:"books,omitempty"`
}

func presentAuthor(a *library.AuthorSummary) authorJSON {
	out := authorJSON{
		ID:                    a.ID,
		Name:                  a.Name,
		BookCount:             a.BookCount,
		LatestPublicationYear: a.LatestPublicationYear,
	}

	if len(a.Books) > 0 {
		out.Books = make([]bookJSON, 0, len(a.Books))

		for i := range a.Books {
			book := a.Books[i]
			book.Author = a.Author
			out.Books = append(out.Books, presentBook(&book))
		}
	}

	return out
}

type librarianJSON struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type libraryJSON struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	Librarian *librarianJSON `json:"librarian"`
	Books     []bookJSON     `json:"books,omitempty"`
}

func presentLibrary(l *models.Library) libraryJSON {
	out := libraryJSON{ID: l.ID, Name: l.Name}

	if l.Librarian != nil {
		out.Librarian = &librarianJSON{ID: l.Librarian.ID, Name: l.Librarian.Name}
	}

	if len(l.Books) > 0 {
		out.Books = presentBooks(l.Books)
	}

	return out
}

type userJSON struct {
	ID       uint64   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     string   `json:"role"`
	Groups   []string `json:"groups"`
	Grants   []string `json:"grants"`
}
