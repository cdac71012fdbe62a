package books

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/db/models"
	"github.com/gobookshelf/gobookshelf/internal/library"
	"github.com/gobookshelf/gobookshelf/internal/validate"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
	"github.com/gobookshelf/gobookshelf/internal/web/navigation"
)

// Form is the html book form. The year stays text so a blank field reads as missing.
type Form struct {
	Title           string `form:"title"`
	Author          string `form:"author"`
	PublicationYear string `form:"publication_year"`
	ISBN            string `form:"isbn"`
	Description     string `form:"description"`
}

func (f Form) book() library.BookForm {
	year, _ := strconv.Atoi(strings.TrimSpace(f.PublicationYear))

	return library.BookForm{
		Title:           f.Title,
		Author:          f.Author,
		PublicationYear: year,
		ISBN:            f.ISBN,
		Description:     f.Description,
	}
}

// formOf fills the form with the stored values of book.
func formOf(book *models.Book) Form {
	return Form{
		Title:           validate.Plain(book.Title),
		Author:          validate.Plain(book.Author.Name),
		PublicationYear: strconv.Itoa(book.PublicationYear),
		ISBN:            validate.Plain(book.ISBN),
		Description:     validate.Plain(book.Description),
	}
}

// List renders the filtered and paginated book list.
func (s *Service) List(c fiber.Ctx) error {
	filter, err := handler.BookFilter(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	page, err := s.deps.Library.ListBooks(c.Context(), filter)
	if err != nil {
		return err //nolint:wrapcheck
	}

	bind := s.permissions(c)
	bind["Page"] = page
	bind["Filter"] = filter
	bind["HasPrev"] = page.Page > 1
	bind["HasNext"] = int64(page.Page*page.PageSize) < page.Count

	return handler.Render(c, s.deps, ListTemplate, navigation.New("Books", navigation.SectionBooks), bind)
}

// Detail renders one book with its comments.
func (s *Service) Detail(c fiber.Ctx) error {
	return s.renderDetail(c, fiber.StatusOK, "", nil)
}

func (s *Service) renderDetail(c fiber.Ctx, status int, comment string, fe validate.FieldErrors) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err //nolint:wrapcheck
	}

	book, err := s.deps.Library.GetBook(c.Context(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	comments, err := s.deps.Library.ListComments(c.Context(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	bind := s.permissions(c)
	bind["Book"] = book
	bind["Comments"] = comments
	bind["Comment"] = comment
	bind["Errors"] = fe

	if len(fe) > 0 {
		bind["error"] = fe.Error()
	}

	nav := navigation.New(validate.Plain(book.Title), navigation.SectionBooks).
		Add(validate.Plain(book.Title), DetailPath(book.ID))

	c.Status(status)

	return handler.Render(c, s.deps, DetailTemplate, nav, bind)
}

// New renders the empty create form.
func (s *Service) New(c fiber.Ctx) error {
	return s.renderForm(c, fiber.StatusOK, nil, Form{}, nil)
}

// Create stores a new book and redirects to its page.
func (s *Service) Create(c fiber.Ctx) error {
	form, input, fe, err := s.parse(c)
	if err != nil {
		return err
	}

	if fe != nil {
		return s.renderForm(c, fiber.StatusBadRequest, nil, form, fe)
	}

	book, err := s.deps.Library.CreateBook(c.Context(), input)
	if errors.Is(err, library.ErrDuplicateBook) {
		return s.renderForm(c, fiber.StatusConflict, nil, form, validate.FieldErrors{validate.FieldTitle: err.Error()})
	}

	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint("book_id", book.ID).Uint64("user_id", auth.PrincipalFrom(c).UserID).Msg("book created")

	return c.Redirect().Status(fiber.StatusFound).To(DetailPath(book.ID))
}

// Edit renders the form of an existing book.
func (s *Service) Edit(c fiber.Ctx) error {
	book, err := s.book(c)
	if err != nil {
		return err
	}

	return s.renderForm(c, fiber.StatusOK, book, formOf(book), nil)
}

// Update saves the edit form.
func (s *Service) Update(c fiber.Ctx) error {
	book, err := s.book(c)
	if err != nil {
		return err
	}

	form, input, fe, err := s.parse(c)
	if err != nil {
		return err
	}

	if fe != nil {
		return s.renderForm(c, fiber.StatusBadRequest, book, form, fe)
	}

	_, err = s.deps.Library.UpdateBook(c.Context(), book.ID, library.BookChanges{
		Title:           &input.Title,
		AuthorName:      &input.AuthorName,
		PublicationYear: &input.PublicationYear,
		ISBN:            &input.ISBN,
		Description:     &input.Description,
	})
	if errors.Is(err, library.ErrDuplicateBook) {
		return s.renderForm(c, fiber.StatusConflict, book, form, validate.FieldErrors{validate.FieldTitle: err.Error()})
	}

	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.Redirect().Status(fiber.StatusFound).To(DetailPath(book.ID))
}

// ConfirmDelete asks before a book is deleted.
func (s *Service) ConfirmDelete(c fiber.Ctx) error {
	book, err := s.book(c)
	if err != nil {
		return err
	}

	nav := navigation.New("Delete book", navigation.SectionBooks).
		Add(validate.Plain(book.Title), DetailPath(book.ID)).
		Add("Delete", DetailPath(book.ID)+"/delete")

	return handler.Render(c, s.deps, DeleteTemplate, nav, fiber.Map{"Book": book})
}

// Delete removes a book and returns to the list.
func (s *Service) Delete(c fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err //nolint:wrapcheck
	}

	book, err := s.deps.Library.DeleteBook(c.Context(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint("book_id", book.ID).Uint64("user_id", auth.PrincipalFrom(c).UserID).Msg("book deleted")

	return c.Redirect().Status(fiber.StatusFound).To(Path + "/")
}

// Search renders the books matching the search term in title or author.
func (s *Service) Search(c fiber.Ctx) error {
	nav := navigation.New("Search", navigation.SectionBooks).Add("Search", Path+"/search/")
	raw := c.Query("search")

	term, err := s.deps.Validator.Validate(validate.FieldSearch, raw)
	if err != nil {
		fe, ok := validate.Fields(err)
		if !ok {
			return err //nolint:wrapcheck
		}

		c.Status(fiber.StatusBadRequest)

		return handler.Render(c, s.deps, SearchTemplate, nav, fiber.Map{
			"Term":   raw,
			"Errors": fe,
			"error":  fe.Error(),
		})
	}

	books, err := s.deps.Library.SearchBooks(c.Context(), term)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Render(c, s.deps, SearchTemplate, nav, fiber.Map{
		"Term":    validate.Plain(term),
		"Results": books,
	})
}

// Comment adds a comment of the current user to a book.
func (s *Service) Comment(c fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err //nolint:wrapcheck
	}

	var form library.CommentForm
	if err = c.Bind().Body(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form data")
	}

	body, err := library.CleanComment(s.deps.Validator, form)
	if err != nil {
		fe, ok := validate.Fields(err)
		if !ok {
			return err //nolint:wrapcheck
		}

		return s.renderDetail(c, fiber.StatusBadRequest, form.Comment, fe)
	}

	if _, err = s.deps.Library.AddComment(c.Context(), id, auth.PrincipalFrom(c).UserID, body); err != nil {
		return err //nolint:wrapcheck
	}

	return c.Redirect().Status(fiber.StatusFound).To(DetailPath(id))
}

func (s *Service) book(c fiber.Ctx) (*models.Book, error) {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return s.deps.Library.GetBook(c.Context(), id) //nolint:wrapcheck
}

// parse binds and validates the book form. Field errors are returned separately
// from failures that end the request.
func (s *Service) parse(c fiber.Ctx) (Form, library.BookInput, validate.FieldErrors, error) {
	var form Form

	if err := c.Bind().Body(&form); err != nil {
		return form, library.BookInput{}, nil, fiber.NewError(fiber.StatusBadRequest, "invalid form data")
	}

	raw := form.book()

	if err := s.deps.Shape.Struct(raw); err != nil {
		fe, ok := validate.Fields(err)
		if !ok {
			return form, library.BookInput{}, nil, err //nolint:wrapcheck
		}

		return form, library.BookInput{}, fe, nil
	}

	input, err := library.CleanBook(s.deps.Validator, raw)
	if err != nil {
		fe, ok := validate.Fields(err)
		if !ok {
			return form, library.BookInput{}, nil, err
		}

		return form, library.BookInput{}, fe, nil
	}

	return form, input, nil, nil
}

func (s *Service) renderForm(c fiber.Ctx, status int, book *models.Book, form Form, fe validate.FieldErrors) error {
	nav := navigation.New("Add book", navigation.SectionBooks).Add("Add book", Path+"/create/")
	action := Path + "/create/"

	if book != nil {
		nav = navigation.New("Edit book", navigation.SectionBooks).
			Add(validate.Plain(book.Title), DetailPath(book.ID)).
			Add("Edit", DetailPath(book.ID)+"/edit")
		action = DetailPath(book.ID) + "/edit"
	}

	bind := fiber.Map{"Form": form, "Errors": fe, "Action": action, "Book": book}
	if len(fe) > 0 {
		bind["error"] = fe.Error()
	}

	c.Status(status)

	return handler.Render(c, s.deps, FormTemplate, nav, bind)
}
