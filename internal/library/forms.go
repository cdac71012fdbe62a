package library

import (
	"github.com/gobookshelf/gobookshelf/internal/validate"
)

// BookForm is a raw book submission from an html form or a json body.
type BookForm struct {
	Title           string `json:"title" form:"title" validate:"required"`
	Author          string `json:"author" form:"author" validate:"required_without=AuthorID"`
	AuthorID        uint   `json:"author_id" form:"author_id"`
	PublicationYear int    `json:"publication_year" form:"publication_year" validate:"required"`
	ISBN            string `json:"isbn" form:"isbn"`
	Description     string `json:"description" form:"description"`
}

// BookPatch is a raw partial book update; absent fields are nil.
type BookPatch struct {
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	AuthorID        *uint   `json:"author_id"`
	PublicationYear *int    `json:"publication_year"`
	ISBN            *string `json:"isbn"`
	Description     *string `json:"description"`
}

// CommentForm is a raw comment submission.
type CommentForm struct {
	Comment string `json:"comment" form:"comment" validate:"required"`
}

// ContactForm is a raw contact form submission. Website is a honeypot.
type ContactForm struct {
	Name    string `json:"name" form:"name" validate:"required"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Subject string `json:"subject" form:"subject" validate:"required"`
	Message string `json:"message" form:"message" validate:"required"`
	Website string `json:"website" form:"website"`
}

// CleanBook sanitizes and validates a book submission.
func CleanBook(v *validate.Validator, f BookForm) (BookInput, error) {
	form := v.NewForm()

	in := BookInput{
		Title:           form.Text(validate.FieldTitle, f.Title),
		AuthorID:        f.AuthorID,
		PublicationYear: form.Year(validate.FieldYear, f.PublicationYear),
		ISBN:            form.Text(validate.FieldISBN, f.ISBN),
		Description:     form.Text(validate.FieldDescription, f.Description),
	}

	if f.AuthorID == 0 {
		in.AuthorName = form.Text(validate.FieldAuthor, f.Author)
	}

	return in, form.Err()
}

// CleanBookPatch sanitizes and validates the fields present in a partial update.
func CleanBookPatch(v *validate.Validator, p BookPatch) (BookChanges, error) {
	var (
		form = v.NewForm()
		ch   BookChanges
	)

	text := func(field string, raw *string) *string {
		if raw == nil {
			return nil
		}

		clean := form.Text(field, *raw)

		return &clean
	}

	ch.Title = text(validate.FieldTitle, p.Title)
	ch.ISBN = text(validate.FieldISBN, p.ISBN)
	ch.Description = text(validate.FieldDescription, p.Description)

	if p.AuthorID != nil {
		ch.AuthorID = p.AuthorID
	} else {
		ch.AuthorName = text(validate.FieldAuthor, p.Author)
	}

	if p.PublicationYear != nil {
		year := form.Year(validate.FieldYear, *p.PublicationYear)
		ch.PublicationYear = &year
	}

	return ch, form.Err()
}

// CleanAuthor validates an author name.
func CleanAuthor(v *validate.Validator, name string) (string, error) {
	form := v.NewForm()
	clean := form.Text(validate.FieldName, name)

	return clean, form.Err()
}

// CleanLibrary validates a library name.
func CleanLibrary(v *validate.Validator, name string) (string, error) {
	form := v.NewForm()
	clean := form.Text(validate.FieldLibraryName, name)

	return clean, form.Err()
}

// CleanComment validates a comment body.
func CleanComment(v *validate.Validator, f CommentForm) (string, error) {
	form := v.NewForm()
	clean := form.Text(validate.FieldComment, f.Comment)

	return clean, form.Err()
}

// CleanContact validates a contact submission. A filled honeypot returns validate.ErrHoneypot.
func CleanContact(v *validate.Validator, f ContactForm) (ContactInput, error) {
	if err := validate.CheckHoneypot(f.Website); err != nil {
		return ContactInput{}, err //nolint:wrapcheck
	}

	form := v.NewForm()

	in := ContactInput{
		Name:    form.Text(validate.FieldName, f.Name),
		Email:   validate.Sanitize(f.Email),
		Subject: form.Text(validate.FieldSubject, f.Subject),
		Message: form.Text(validate.FieldMessage, f.Message),
	}

	return in, form.Err()
}
