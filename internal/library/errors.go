package library

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is wrapped by every "does not exist" error of this package.
	ErrNotFound = errors.New("not found")

	// ErrBookNotFound is returned when a book id does not exist.
	ErrBookNotFound = fmt.Errorf("book %w", ErrNotFound)

	// ErrAuthorNotFound is returned when an author id does not exist.
	ErrAuthorNotFound = fmt.Errorf("author %w", ErrNotFound)

	// ErrLibraryNotFound is returned when a library id does not exist.
	ErrLibraryNotFound = fmt.Errorf("library %w", ErrNotFound)

	// ErrDuplicateBook is returned when a book with the same title, author and year exists.
	ErrDuplicateBook = errors.New("a book with this title, author and publication year already exists")

	// ErrDBNil is returned if the service was created without database.
	ErrDBNil = errors.New("db is nil")
)
