package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrBookNotFound is returned when the referenced book does not exist.
	ErrBookNotFound = errors.New("book not found")
	// ErrNoActiveLoan is returned when the user has no open loan of the book.
	ErrNoActiveLoan = errors.New("no active borrow record found")
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateISBN is returned when a book with the same ISBN is already catalogued.
	ErrDuplicateISBN = errors.New("isbn already catalogued")
	// ErrNoCopiesAvailable is returned when every copy of a book is on loan.
	ErrNoCopiesAvailable = errors.New("no copies available")
	// ErrAlreadyBorrowed is returned when the user already has an open loan of the book.
	ErrAlreadyBorrowed = errors.New("book already borrowed by user")
	// ErrInvalidInput is returned when arguments fail validation.
	ErrInvalidInput = errors.New("invalid input")
)

// StorageError reports a failure of the underlying store (I/O, connection,
// unexpected constraint) as opposed to a domain condition.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ledger %s: storage failure: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Message returns the librarian console line for a domain error, or "" for
// errors that have none.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return "Book not found."
	case errors.Is(err, ErrNoActiveLoan):
		return "No active borrow record found."
	case errors.Is(err, ErrUserNotFound):
		return "User not found."
	default:
		return ""
	}
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
