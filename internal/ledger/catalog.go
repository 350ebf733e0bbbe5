package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/lendingledger/internal/models"
	"github.com/mmynk/lendingledger/internal/storage"
)

// NewBook describes a catalog entry to add.
type NewBook struct {
	Title    string `validate:"required"`
	Author   string `validate:"required"`
	ISBN     string `validate:"required"`
	Quantity int64  `validate:"gte=0"`
}

// NewUser describes a borrower to register.
type NewUser struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
}

// AddBook catalogues a book with every copy on the shelf.
func (l *Ledger) AddBook(ctx context.Context, nb NewBook) (*models.Book, error) {
	const op = "add book"

	if err := l.validate.Struct(nb); err != nil {
		return nil, l.fail(op, fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}

	book := &models.Book{
		Title:     nb.Title,
		Author:    nb.Author,
		ISBN:      nb.ISBN,
		Quantity:  nb.Quantity,
		Available: nb.Quantity,
	}
	if err := l.store.CreateBook(ctx, book); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			err = fmt.Errorf("%w: %s", ErrDuplicateISBN, nb.ISBN)
		}
		return nil, l.fail(op, err)
	}

	l.logger.Info("Book catalogued", "book_id", book.ID, "isbn", book.ISBN, "quantity", book.Quantity)
	return book, nil
}

// AddUser registers a borrower.
func (l *Ledger) AddUser(ctx context.Context, nu NewUser) (*models.User, error) {
	const op = "add user"

	if err := l.validate.Struct(nu); err != nil {
		return nil, l.fail(op, fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}

	user := &models.User{Name: nu.Name, Email: nu.Email}
	if err := l.store.CreateUser(ctx, user); err != nil {
		return nil, l.fail(op, err)
	}

	l.logger.Info("User added", "user_id", user.ID)
	return user, nil
}

// BorrowBook lends one copy of a book to a user, due back on dueDate.
// The available count drops by one and the open loan is recorded atomically.
func (l *Ledger) BorrowBook(ctx context.Context, userID, bookID int64, borrowDate, dueDate models.Date) (*models.Borrowing, error) {
	const op = "borrow book"

	if borrowDate.IsZero() || dueDate.IsZero() {
		return nil, l.fail(op, invalidInput("borrow and due dates are required"))
	}
	if dueDate.Before(borrowDate) {
		return nil, l.fail(op, invalidInput("due date %s precedes borrow date %s", dueDate, borrowDate))
	}

	loan := &models.Borrowing{
		BookID:     bookID,
		UserID:     userID,
		BorrowDate: borrowDate,
		DueDate:    dueDate,
	}
	err := l.store.WithinTx(ctx, func(q storage.Queries) error {
		book, err := q.GetBook(ctx, bookID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrBookNotFound
			}
			return err
		}
		if _, err := q.GetUser(ctx, userID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if book.Available <= 0 {
			return ErrNoCopiesAvailable
		}

		if err := q.CreateBorrowing(ctx, loan); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return ErrAlreadyBorrowed
			}
			return err
		}
		return q.AdjustAvailable(ctx, bookID, -1)
	})
	if err != nil {
		l.logger.Warn("BorrowBook failed", "user_id", userID, "book_id", bookID, "error", err)
		return nil, l.fail(op, err)
	}

	l.logger.Info("Book lent",
		"borrow_id", loan.ID,
		"user_id", userID,
		"book_id", bookID,
		"due_date", dueDate.String(),
	)
	return loan, nil
}
