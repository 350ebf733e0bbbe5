// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/lendingledger/internal/models"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrConstraint is returned when a write violates a CHECK or foreign key constraint.
	ErrConstraint = errors.New("constraint violated")
)

// Queries defines the ledger's reads and writes against books, users and borrowings.
// Implementations run them either directly or inside a transaction.
type Queries interface {
	// GetBook retrieves a book by ID. Returns ErrNotFound if absent.
	GetBook(ctx context.Context, bookID int64) (*models.Book, error)

	// CreateBook inserts a book; book.ID is populated by the store.
	// Returns ErrDuplicate if the ISBN is already catalogued.
	CreateBook(ctx context.Context, book *models.Book) error

	// AdjustAvailable adds delta to a book's available count.
	// Returns ErrNotFound if the book is absent and ErrConstraint if the
	// result would leave the 0..quantity range.
	AdjustAvailable(ctx context.Context, bookID int64, delta int64) error

	// GetUser retrieves a user by ID. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, userID int64) (*models.User, error)

	// CreateUser inserts a user; user.ID is populated by the store.
	CreateUser(ctx context.Context, user *models.User) error

	// FindOpenBorrowing returns the open loan of bookID to userID.
	// If several are open the one with the earliest borrow date wins.
	// Returns ErrNotFound if there is none.
	FindOpenBorrowing(ctx context.Context, userID, bookID int64) (*models.Borrowing, error)

	// CreateBorrowing inserts an open loan; borrowing.ID is populated by the store.
	// Returns ErrDuplicate if the pair already has an open loan.
	CreateBorrowing(ctx context.Context, borrowing *models.Borrowing) error

	// MarkReturned sets the return date of an open loan.
	// Returns ErrNotFound if the loan does not exist or is already returned.
	MarkReturned(ctx context.Context, borrowID int64, returnDate models.Date) error

	// ListBorrowingsByUser returns all loans of a user, oldest first.
	ListBorrowingsByUser(ctx context.Context, userID int64) ([]*models.Borrowing, error)
}

// Store is the ledger's persistent storage.
// This abstraction allows swapping storage backends without changing the ledger.
type Store interface {
	Queries

	// WithinTx runs fn in a single transaction. The transaction commits if fn
	// returns nil and rolls back otherwise, so either every write made through
	// the Queries passed to fn persists or none does.
	WithinTx(ctx context.Context, fn func(q Queries) error) error

	// Close releases any resources held by the store.
	Close() error
}
