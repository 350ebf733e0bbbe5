package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mmynk/lendingledger/internal/models"
	"github.com/mmynk/lendingledger/internal/storage"
)

// GetBook retrieves a book by ID.
func (q queries) GetBook(ctx context.Context, bookID int64) (*models.Book, error) {
	book := &models.Book{}
	err := sqlx.GetContext(ctx, q.ext, book,
		"SELECT book_id, title, author, isbn, quantity, available FROM books WHERE book_id = ?",
		bookID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("book %d: %w", bookID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return book, nil
}

// CreateBook persists a new book to the database.
func (q queries) CreateBook(ctx context.Context, book *models.Book) error {
	res, err := q.ext.ExecContext(ctx,
		"INSERT INTO books (title, author, isbn, quantity, available) VALUES (?, ?, ?, ?, ?)",
		book.Title, book.Author, book.ISBN, book.Quantity, book.Available,
	)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", classify(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read book id: %w", err)
	}
	book.ID = id

	return nil
}

// AdjustAvailable shifts a book's available count by delta.
func (q queries) AdjustAvailable(ctx context.Context, bookID int64, delta int64) error {
	res, err := q.ext.ExecContext(ctx,
		"UPDATE books SET available = available + ? WHERE book_id = ?",
		delta, bookID,
	)
	if err != nil {
		return fmt.Errorf("failed to update availability: %w", classify(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("book %d: %w", bookID, storage.ErrNotFound)
	}

	return nil
}
