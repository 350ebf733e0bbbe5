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

const borrowingColumns = "borrow_id, book_id, user_id, borrow_date, due_date, return_date"

// FindOpenBorrowing returns the earliest open loan for the user/book pair.
func (q queries) FindOpenBorrowing(ctx context.Context, userID, bookID int64) (*models.Borrowing, error) {
	borrowing := &models.Borrowing{}
	err := sqlx.GetContext(ctx, q.ext, borrowing,
		`SELECT `+borrowingColumns+`
		 FROM borrowings
		 WHERE user_id = ? AND book_id = ? AND return_date IS NULL
		 ORDER BY borrow_date, borrow_id
		 LIMIT 1`,
		userID, bookID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("open loan of book %d to user %d: %w", bookID, userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find open borrowing: %w", err)
	}

	return borrowing, nil
}

// CreateBorrowing persists a new open loan.
func (q queries) CreateBorrowing(ctx context.Context, borrowing *models.Borrowing) error {
	res, err := q.ext.ExecContext(ctx,
		`INSERT INTO borrowings (book_id, user_id, borrow_date, due_date, return_date)
		 VALUES (?, ?, ?, ?, ?)`,
		borrowing.BookID, borrowing.UserID, borrowing.BorrowDate, borrowing.DueDate, borrowing.ReturnDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert borrowing: %w", classify(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read borrowing id: %w", err)
	}
	borrowing.ID = id

	return nil
}

// MarkReturned closes an open loan.
func (q queries) MarkReturned(ctx context.Context, borrowID int64, returnDate models.Date) error {
	res, err := q.ext.ExecContext(ctx,
		"UPDATE borrowings SET return_date = ? WHERE borrow_id = ? AND return_date IS NULL",
		returnDate, borrowID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark borrowing returned: %w", classify(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("open borrowing %d: %w", borrowID, storage.ErrNotFound)
	}

	return nil
}

// ListBorrowingsByUser retrieves all loans of a user, oldest first.
func (q queries) ListBorrowingsByUser(ctx context.Context, userID int64) ([]*models.Borrowing, error) {
	var borrowings []*models.Borrowing
	err := sqlx.SelectContext(ctx, q.ext, &borrowings,
		`SELECT `+borrowingColumns+`
		 FROM borrowings WHERE user_id = ? ORDER BY borrow_date, borrow_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrowings by user: %w", err)
	}

	return borrowings, nil
}
