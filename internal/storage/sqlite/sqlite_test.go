package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mmynk/lendingledger/internal/models"
	"github.com/mmynk/lendingledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedLoanFixtures(t *testing.T, store *SQLiteStore) (*models.Book, *models.User) {
	t.Helper()
	ctx := context.Background()

	book := &models.Book{Title: "Book A", Author: "Author X", ISBN: "1234567890", Quantity: 5, Available: 5}
	if err := store.CreateBook(ctx, book); err != nil {
		t.Fatalf("CreateBook failed: %v", err)
	}
	user := &models.User{Name: "Alice", Email: "alice@email.com"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return book, user
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	book, user := seedLoanFixtures(t, store)

	t.Run("CreateBook assigns ID and GetBook reads it back", func(t *testing.T) {
		if book.ID == 0 {
			t.Fatal("Expected book ID to be generated")
		}

		got, err := store.GetBook(ctx, book.ID)
		if err != nil {
			t.Fatalf("GetBook failed: %v", err)
		}
		if *got != *book {
			t.Errorf("GetBook = %+v, want %+v", got, book)
		}
	})

	t.Run("duplicate ISBN is rejected", func(t *testing.T) {
		dup := &models.Book{Title: "Other", Author: "Y", ISBN: book.ISBN, Quantity: 1, Available: 1}
		err := store.CreateBook(ctx, dup)
		if !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("Expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("GetBook and GetUser return ErrNotFound", func(t *testing.T) {
		if _, err := store.GetBook(ctx, 999); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetBook: expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetUser(ctx, 999); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetUser: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetUser retrieves user", func(t *testing.T) {
		got, err := store.GetUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.Name != "Alice" || got.Email != "alice@email.com" {
			t.Errorf("GetUser = %+v", got)
		}
	})

	t.Run("available cannot exceed quantity or go negative", func(t *testing.T) {
		if err := store.AdjustAvailable(ctx, book.ID, 1); !errors.Is(err, storage.ErrConstraint) {
			t.Errorf("Expected ErrConstraint above quantity, got %v", err)
		}
		if err := store.AdjustAvailable(ctx, book.ID, -6); !errors.Is(err, storage.ErrConstraint) {
			t.Errorf("Expected ErrConstraint below zero, got %v", err)
		}
		if err := store.AdjustAvailable(ctx, 999, 1); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound for missing book, got %v", err)
		}
	})
}

func TestBorrowings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	book, user := seedLoanFixtures(t, store)

	loan := &models.Borrowing{
		BookID:     book.ID,
		UserID:     user.ID,
		BorrowDate: models.MustParseDate("2024-12-01"),
		DueDate:    models.MustParseDate("2024-12-10"),
	}
	if err := store.CreateBorrowing(ctx, loan); err != nil {
		t.Fatalf("CreateBorrowing failed: %v", err)
	}

	t.Run("FindOpenBorrowing returns the open loan", func(t *testing.T) {
		got, err := store.FindOpenBorrowing(ctx, user.ID, book.ID)
		if err != nil {
			t.Fatalf("FindOpenBorrowing failed: %v", err)
		}
		if got.ID != loan.ID {
			t.Errorf("ID mismatch: got %d, want %d", got.ID, loan.ID)
		}
		if got.DueDate.String() != "2024-12-10" {
			t.Errorf("DueDate = %s, want 2024-12-10", got.DueDate)
		}
		if got.ReturnDate != nil {
			t.Errorf("Expected nil ReturnDate, got %s", got.ReturnDate)
		}
		if got.Status() != models.StatusOpen {
			t.Errorf("Status = %s, want open", got.Status())
		}
	})

	t.Run("second open loan for the same pair is rejected", func(t *testing.T) {
		dup := &models.Borrowing{
			BookID:     book.ID,
			UserID:     user.ID,
			BorrowDate: models.MustParseDate("2024-12-02"),
			DueDate:    models.MustParseDate("2024-12-11"),
		}
		if err := store.CreateBorrowing(ctx, dup); !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("Expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("loan for unknown book violates foreign key", func(t *testing.T) {
		orphan := &models.Borrowing{
			BookID:     999,
			UserID:     user.ID,
			BorrowDate: models.MustParseDate("2024-12-02"),
			DueDate:    models.MustParseDate("2024-12-11"),
		}
		if err := store.CreateBorrowing(ctx, orphan); !errors.Is(err, storage.ErrConstraint) {
			t.Errorf("Expected ErrConstraint, got %v", err)
		}
	})

	t.Run("MarkReturned closes the loan once", func(t *testing.T) {
		if err := store.MarkReturned(ctx, loan.ID, models.MustParseDate("2024-12-09")); err != nil {
			t.Fatalf("MarkReturned failed: %v", err)
		}
		if err := store.MarkReturned(ctx, loan.ID, models.MustParseDate("2024-12-09")); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second return, got %v", err)
		}
		if _, err := store.FindOpenBorrowing(ctx, user.ID, book.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected no open loan, got %v", err)
		}

		loans, err := store.ListBorrowingsByUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListBorrowingsByUser failed: %v", err)
		}
		if len(loans) != 1 {
			t.Fatalf("Expected 1 loan, got %d", len(loans))
		}
		if loans[0].ReturnDate == nil || loans[0].ReturnDate.String() != "2024-12-09" {
			t.Errorf("ReturnDate = %v, want 2024-12-09", loans[0].ReturnDate)
		}
		if loans[0].Status() != models.StatusReturned {
			t.Errorf("Status = %s, want returned", loans[0].Status())
		}
	})
}

func TestWithinTx(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	book, _ := seedLoanFixtures(t, store)

	t.Run("rollback on error discards writes", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.WithinTx(ctx, func(q storage.Queries) error {
			if err := q.AdjustAvailable(ctx, book.ID, -1); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Expected boom, got %v", err)
		}

		got, err := store.GetBook(ctx, book.ID)
		if err != nil {
			t.Fatalf("GetBook failed: %v", err)
		}
		if got.Available != 5 {
			t.Errorf("Available = %d after rollback, want 5", got.Available)
		}
	})

	t.Run("commit on success persists writes", func(t *testing.T) {
		err := store.WithinTx(ctx, func(q storage.Queries) error {
			return q.AdjustAvailable(ctx, book.ID, -2)
		})
		if err != nil {
			t.Fatalf("WithinTx failed: %v", err)
		}

		got, err := store.GetBook(ctx, book.ID)
		if err != nil {
			t.Fatalf("GetBook failed: %v", err)
		}
		if got.Available != 3 {
			t.Errorf("Available = %d after commit, want 3", got.Available)
		}
	})
}

func TestFindOpenBorrowingPrefersEarliestBorrowDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	book, user := seedLoanFixtures(t, store)

	// Without the open-loan index two open loans of the same pair can coexist.
	if _, err := store.db.ExecContext(ctx, "DROP INDEX idx_borrowings_open_loan"); err != nil {
		t.Fatalf("Failed to drop index: %v", err)
	}

	later := &models.Borrowing{
		BookID:     book.ID,
		UserID:     user.ID,
		BorrowDate: models.MustParseDate("2024-12-05"),
		DueDate:    models.MustParseDate("2024-12-15"),
	}
	earlier := &models.Borrowing{
		BookID:     book.ID,
		UserID:     user.ID,
		BorrowDate: models.MustParseDate("2024-11-20"),
		DueDate:    models.MustParseDate("2024-11-30"),
	}
	// Insert the later loan first so row order alone would pick the wrong one.
	for _, loan := range []*models.Borrowing{later, earlier} {
		if err := store.CreateBorrowing(ctx, loan); err != nil {
			t.Fatalf("CreateBorrowing failed: %v", err)
		}
	}

	got, err := store.FindOpenBorrowing(ctx, user.ID, book.ID)
	if err != nil {
		t.Fatalf("FindOpenBorrowing failed: %v", err)
	}
	if got.ID != earlier.ID {
		t.Errorf("FindOpenBorrowing returned loan %d (borrowed %s), want %d (borrowed %s)",
			got.ID, got.BorrowDate, earlier.ID, earlier.BorrowDate)
	}
}
