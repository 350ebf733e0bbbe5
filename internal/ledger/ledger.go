// Package ledger implements the lending workflow: cataloguing books,
// registering borrowers, lending copies and taking them back with overdue fines.
//
// Every mutating operation runs as one store transaction, so a failure part
// way through never leaves a book's available count out of step with its loans.
package ledger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/mmynk/lendingledger/internal/calculator"
	"github.com/mmynk/lendingledger/internal/models"
	"github.com/mmynk/lendingledger/internal/storage"
)

// Recorder receives ledger outcomes for instrumentation.
type Recorder interface {
	ObserveReturn(outcome models.ReturnOutcome)
	ObserveFailure(op string, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveReturn(models.ReturnOutcome) {}
func (nopRecorder) ObserveFailure(string, error)       {}

// Ledger owns the book, user and borrowing records.
type Ledger struct {
	store    storage.Store
	fines    calculator.FinePolicy
	validate *validator.Validate
	recorder Recorder
	logger   *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithFinePolicy overrides the default rate of one unit per day late.
func WithFinePolicy(p calculator.FinePolicy) Option {
	return func(l *Ledger) { l.fines = p }
}

// WithRecorder installs an outcome recorder, typically Prometheus metrics.
func WithRecorder(r Recorder) Option {
	return func(l *Ledger) { l.recorder = r }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// New creates a Ledger backed by the given store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		fines:    calculator.FinePolicy{PerDay: calculator.DefaultFinePerDay},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		recorder: nopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ReturnBook closes the user's open loan of the book as of returnDate.
//
// It fails with ErrBookNotFound if the book does not exist and ErrNoActiveLoan
// if the user holds no open loan of it. Otherwise the book's available count
// goes up by one and the loan is marked returned, both in one transaction,
// and the outcome carries the overdue fine.
func (l *Ledger) ReturnBook(ctx context.Context, userID, bookID int64, returnDate models.Date) (models.ReturnOutcome, error) {
	const op = "return book"

	if returnDate.IsZero() {
		return models.ReturnOutcome{}, l.fail(op, invalidInput("return date is required"))
	}

	var outcome models.ReturnOutcome
	err := l.store.WithinTx(ctx, func(q storage.Queries) error {
		if _, err := q.GetBook(ctx, bookID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		loan, err := q.FindOpenBorrowing(ctx, userID, bookID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrNoActiveLoan
			}
			return err
		}
		if returnDate.Before(loan.BorrowDate) {
			return invalidInput("return date %s precedes borrow date %s", returnDate, loan.BorrowDate)
		}

		fine := l.fines.CalculateFine(loan.DueDate, returnDate)

		if err := q.AdjustAvailable(ctx, bookID, 1); err != nil {
			return err
		}
		if err := q.MarkReturned(ctx, loan.ID, returnDate); err != nil {
			return err
		}

		outcome = models.ReturnOutcome{
			FineAmount: fine.Amount,
			OnTime:     fine.OnTime(),
			DaysLate:   fine.DaysLate,
		}
		return nil
	})
	if err != nil {
		l.logger.Warn("ReturnBook failed", "user_id", userID, "book_id", bookID, "error", err)
		return models.ReturnOutcome{}, l.fail(op, err)
	}

	l.logger.Info("Book returned",
		"user_id", userID,
		"book_id", bookID,
		"return_date", returnDate.String(),
		"days_late", outcome.DaysLate,
		"fine", outcome.FineAmount,
	)
	l.recorder.ObserveReturn(outcome)

	return outcome, nil
}

// GetUserInfo returns the name and email of a user, or ErrUserNotFound.
func (l *Ledger) GetUserInfo(ctx context.Context, userID int64) (models.UserSummary, error) {
	user, err := l.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = ErrUserNotFound
		}
		return models.UserSummary{}, l.fail("get user info", err)
	}
	return user.Summary(), nil
}

// ListLoans returns every loan of a user, open and returned, oldest first.
func (l *Ledger) ListLoans(ctx context.Context, userID int64) ([]*models.Borrowing, error) {
	const op = "list loans"

	if _, err := l.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = ErrUserNotFound
		}
		return nil, l.fail(op, err)
	}

	loans, err := l.store.ListBorrowingsByUser(ctx, userID)
	if err != nil {
		return nil, l.fail(op, err)
	}
	return loans, nil
}

// fail records err and converts anything that is not a domain error into a StorageError.
func (l *Ledger) fail(op string, err error) error {
	var storageErr *StorageError
	if !isDomainError(err) && !errors.As(err, &storageErr) {
		err = &StorageError{Op: op, Err: err}
	}
	l.recorder.ObserveFailure(op, err)
	return err
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrBookNotFound,
		ErrNoActiveLoan,
		ErrUserNotFound,
		ErrDuplicateISBN,
		ErrNoCopiesAvailable,
		ErrAlreadyBorrowed,
		ErrInvalidInput,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
