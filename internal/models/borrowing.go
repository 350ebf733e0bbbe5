package models

import "fmt"

// BorrowingStatus is the lifecycle state of a Borrowing.
type BorrowingStatus string

const (
	// StatusOpen is a loan that has not been returned yet.
	StatusOpen BorrowingStatus = "open"
	// StatusReturned is terminal.
	StatusReturned BorrowingStatus = "returned"
)

// Borrowing represents one loan of a book to a user.
type Borrowing struct {
	ID     int64 `db:"borrow_id"`
	BookID int64 `db:"book_id"`
	UserID int64 `db:"user_id"`

	BorrowDate Date `db:"borrow_date"`
	DueDate    Date `db:"due_date"`

	// ReturnDate is nil while the loan is open.
	ReturnDate *Date `db:"return_date"`
}

// Status derives the loan state from the return date.
func (b *Borrowing) Status() BorrowingStatus {
	if b.ReturnDate == nil {
		return StatusOpen
	}
	return StatusReturned
}

// ReturnOutcome is the result of a successful return.
type ReturnOutcome struct {
	// FineAmount is the overdue fine in whole units, never negative.
	FineAmount int64

	// OnTime is true when the book came back on or before its due date.
	OnTime bool

	// DaysLate is zero for on-time returns.
	DaysLate int64
}

// Message renders the outcome as the librarian console line.
func (o ReturnOutcome) Message() string {
	if o.FineAmount > 0 {
		return fmt.Sprintf("Book returned late. %d fine applied.", o.FineAmount)
	}
	return "Book returned successfully, no fine."
}
