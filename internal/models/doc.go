// Package models defines the core domain models for the lending ledger.
//
// # Entities
//
// The ledger owns three persisted entities:
//   - Book: a catalog title with a total quantity and a count of copies on the shelf
//   - User: a borrower identified by name and email
//   - Borrowing: one loan of one book to one user, open until it is returned
//
// # Dates
//
// Borrow, due and return dates are calendar dates with no time of day. They
// are carried as Date values and persisted as ISO "YYYY-MM-DD" text, so that
// overdue detection and day counts never depend on string comparison.
//
// # Results
//
// Ledger operations return structured results (ReturnOutcome, UserSummary)
// rather than printing. The Message helpers render the console lines that
// callers display to a librarian.
package models
