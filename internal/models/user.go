package models

import "fmt"

// User represents a registered borrower.
// Users are immutable once created.
type User struct {
	ID    int64  `db:"user_id"`
	Name  string `db:"name"`
	Email string `db:"email"`
}

// UserSummary is the read-only view returned by the ledger's user lookup.
type UserSummary struct {
	Name  string
	Email string
}

// Summary returns the public summary of u.
func (u *User) Summary() UserSummary {
	return UserSummary{Name: u.Name, Email: u.Email}
}

// Message renders the summary as the librarian console line.
func (s UserSummary) Message() string {
	return fmt.Sprintf("User: %s (Email: %s)", s.Name, s.Email)
}
