package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Dates are stored as ISO "YYYY-MM-DD" text.
const schema = `
CREATE TABLE IF NOT EXISTS books (
    book_id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    author TEXT NOT NULL,
    isbn TEXT UNIQUE NOT NULL,
    quantity INTEGER NOT NULL CHECK (quantity >= 0),
    available INTEGER NOT NULL,
    CHECK (available >= 0 AND available <= quantity)
);

CREATE TABLE IF NOT EXISTS users (
    user_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS borrowings (
    borrow_id INTEGER PRIMARY KEY,
    book_id INTEGER NOT NULL,
    user_id INTEGER NOT NULL,
    borrow_date TEXT NOT NULL,
    due_date TEXT NOT NULL,
    return_date TEXT,
    FOREIGN KEY (book_id) REFERENCES books(book_id),
    FOREIGN KEY (user_id) REFERENCES users(user_id)
);

CREATE INDEX IF NOT EXISTS idx_borrowings_user_id ON borrowings(user_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_borrowings_open_loan
    ON borrowings(user_id, book_id) WHERE return_date IS NULL;
`

// runMigrations executes the schema setup.
func runMigrations(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
