package models

// Book represents a catalog title and its copy counts.
type Book struct {
	// ID is the unique, stable identifier assigned by the store.
	ID int64 `db:"book_id"`

	Title  string `db:"title"`
	Author string `db:"author"`

	// ISBN is unique across the catalog.
	ISBN string `db:"isbn"`

	// Quantity is the total number of copies the library owns.
	Quantity int64 `db:"quantity"`

	// Available is the number of copies on the shelf.
	// Invariant: 0 <= Available <= Quantity.
	Available int64 `db:"available"`
}

// OnLoan returns the number of copies currently lent out.
func (b *Book) OnLoan() int64 {
	return b.Quantity - b.Available
}
