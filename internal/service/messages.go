package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"
	jsoniter "github.com/json-iterator/go"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/lendingledger/internal/ledger"
	"github.com/mmynk/lendingledger/internal/models"
	"github.com/mmynk/lendingledger/internal/registry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Requests arrive as google.protobuf.Struct documents and are decoded into
// these types through their JSON form.

type returnBookRequest struct {
	UserID     int64       `json:"user_id"`
	BookID     int64       `json:"book_id"`
	ReturnDate models.Date `json:"return_date"`
}

type userRequest struct {
	UserID int64 `json:"user_id"`
}

type addBookRequest struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	ISBN     string `json:"isbn"`
	Quantity int64  `json:"quantity"`
}

type addUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type borrowBookRequest struct {
	UserID     int64       `json:"user_id"`
	BookID     int64       `json:"book_id"`
	BorrowDate models.Date `json:"borrow_date"`
	DueDate    models.Date `json:"due_date"`
}

type registerUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// decode converts a Struct request into dst.
func decode(msg *structpb.Struct, dst any) error {
	data, err := protojson.Marshal(msg)
	if err != nil {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("malformed request: %w", err))
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("malformed request: %w", err))
	}
	return nil
}

// respond wraps fields in a Struct response.
func respond(fields map[string]any) (*connect.Response[structpb.Struct], error) {
	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to encode response: %w", err))
	}
	return connect.NewResponse(msg), nil
}

func bookFields(b *models.Book) map[string]any {
	return map[string]any{
		"book_id":   b.ID,
		"title":     b.Title,
		"author":    b.Author,
		"isbn":      b.ISBN,
		"quantity":  b.Quantity,
		"available": b.Available,
	}
}

func borrowingFields(b *models.Borrowing) map[string]any {
	var returnDate any
	if b.ReturnDate != nil {
		returnDate = b.ReturnDate.String()
	}
	return map[string]any{
		"borrow_id":   b.ID,
		"book_id":     b.BookID,
		"user_id":     b.UserID,
		"borrow_date": b.BorrowDate.String(),
		"due_date":    b.DueDate.String(),
		"return_date": returnDate,
		"status":      string(b.Status()),
	}
}

func registryEntryFields(e registry.Entry) map[string]any {
	books := make([]any, len(e.BorrowedBooks))
	for i, title := range e.BorrowedBooks {
		books[i] = title
	}
	return map[string]any{
		"id":             e.ID,
		"username":       e.Username,
		"email":          e.Email,
		"borrowed_books": books,
	}
}

// toConnectError maps ledger and registry errors onto Connect codes.
// The librarian console line, when one exists, becomes the error message.
func toConnectError(err error) *connect.Error {
	code := connect.CodeInternal
	switch {
	case errors.Is(err, ledger.ErrBookNotFound),
		errors.Is(err, ledger.ErrNoActiveLoan),
		errors.Is(err, ledger.ErrUserNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, ledger.ErrInvalidInput),
		errors.Is(err, registry.ErrInvalidEntry):
		code = connect.CodeInvalidArgument
	case errors.Is(err, ledger.ErrDuplicateISBN),
		errors.Is(err, ledger.ErrAlreadyBorrowed):
		code = connect.CodeAlreadyExists
	case errors.Is(err, ledger.ErrNoCopiesAvailable):
		code = connect.CodeFailedPrecondition
	}

	if msg := ledger.Message(err); msg != "" {
		return connect.NewError(code, errors.New(msg))
	}
	return connect.NewError(code, err)
}
