package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/lendingledger/internal/ledger"
	"github.com/mmynk/lendingledger/internal/registry"
)

// LedgerServiceName is the fully-qualified name of the service.
const LedgerServiceName = "lendingledger.v1.LedgerService"

// Procedure paths of the LedgerService.
const (
	ReturnBookProcedure   = "/" + LedgerServiceName + "/ReturnBook"
	GetUserInfoProcedure  = "/" + LedgerServiceName + "/GetUserInfo"
	ListLoansProcedure    = "/" + LedgerServiceName + "/ListLoans"
	AddBookProcedure      = "/" + LedgerServiceName + "/AddBook"
	AddUserProcedure      = "/" + LedgerServiceName + "/AddUser"
	BorrowBookProcedure   = "/" + LedgerServiceName + "/BorrowBook"
	RegisterUserProcedure = "/" + LedgerServiceName + "/RegisterUser"
	ListRegistryProcedure = "/" + LedgerServiceName + "/ListRegistry"
)

// MutatingProcedures change ledger or registry state and may be guarded by auth.
var MutatingProcedures = []string{
	ReturnBookProcedure,
	AddBookProcedure,
	AddUserProcedure,
	BorrowBookProcedure,
	RegisterUserProcedure,
}

// LedgerService exposes the ledger and the user registry over Connect.
type LedgerService struct {
	ledger   *ledger.Ledger
	registry *registry.FileRegistry
}

// NewLedgerService creates a LedgerService over the given ledger and registry.
func NewLedgerService(l *ledger.Ledger, r *registry.FileRegistry) *LedgerService {
	return &LedgerService{ledger: l, registry: r}
}

// NewLedgerServiceHandler builds an HTTP handler serving every procedure of
// svc. It returns the path prefix to mount the handler on.
func NewLedgerServiceHandler(svc *LedgerService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(ReturnBookProcedure, connect.NewUnaryHandler(ReturnBookProcedure, svc.ReturnBook, opts...))
	mux.Handle(GetUserInfoProcedure, connect.NewUnaryHandler(GetUserInfoProcedure, svc.GetUserInfo, opts...))
	mux.Handle(ListLoansProcedure, connect.NewUnaryHandler(ListLoansProcedure, svc.ListLoans, opts...))
	mux.Handle(AddBookProcedure, connect.NewUnaryHandler(AddBookProcedure, svc.AddBook, opts...))
	mux.Handle(AddUserProcedure, connect.NewUnaryHandler(AddUserProcedure, svc.AddUser, opts...))
	mux.Handle(BorrowBookProcedure, connect.NewUnaryHandler(BorrowBookProcedure, svc.BorrowBook, opts...))
	mux.Handle(RegisterUserProcedure, connect.NewUnaryHandler(RegisterUserProcedure, svc.RegisterUser, opts...))
	mux.Handle(ListRegistryProcedure, connect.NewUnaryHandler(ListRegistryProcedure, svc.ListRegistry, opts...))
	return "/" + LedgerServiceName + "/", mux
}

// ReturnBook closes an open loan and reports the overdue fine.
func (s *LedgerService) ReturnBook(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in returnBookRequest
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}
	slog.Info("ReturnBook request received",
		"user_id", in.UserID,
		"book_id", in.BookID,
		"return_date", in.ReturnDate.String(),
	)

	outcome, err := s.ledger.ReturnBook(ctx, in.UserID, in.BookID, in.ReturnDate)
	if err != nil {
		return nil, toConnectError(err)
	}

	return respond(map[string]any{
		"fine_amount": outcome.FineAmount,
		"on_time":     outcome.OnTime,
		"days_late":   outcome.DaysLate,
		"message":     outcome.Message(),
	})
}

// GetUserInfo returns a user's name and email.
func (s *LedgerService) GetUserInfo(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in userRequest
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}
	slog.Info("GetUserInfo request received", "user_id", in.UserID)

	summary, err := s.ledger.GetUserInfo(ctx, in.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return respond(map[string]any{
		"name":    summary.Name,
		"email":   summary.Email,
		"message": summary.Message(),
	})
}

// ListLoans returns every loan of a user.
func (s *LedgerService) ListLoans(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in userRequest
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}

	loans, err := s.ledger.ListLoans(ctx, in.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]any, len(loans))
	for i, loan := range loans {
		out[i] = borrowingFields(loan)
	}
	slog.Info("ListLoans successful", "user_id", in.UserID, "count", len(loans))

	return respond(map[string]any{"loans": out})
}

// AddBook catalogues a new book.
func (s *LedgerService) AddBook(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in addBookRequest
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}
	slog.Info("AddBook request received", "isbn", in.ISBN, "quantity", in.Quantity)

	book, err := s.ledger.AddBook(ctx, ledger.NewBook{
		Title:    in.Title,
		Author:   in.Author,
		ISBN:     in.ISBN,
		Quantity: in.Quantity,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return respond(map[string]any{"book": bookFields(book)})
}

// AddUser registers a borrower in the ledger.
func (s *LedgerService) AddUser(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in addUserRequest
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}

	user, err := s.ledger.AddUser(ctx, ledger.NewUser{Name: in.Name, Email: in.Email})
	if err != nil {
		return nil, toConnectError(err)
	}

	return respond(map[string]any{
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
	})
}

// BorrowBook lends a copy of a book to a user.
func (s *LedgerService) BorrowBook(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in borrowBookRequest
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}
	slog.Info("BorrowBook request received",
		"user_id", in.UserID,
		"book_id", in.BookID,
		"due_date", in.DueDate.String(),
	)

	loan, err := s.ledger.BorrowBook(ctx, in.UserID, in.BookID, in.BorrowDate, in.DueDate)
	if err != nil {
		return nil, toConnectError(err)
	}

	return respond(map[string]any{"loan": borrowingFields(loan)})
}

// RegisterUser appends a user to the flat-file registry.
func (s *LedgerService) RegisterUser(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in registerUserRequest
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}

	entry, err := s.registry.Register(ctx, in.Username, in.Email)
	if err != nil {
		slog.Error("RegisterUser failed", "username", in.Username, "error", err)
		return nil, toConnectError(err)
	}
	slog.Info("User registered", "id", entry.ID, "registry", s.registry.Path())

	return respond(map[string]any{"entry": registryEntryFields(entry)})
}

// ListRegistry returns every entry of the flat-file registry.
func (s *LedgerService) ListRegistry(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	entries, err := s.registry.Load(ctx)
	if err != nil {
		slog.Error("ListRegistry failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = registryEntryFields(e)
	}

	return respond(map[string]any{"entries": out})
}
