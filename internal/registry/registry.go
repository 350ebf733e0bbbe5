// Package registry maintains the flat-file user registry: a JSON array of
// {username, email, borrowed_books} records rewritten on every registration.
//
// The registry is a separate bounded context from the ledger's users table;
// the two are not reconciled.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrInvalidEntry is returned when a registration fails validation.
var ErrInvalidEntry = errors.New("invalid registry entry")

// Entry is one registered user in the file.
type Entry struct {
	ID            string   `json:"id,omitempty"`
	Username      string   `json:"username" validate:"required"`
	Email         string   `json:"email" validate:"required,email"`
	BorrowedBooks []string `json:"borrowed_books"`
}

// FileRegistry stores entries in a single JSON file.
// Registrations within one process are serialised; concurrent writers in
// other processes are not coordinated.
type FileRegistry struct {
	path     string
	mu       sync.Mutex
	validate *validator.Validate
}

// New returns a registry backed by the file at path. The file is created on
// first registration.
func New(path string) *FileRegistry {
	return &FileRegistry{
		path:     path,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Path returns the backing file path.
func (r *FileRegistry) Path() string {
	return r.path
}

// Load returns every entry in the file. A missing file is an empty registry.
func (r *FileRegistry) Load(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.load()
}

// Register appends a new entry and rewrites the file.
func (r *FileRegistry) Register(ctx context.Context, username, email string) (Entry, error) {
	entry := Entry{
		ID:            uuid.New().String(),
		Username:      username,
		Email:         email,
		BorrowedBooks: []string{},
	}
	if err := r.validate.Struct(entry); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return Entry{}, err
	}
	entries = append(entries, entry)

	if err := r.save(entries); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (r *FileRegistry) load() ([]Entry, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", r.path, err)
	}
	for i := range entries {
		if entries[i].BorrowedBooks == nil {
			entries[i].BorrowedBooks = []string{}
		}
	}
	return entries, nil
}

// save writes entries to a temp file and renames it over the registry so a
// crash mid-write never truncates the existing file.
func (r *FileRegistry) save(entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".registry-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write registry: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace registry: %w", err)
	}
	return nil
}
