package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mmynk/lendingledger/internal/models"
	"github.com/mmynk/lendingledger/internal/storage"
)

// CreateUser inserts a new user into the database.
func (q queries) CreateUser(ctx context.Context, user *models.User) error {
	res, err := q.ext.ExecContext(ctx,
		"INSERT INTO users (name, email) VALUES (?, ?)",
		user.Name, user.Email,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", classify(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetUser retrieves a user by their ID.
func (q queries) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user := &models.User{}
	err := sqlx.GetContext(ctx, q.ext, user,
		"SELECT user_id, name, email FROM users WHERE user_id = ?",
		userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}
