package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/lendingledger/internal/auth"
	"github.com/mmynk/lendingledger/internal/config"
	"github.com/mmynk/lendingledger/internal/middleware"
	"github.com/mmynk/lendingledger/internal/service"
)

const tokenLifetime = 12 * time.Hour

// issueToken signs a librarian token with the configured secret and writes it to w.
func issueToken(cfg config.Config, librarian string, w io.Writer) error {
	if cfg.TokenSecret == "" {
		return errors.New("tokenSecret is not configured; the server would not check the token")
	}
	librarian = strings.TrimSpace(librarian)
	if librarian == "" {
		return errors.New("librarian name is required")
	}

	token, err := auth.NewTokenManager(cfg.TokenSecret, tokenLifetime).Issue(librarian, auth.RoleLibrarian)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, token); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// newInterceptors builds the Connect interceptor chain for cfg.
// Auth runs first so the logging interceptor sees the librarian.
func newInterceptors(cfg config.Config) []connect.Interceptor {
	var interceptors []connect.Interceptor
	if cfg.TokenSecret != "" {
		tokens := auth.NewTokenManager(cfg.TokenSecret, tokenLifetime)
		interceptors = append(interceptors, middleware.RequireLibrarian(tokens, service.MutatingProcedures...))
		slog.Info("Librarian auth enabled", "guarded_procedures", len(service.MutatingProcedures))
	} else {
		slog.Warn("Librarian auth disabled; set tokenSecret to guard mutating procedures")
	}
	return append(interceptors, middleware.LoggingInterceptor())
}
