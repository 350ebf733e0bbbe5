package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/lendingledger/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// LibrarianKey is the context key for the authenticated librarian's name.
const LibrarianKey contextKey = "librarian"

// GetLibrarian extracts the librarian name from the context.
// Returns empty string if not found.
func GetLibrarian(ctx context.Context) string {
	name, _ := ctx.Value(LibrarianKey).(string)
	return name
}

// RequireLibrarian returns an interceptor that demands a valid librarian token
// for the listed procedures. Other procedures pass through untouched.
func RequireLibrarian(tokens *auth.TokenManager, procedures ...string) connect.UnaryInterceptorFunc {
	guarded := make(map[string]bool, len(procedures))
	for _, p := range procedures {
		guarded[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if !guarded[req.Spec().Procedure] {
				return next(ctx, req)
			}

			// Extract Authorization header
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			// Parse Bearer token
			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := tokens.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			if claims.Role != auth.RoleLibrarian {
				return nil, connect.NewError(connect.CodePermissionDenied, auth.ErrForbidden)
			}

			ctx = context.WithValue(ctx, LibrarianKey, claims.Librarian)
			return next(ctx, req)
		}
	}
}
