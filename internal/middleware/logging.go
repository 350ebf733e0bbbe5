package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs a generated request ID, the procedure name, librarian, duration,
// and any error codes/messages.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			requestID := uuid.NewString()
			procedure := req.Spec().Procedure
			librarian := GetLibrarian(ctx) // empty on read-only procedures

			resp, err := next(ctx, req)

			duration := time.Since(start).Milliseconds()
			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					slog.Warn("RPC error",
						"request_id", requestID,
						"procedure", procedure,
						"code", connectErr.Code(),
						"error", connectErr.Message(),
						"librarian", librarian,
						"duration_ms", duration,
					)
				} else {
					slog.Error("RPC error",
						"request_id", requestID,
						"procedure", procedure,
						"error", err,
						"librarian", librarian,
						"duration_ms", duration,
					)
				}
			} else {
				slog.Info("RPC ok",
					"request_id", requestID,
					"procedure", procedure,
					"librarian", librarian,
					"duration_ms", duration,
				)
			}

			return resp, err
		}
	}
}
