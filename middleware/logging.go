// Package middleware provides interceptors for discogen clients.
package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/broady/discogen"
)

// LoggingInterceptor creates an interceptor that logs calls using slog.
// It logs the start and end of each call, including duration and error status.
func LoggingInterceptor(logger *slog.Logger) discogen.Interceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context, call *discogen.Call, next discogen.Invoker) error {
		start := time.Now()

		logger.DebugContext(ctx, "call started",
			slog.String("method", call.MethodID),
			slog.String("http_method", call.HTTPMethod),
		)

		err := next(ctx, call)
		duration := time.Since(start)

		if err != nil {
			logger.ErrorContext(ctx, "call failed",
				slog.String("method", call.MethodID),
				slog.Duration("duration", duration),
				slog.String("code", string(discogen.CodeOf(err))),
				slog.Any("error", err),
			)
		} else {
			logger.InfoContext(ctx, "call completed",
				slog.String("method", call.MethodID),
				slog.Duration("duration", duration),
			)
		}

		return err
	}
}
