package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/sportsstore/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context, enriched with
// whatever request fields are known at this point (correlation, user, trace).
// Mount it after RequestLogging and Tracing.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if id := UserIDFromContext(ctx); id != "" {
				ctx = logger.WithUserID(ctx, id)
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
