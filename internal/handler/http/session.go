package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/sportsstore/pkg/logger"
)

// SessionHeader carries the session ID for clients that do not keep cookies.
const SessionHeader = "X-Session-ID"

// SessionConfig controls the visitor session cookie.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Sessions resolves the visitor session from the cookie or the X-Session-ID
// header. Missing or malformed IDs are replaced with a fresh UUID, which is
// sent back in both the cookie and the header.
func Sessions(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := requestSessionID(r, cfg.CookieName)
			if !ok {
				id = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cfg.CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(cfg.TTL.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(SessionHeader, id)

			ctx := logger.WithSessionID(r.Context(), id)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(slog.String("session_id", id)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestSessionID(r *http.Request, cookieName string) (string, bool) {
	candidates := make([]string, 0, 2)
	if c, err := r.Cookie(cookieName); err == nil {
		candidates = append(candidates, c.Value)
	}
	candidates = append(candidates, r.Header.Get(SessionHeader))

	for _, v := range candidates {
		if id, err := uuid.Parse(v); err == nil {
			return id.String(), true
		}
	}
	return "", false
}

func sessionID(r *http.Request) string {
	return logger.SessionIDFromContext(r.Context())
}
