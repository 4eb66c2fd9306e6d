package http

import (
	"mime"
	"net/http"
	"strings"

	"github.com/utafrali/sportsstore/pkg/httputil"
)

// Accepted request body types.
const (
	contentJSON = "application/json"
	contentForm = "application/x-www-form-urlencoded"
)

// AllowContentTypes rejects requests whose body is declared with a media type
// outside allowed. Requests without a Content-Type are let through and decoded
// as JSON.
func AllowContentTypes(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !hasBody(r) {
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(ct)
			if err == nil {
				for _, a := range allowed {
					if strings.EqualFold(mediaType, a) {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "UNSUPPORTED_MEDIA_TYPE",
					Message: "Content-Type must be one of: " + strings.Join(allowed, ", "),
				},
			})
		})
	}
}

func hasBody(r *http.Request) bool {
	return r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch
}
