package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/emporium-commerce/emporium/internal/api/response"
)

// Recovery is middleware that recovers from panics and returns a 500 error.
// http.ErrAbortHandler is re-raised so the server can abort the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			requestID := GetRequestID(r.Context())
			slog.Error("panic recovered",
				"error", rec,
				"requestId", requestID,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			response.Internal(w, requestID)
		}()
		next.ServeHTTP(w, r)
	})
}
