package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/hongminglow/confession-be/internal/http/respond"
	"github.com/hongminglow/confession-be/internal/logging"
)

// Recover turns a handler panic into an opaque 500.
func Recover(log logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Error(r.Context(), "panic", "path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))
			respond.Error(w, http.StatusInternalServerError, "internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}
