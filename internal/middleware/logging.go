package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hongminglow/confession-be/internal/logging"
)

// Logging records one line per request. Query strings are left out since
// they may carry search terms.
func Logging(log logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		}
		if id := chimw.GetReqID(r.Context()); id != "" {
			args = append(args, "request_id", id)
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error(r.Context(), "request", args...)
		case status >= http.StatusBadRequest:
			log.Warn(r.Context(), "request", args...)
		default:
			log.Info(r.Context(), "request", args...)
		}
	})
}
