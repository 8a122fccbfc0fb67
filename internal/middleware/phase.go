package middleware

import (
	"net/http"

	"github.com/hongminglow/confession-be/internal/http/respond"
	"github.com/hongminglow/confession-be/internal/phase"
)

// PhaseGate rejects gated paths with 403 while the phase forbids them. It
// runs before authentication, so anonymous callers see 403 rather than 401.
func PhaseGate(p phase.Phase, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !phase.Allows(r.URL.Path, p) {
			respond.Error(w, http.StatusForbidden, "This feature is not available in "+p.String()+" phase")
			return
		}
		next.ServeHTTP(w, r)
	})
}
