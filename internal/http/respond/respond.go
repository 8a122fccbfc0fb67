// Package respond writes every API reply in the same {code, message, data}
// shape.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope wraps all JSON replies. Code repeats the HTTP status.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON replies with data under the envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	send(w, status, Envelope{Code: status, Message: message, Data: data})
}

// Error replies with a message and no data.
func Error(w http.ResponseWriter, status int, message string) {
	send(w, status, Envelope{Code: status, Message: message})
}

// Unauthorized is a 401 carrying a Bearer challenge.
func Unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	Error(w, http.StatusUnauthorized, message)
}

func send(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("respond: encode failed", "status", status, "error", err)
	}
}
