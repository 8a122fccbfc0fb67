package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hongminglow/confession-be/internal/http/respond"
	"github.com/hongminglow/confession-be/internal/logging"
	"github.com/hongminglow/confession-be/internal/models/dto"
	"github.com/hongminglow/confession-be/internal/phase"
)

const pingTimeout = 2 * time.Second

// Pinger checks that a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler reports the phase and liveness.
type SystemHandler struct {
	phase     phase.Phase
	startedAt time.Time
	db        Pinger
	log       logging.Logger
	now       func() time.Time
}

// NewSystemHandler creates the handler. startedAt anchors the reported uptime.
// A nil db leaves the database out of the health report.
func NewSystemHandler(p phase.Phase, startedAt time.Time, db Pinger, log logging.Logger) *SystemHandler {
	return &SystemHandler{phase: p, startedAt: startedAt, db: db, log: log.With("handler", "system"), now: time.Now}
}

func (h *SystemHandler) Phase(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, "ok", dto.PhaseResponse{Phase: h.phase.String()})
}

// Health answers 503 when the database does not respond to a ping.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	resp := dto.HealthResponse{
		Status:    "healthy",
		Timestamp: now.UTC(),
		Uptime:    now.Sub(h.startedAt).Truncate(time.Second).String(),
		Phase:     h.phase.String(),
	}
	if h.db == nil {
		respond.JSON(w, http.StatusOK, "ok", resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.log.Error(r.Context(), "database ping failed", "error", err)
		resp.Status = "unhealthy"
		resp.Database = "unavailable"
		respond.JSON(w, http.StatusServiceUnavailable, "database unavailable", resp)
		return
	}
	resp.Database = "ok"
	respond.JSON(w, http.StatusOK, "ok", resp)
}
