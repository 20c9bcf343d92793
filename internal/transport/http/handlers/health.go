package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/spectral-labs/auth-api/internal/domain"
	"github.com/spectral-labs/auth-api/internal/transport/http/response"
)

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Healthz reports process liveness only.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// Readyz reports readiness, including database reachability.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			response.WriteError(w, r, domain.ErrDBUnavailable(err))
			return
		}
	}
	response.OK(w, map[string]string{"status": "ready"})
}
