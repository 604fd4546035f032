package handlers

import (
	"context"
	"log"
	"net/http"
	"route-optimizer-service/internal/platform/obs"
	"time"
)

// HealthHandler reports liveness and, when Check is set, the health of the
// configured cache store.
type HealthHandler struct {
	Check func(ctx context.Context) error
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Check == nil {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Check(ctx); err != nil {
		log.Printf("req_id=%s health check failed: %v", obs.RequestID(r.Context()), err)
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status": "error",
			"cache":  "unavailable",
		})
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok", "cache": "connected"})
}
