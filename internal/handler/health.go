package handler

import (
	"net/http"
	"time"

	"leasedoc/internal/httputil"
)

// HealthCheck is a liveness probe
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}
