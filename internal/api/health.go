package api

import (
	"net/http"

	"github.com/habitloop/habitloop/internal/api/respond"
)

// Healther reports cached service health.
type Healther interface {
	IsHealthy() bool
}

// HealthHandler serves GET /api/health from the aggregate checker.
type HealthHandler struct {
	health Healther
}

func NewHealthHandler(h Healther) *HealthHandler { return &HealthHandler{health: h} }

func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil && !h.health.IsHealthy() {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
