package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/habitloop/habitloop/internal/api/respond"
	"github.com/habitloop/habitloop/internal/services"
)

// DashboardHandler serves the derived per-user dashboard snapshot.
type DashboardHandler struct {
	svc *services.DashboardService
}

func NewDashboardHandler(svc *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// GetDashboard GET /api/users/{userId}/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	snap, err := h.svc.Dashboard(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, snap)
}
