package api

import (
	"github.com/gorilla/mux"

	"github.com/habitloop/habitloop/internal/api/recovery"
	"github.com/habitloop/habitloop/internal/services"
)

// NewRouter wires HTTP routes to handlers.
func NewRouter(hsvc *services.HabitService, dsvc *services.DashboardService, health Healther) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	habit := NewHabitHandler(hsvc)
	root.HandleFunc("/api/users/{userId}/habits", habit.CreateHabit).Methods("POST")
	root.HandleFunc("/api/users/{userId}/habits", habit.ListHabits).Methods("GET")
	root.HandleFunc("/api/users/{userId}/habits/{habitId}", habit.GetHabit).Methods("GET")
	root.HandleFunc("/api/users/{userId}/habits/{habitId}", habit.UpdateHabit).Methods("PATCH")
	root.HandleFunc("/api/users/{userId}/habits/{habitId}", habit.DeleteHabit).Methods("DELETE")
	root.HandleFunc("/api/users/{userId}/habits/{habitId}/toggle", habit.ToggleHabit).Methods("POST")

	dashboard := NewDashboardHandler(dsvc)
	root.HandleFunc("/api/users/{userId}/dashboard", dashboard.GetDashboard).Methods("GET")

	hh := NewHealthHandler(health)
	root.HandleFunc("/api/health", hh.GetHealth).Methods("GET")

	return root
}
