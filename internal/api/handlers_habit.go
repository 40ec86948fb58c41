package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/habitloop/habitloop/internal/api/respond"
	"github.com/habitloop/habitloop/internal/api/validate"
	"github.com/habitloop/habitloop/internal/model"
	"github.com/habitloop/habitloop/internal/services"
)

// HabitHandler provides HTTP transport for habit CRUD and the toggle command.
type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler { return &HabitHandler{svc: svc} }

// CreateHabit POST /api/users/{userId}/habits
func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	var req struct {
		Title       string          `json:"title"`
		Description *string         `json:"description,omitempty"`
		Frequency   model.Frequency `json:"frequency,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateHabit(req.Title, req.Description); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	habit := &model.Habit{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Frequency:   req.Frequency,
	}
	out, err := h.svc.CreateHabit(r.Context(), habit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListHabits GET /api/users/{userId}/habits
func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	habits, err := h.svc.ListHabits(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"habits": habits, "count": len(habits)})
}

// GetHabit GET /api/users/{userId}/habits/{habitId}
func (h *HabitHandler) GetHabit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	habit, err := h.svc.GetHabit(r.Context(), vars["userId"], vars["habitId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, habit)
}

// UpdateHabit PATCH /api/users/{userId}/habits/{habitId}
func (h *HabitHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req model.UpdateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Title != nil {
		if err := validate.Title(*req.Title); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}
	if err := validate.MaxLen("description", req.Description, 500); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.UpdateHabit(r.Context(), vars["userId"], vars["habitId"], req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteHabit DELETE /api/users/{userId}/habits/{habitId}?hard=true
// Default is a soft deactivate; hard=true removes the habit and its logs.
func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	hard := r.URL.Query().Get("hard") == "true"
	if err := h.svc.DeleteHabit(r.Context(), vars["userId"], vars["habitId"], hard); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleHabit POST /api/users/{userId}/habits/{habitId}/toggle
// Optional body {"date":"2006-01-02"}; absent means today.
func (h *HabitHandler) ToggleHabit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req struct {
		Date string `json:"date,omitempty"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.WriteBadRequest(w, "Invalid JSON")
			return
		}
	}

	var datePtr *time.Time
	if req.Date != "" {
		d, err := validate.Date(req.Date)
		if err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		datePtr = &d
	}

	res, err := h.svc.ToggleCompletion(r.Context(), vars["userId"], vars["habitId"], datePtr)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

// writeDomainError maps sentinel domain errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, "habit not found")
	case errors.Is(err, model.ErrConflict):
		respond.WriteError(w, http.StatusConflict, err.Error())
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
