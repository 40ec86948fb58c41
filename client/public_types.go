package client

import "github.com/habitloop/habitloop/client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	// Requests
	CreateHabitRequest = types.CreateHabitRequest
	UpdateHabitRequest = types.UpdateHabitRequest
	ToggleHabitRequest = types.ToggleHabitRequest

	// Domain entities
	Habit             = types.Habit
	HabitDayStatus    = types.HabitDayStatus
	WeeklyDay         = types.WeeklyDay
	DashboardSnapshot = types.DashboardSnapshot
	ToggleResult      = types.ToggleResult

	// Responses
	ListHabitsResponse = types.ListHabitsResponse
)

// Errors re-exported in errors.go
