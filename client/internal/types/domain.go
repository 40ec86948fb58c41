package types

import "time"

// ------------------------------
// Core Domain Entities
// ------------------------------

// Habit is a user-defined recurring activity as returned by the service.
type Habit struct {
	HabitID      string    `json:"habitId"`
	UserID       string    `json:"userId"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	Frequency    string    `json:"frequency"`
	Active       bool      `json:"active"`
	CreationTime time.Time `json:"creationTime"`
}

// HabitDayStatus is one habit's completion state for the current day.
type HabitDayStatus struct {
	HabitID   string `json:"habitId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// WeeklyDay is one bucket of the 7-day dashboard series.
type WeeklyDay struct {
	Date           time.Time `json:"date"`
	CompletedCount int       `json:"completedCount"`
	TotalCount     int       `json:"totalCount"`
}

// DashboardSnapshot is the derived per-user aggregate view.
type DashboardSnapshot struct {
	TodayStatus   []HabitDayStatus `json:"todayStatus"`
	WeeklySeries  []WeeklyDay      `json:"weeklySeries"`
	CurrentStreak int              `json:"currentStreak"`
	WeeklyAverage int              `json:"weeklyAverage"`
}

// ToggleResult is returned by the toggle command.
type ToggleResult struct {
	HabitID   string    `json:"habitId"`
	Completed bool      `json:"completed"`
	Date      time.Time `json:"date"`
}
