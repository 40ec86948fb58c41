package model

import "time"

// Frequency buckets a habit's intended cadence. Completion logs are always
// day-granular regardless of frequency.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Habit is a user-defined recurring activity. A habit is owned by exactly
// one user and is soft-deactivated (Active=false) rather than removed in
// most flows.
type Habit struct {
	HabitID      string    `json:"habitId"`
	UserID       string    `json:"userId"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	Frequency    Frequency `json:"frequency"`
	Active       bool      `json:"active"`
	CreationTime time.Time `json:"creationTime"`
}

// CompletionLog records whether a habit was completed on one calendar day.
// LogDate is normalized to midnight in the service time zone; at most one
// authoritative log exists per (habit, day).
type CompletionLog struct {
	LogID        string    `json:"logId"`
	HabitID      string    `json:"habitId"`
	LogDate      time.Time `json:"logDate"`
	Completed    bool      `json:"completed"`
	Notes        *string   `json:"notes,omitempty"`
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

// DashboardSnapshot is the derived per-request aggregate view. It is
// recomputed from habits and completion logs on every read and never
// persisted.
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

// UpdateHabitRequest carries the mutable habit fields; nil means unchanged.
type UpdateHabitRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Frequency   *Frequency `json:"frequency,omitempty"`
	Active      *bool      `json:"active,omitempty"`
}
