package types

// CreateHabitRequest creates a new habit. Frequency defaults to "daily"
// server-side when empty.
type CreateHabitRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Frequency   string  `json:"frequency,omitempty"`
}

// UpdateHabitRequest carries the mutable habit fields; nil means unchanged.
type UpdateHabitRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Frequency   *string `json:"frequency,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// ToggleHabitRequest selects the day to toggle. An empty Date means today
// in the service time zone.
type ToggleHabitRequest struct {
	Date string `json:"date,omitempty"`
}
