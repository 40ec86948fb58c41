package types

// ListHabitsResponse is the envelope returned by the list endpoint.
type ListHabitsResponse struct {
	Habits []Habit `json:"habits"`
	Count  int     `json:"count"`
}
