package client

import (
	"sync"

	"github.com/habitloop/habitloop/client/internal/types"
)

// State is the cached client-side view: the habit list plus the derived
// dashboard snapshot. Mutation helpers keep the two in step so an optimistic
// apply is visible in both.
type State struct {
	Habits    []types.Habit
	Dashboard *types.DashboardSnapshot
}

// AddHabit appends a habit and registers it in the dashboard's today view.
func (st *State) AddHabit(h types.Habit) {
	st.Habits = append(st.Habits, h)
	if st.Dashboard == nil {
		return
	}
	st.Dashboard.TodayStatus = append(st.Dashboard.TodayStatus, types.HabitDayStatus{
		HabitID: h.HabitID,
		Title:   h.Title,
	})
	if n := len(st.Dashboard.WeeklySeries); n > 0 {
		st.Dashboard.WeeklySeries[n-1].TotalCount++
	}
}

// PatchHabit applies the non-nil fields of req to the habit in place.
func (st *State) PatchHabit(habitID string, req types.UpdateHabitRequest) {
	for i := range st.Habits {
		if st.Habits[i].HabitID != habitID {
			continue
		}
		if req.Title != nil {
			st.Habits[i].Title = *req.Title
		}
		if req.Description != nil {
			d := *req.Description
			st.Habits[i].Description = &d
		}
		if req.Frequency != nil {
			st.Habits[i].Frequency = *req.Frequency
		}
		if req.Active != nil {
			st.Habits[i].Active = *req.Active
		}
		break
	}
	if req.Title == nil || st.Dashboard == nil {
		return
	}
	for i := range st.Dashboard.TodayStatus {
		if st.Dashboard.TodayStatus[i].HabitID == habitID {
			st.Dashboard.TodayStatus[i].Title = *req.Title
			break
		}
	}
}

// RemoveHabit drops the habit from the list (hard) or deactivates it (soft).
// Either way it leaves the dashboard's today view, matching the service,
// which only surfaces active habits there.
func (st *State) RemoveHabit(habitID string, hard bool) {
	if hard {
		for i := range st.Habits {
			if st.Habits[i].HabitID == habitID {
				st.Habits = append(st.Habits[:i], st.Habits[i+1:]...)
				break
			}
		}
	} else {
		for i := range st.Habits {
			if st.Habits[i].HabitID == habitID {
				st.Habits[i].Active = false
				break
			}
		}
	}
	if st.Dashboard == nil {
		return
	}
	for i := range st.Dashboard.TodayStatus {
		if st.Dashboard.TodayStatus[i].HabitID != habitID {
			continue
		}
		completed := st.Dashboard.TodayStatus[i].Completed
		st.Dashboard.TodayStatus = append(st.Dashboard.TodayStatus[:i], st.Dashboard.TodayStatus[i+1:]...)
		if n := len(st.Dashboard.WeeklySeries); n > 0 {
			st.Dashboard.WeeklySeries[n-1].TotalCount--
			if completed {
				st.Dashboard.WeeklySeries[n-1].CompletedCount--
			}
		}
		break
	}
}

// ToggleToday flips the habit's completion state in the today view and
// adjusts the newest weekly bucket to match.
func (st *State) ToggleToday(habitID string) {
	if st.Dashboard == nil {
		return
	}
	for i := range st.Dashboard.TodayStatus {
		if st.Dashboard.TodayStatus[i].HabitID != habitID {
			continue
		}
		st.Dashboard.TodayStatus[i].Completed = !st.Dashboard.TodayStatus[i].Completed
		if n := len(st.Dashboard.WeeklySeries); n > 0 {
			if st.Dashboard.TodayStatus[i].Completed {
				st.Dashboard.WeeklySeries[n-1].CompletedCount++
			} else {
				st.Dashboard.WeeklySeries[n-1].CompletedCount--
			}
		}
		return
	}
}

func (st *State) clone() State {
	out := State{}
	if st.Habits != nil {
		out.Habits = make([]types.Habit, len(st.Habits))
		for i, h := range st.Habits {
			out.Habits[i] = cloneHabit(h)
		}
	}
	out.Dashboard = cloneDashboard(st.Dashboard)
	return out
}

func cloneHabit(h types.Habit) types.Habit {
	if h.Description != nil {
		d := *h.Description
		h.Description = &d
	}
	return h
}

func cloneDashboard(d *types.DashboardSnapshot) *types.DashboardSnapshot {
	if d == nil {
		return nil
	}
	out := &types.DashboardSnapshot{
		CurrentStreak: d.CurrentStreak,
		WeeklyAverage: d.WeeklyAverage,
	}
	if d.TodayStatus != nil {
		out.TodayStatus = make([]types.HabitDayStatus, len(d.TodayStatus))
		copy(out.TodayStatus, d.TodayStatus)
	}
	if d.WeeklySeries != nil {
		out.WeeklySeries = make([]types.WeeklyDay, len(d.WeeklySeries))
		copy(out.WeeklySeries, d.WeeklySeries)
	}
	return out
}

// Snapshot is an opaque deep copy of the cache state, sufficient to undo an
// optimistic mutation exactly.
type Snapshot struct {
	state State
}

// Cache holds the session's local view of habits and dashboard. All methods
// are safe for concurrent use; Apply makes snapshot-then-mutate atomic so a
// rollback restores precisely the state the mutation started from.
type Cache struct {
	mu    sync.Mutex
	state State
}

func NewCache() *Cache { return &Cache{} }

// Apply captures a deep snapshot and then runs mut against the live state
// under the lock. The returned snapshot undoes exactly this mutation.
func (c *Cache) Apply(mut func(*State)) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{state: c.state.clone()}
	mut(&c.state)
	return snap
}

// Restore rewinds the cache to a previously captured snapshot.
func (c *Cache) Restore(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = snap.state.clone()
}

// Replace installs an authoritative server view wholesale.
func (c *Cache) Replace(habits []types.Habit, dash *types.DashboardSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := State{Habits: habits, Dashboard: dash}
	c.state = next.clone()
}

// Habits returns a deep copy of the cached habit list.
func (c *Cache) Habits() []types.Habit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone().Habits
}

// Dashboard returns a deep copy of the cached dashboard, or nil before the
// first refresh.
func (c *Cache) Dashboard() *types.DashboardSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneDashboard(c.state.Dashboard)
}
