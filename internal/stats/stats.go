// Package stats computes the derived dashboard view from habits and their
// completion logs. Everything here is pure: no I/O, no clock reads, no
// errors on empty input.
package stats

import (
	"math"
	"time"

	"github.com/habitloop/habitloop/internal/model"
)

// StreakScanLimit bounds the backward walk of the streak computation so a
// data anomaly cannot turn it into an unbounded scan.
const StreakScanLimit = 365

// WindowDays is the length of the rolling dashboard series.
const WindowDays = 7

const dayKeyFormat = "2006-01-02"

// Day strips the time-of-day from t in the given location. All calendar
// comparisons in this package are by day, never by timestamp.
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// LookbackStart returns the earliest log date the snapshot can consume:
// the streak scan limit plus the weekly window, counted back from today.
func LookbackStart(today time.Time, loc *time.Location) time.Time {
	return Day(today, loc).AddDate(0, 0, -(StreakScanLimit + WindowDays))
}

// BuildSnapshot derives a DashboardSnapshot from the user's active habits
// and their completion logs as of "today". habits carries the currently
// active set; logsByHabit maps habit ID to that habit's logs (any range;
// dates are normalized here). A nil or empty habit set yields the
// zero-habit snapshot rather than an error.
func BuildSnapshot(habits []*model.Habit, logsByHabit map[string][]*model.CompletionLog, today time.Time, loc *time.Location) model.DashboardSnapshot {
	if loc == nil {
		loc = time.UTC
	}
	today = Day(today, loc)

	completed := index(logsByHabit, loc)

	snap := model.DashboardSnapshot{
		TodayStatus:  make([]model.HabitDayStatus, 0, len(habits)),
		WeeklySeries: make([]model.WeeklyDay, 0, WindowDays),
	}

	todayKey := today.Format(dayKeyFormat)
	for _, h := range habits {
		snap.TodayStatus = append(snap.TodayStatus, model.HabitDayStatus{
			HabitID:   h.HabitID,
			Title:     h.Title,
			Completed: completed[h.HabitID][todayKey],
		})
	}

	// Weekly series, oldest to newest. The total is the size of the
	// currently active set for every bucket, including days before a
	// habit existed; see DESIGN.md for the recorded decision.
	var sumCompleted, sumTotal int
	for i := WindowDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := day.Format(dayKeyFormat)
		n := 0
		for _, h := range habits {
			if completed[h.HabitID][key] {
				n++
			}
		}
		snap.WeeklySeries = append(snap.WeeklySeries, model.WeeklyDay{
			Date:           day,
			CompletedCount: n,
			TotalCount:     len(habits),
		})
		sumCompleted += n
		sumTotal += len(habits)
	}

	snap.CurrentStreak = streak(habits, completed, today)

	if sumTotal > 0 {
		snap.WeeklyAverage = int(math.Round(100 * float64(sumCompleted) / float64(sumTotal)))
	}
	return snap
}

// streak counts consecutive fully-completed days walking back from
// yesterday, then adds today when today is also fully completed. A day is
// fully completed only when every active habit has a completed log; the
// zero-habit set never forms a streak.
func streak(habits []*model.Habit, completed map[string]map[string]bool, today time.Time) int {
	if len(habits) == 0 {
		return 0
	}
	allDone := func(day time.Time) bool {
		key := day.Format(dayKeyFormat)
		for _, h := range habits {
			if !completed[h.HabitID][key] {
				return false
			}
		}
		return true
	}

	n := 0
	for i := 1; i <= StreakScanLimit; i++ {
		if !allDone(today.AddDate(0, 0, -i)) {
			break
		}
		n++
	}
	if allDone(today) {
		n++
	}
	return n
}

// index builds habitID -> day-key -> completed from raw logs. Only
// completed entries count; an incomplete log is the same as no log.
func index(logsByHabit map[string][]*model.CompletionLog, loc *time.Location) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(logsByHabit))
	for habitID, lgs := range logsByHabit {
		for _, lg := range lgs {
			if lg == nil || !lg.Completed {
				continue
			}
			m := out[habitID]
			if m == nil {
				m = make(map[string]bool)
				out[habitID] = m
			}
			m[Day(lg.LogDate, loc).Format(dayKeyFormat)] = true
		}
	}
	return out
}
