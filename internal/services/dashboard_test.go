package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/habitloop/habitloop/internal/model"
)

func newDashboardService(f *fakeStore) *DashboardService {
	svc := NewDashboardService(f, time.UTC)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestDashboardZeroHabits(t *testing.T) {
	svc := newDashboardService(newFakeStore())

	snap, err := svc.Dashboard(context.Background(), "alice")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if snap.CurrentStreak != 0 || snap.WeeklyAverage != 0 {
		t.Fatalf("zero-habit snapshot not zero: %+v", snap)
	}
	if len(snap.WeeklySeries) != 7 {
		t.Fatalf("series length = %d", len(snap.WeeklySeries))
	}
}

func TestDashboardRequiresUserID(t *testing.T) {
	svc := newDashboardService(newFakeStore())
	if _, err := svc.Dashboard(context.Background(), ""); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestDashboardIgnoresInactiveHabits(t *testing.T) {
	f := newFakeStore()
	f.addHabit("alice", "h1", true)
	f.addHabit("alice", "h2", false)
	svc := newDashboardService(f)

	snap, err := svc.Dashboard(context.Background(), "alice")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(snap.TodayStatus) != 1 || snap.TodayStatus[0].HabitID != "h1" {
		t.Fatalf("today status = %+v, want only h1", snap.TodayStatus)
	}
}

func TestDashboardEndToEndCounts(t *testing.T) {
	f := newFakeStore()
	f.addHabit("alice", "h1", true)
	hsvc := newHabitService(f)
	dsvc := newDashboardService(f)
	ctx := context.Background()

	// Complete today and the previous two days.
	for off := 0; off <= 2; off++ {
		at := fixedNow.AddDate(0, 0, -off)
		if _, err := hsvc.ToggleCompletion(ctx, "alice", "h1", &at); err != nil {
			t.Fatalf("toggle off=%d: %v", off, err)
		}
	}

	snap, err := dsvc.Dashboard(ctx, "alice")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !snap.TodayStatus[0].Completed {
		t.Fatalf("today should be completed")
	}
	if snap.CurrentStreak != 3 {
		t.Fatalf("streak = %d, want 3", snap.CurrentStreak)
	}
	// 3 of 7 day-slots -> 43%.
	if snap.WeeklyAverage != 43 {
		t.Fatalf("weeklyAverage = %d, want 43", snap.WeeklyAverage)
	}
}
