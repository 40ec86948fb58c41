package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/habitloop/habitloop/internal/model"
)

var fixedNow = time.Date(2026, 8, 23, 15, 4, 5, 0, time.UTC)

func newHabitService(f *fakeStore) *HabitService {
	svc := NewHabitService(f, time.UTC)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestCreateHabitValidation(t *testing.T) {
	svc := newHabitService(newFakeStore())
	ctx := context.Background()

	cases := []*model.Habit{
		nil,
		{Title: "read"},                                          // missing user
		{UserID: "u1"},                                           // missing title
		{UserID: "u1", Title: "read", Frequency: "fortnightly"},  // bad frequency
	}
	for i, h := range cases {
		if _, err := svc.CreateHabit(ctx, h); !errors.Is(err, model.ErrValidation) {
			t.Fatalf("case %d: err = %v, want ErrValidation", i, err)
		}
	}

	out, err := svc.CreateHabit(ctx, &model.Habit{UserID: "u1", Title: "read"})
	if err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}
	if out.HabitID == "" || !out.Active || out.Frequency != model.FrequencyDaily {
		t.Fatalf("unexpected habit: %+v", out)
	}
}

func TestToggleRequiresOwnership(t *testing.T) {
	f := newFakeStore()
	f.addHabit("alice", "h1", true)
	svc := newHabitService(f)
	ctx := context.Background()

	// Another user's habit is reported as missing, not as forbidden.
	if _, err := svc.ToggleCompletion(ctx, "mallory", "h1", nil); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(f.logs["h1"]) != 0 {
		t.Fatalf("log written despite ownership failure")
	}

	if _, err := svc.ToggleCompletion(ctx, "alice", "missing", nil); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestToggleValidatesBeforeStoreAccess(t *testing.T) {
	f := newFakeStore()
	svc := newHabitService(f)
	ctx := context.Background()

	if _, err := svc.ToggleCompletion(ctx, "", "h1", nil); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if _, err := svc.ToggleCompletion(ctx, "u1", "", nil); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestToggleDefaultsToCompleteAndFlips(t *testing.T) {
	f := newFakeStore()
	f.addHabit("alice", "h1", true)
	svc := newHabitService(f)
	ctx := context.Background()

	// First toggle on a day with no log turns it on.
	res, err := svc.ToggleCompletion(ctx, "alice", "h1", nil)
	if err != nil {
		t.Fatalf("toggle 1: %v", err)
	}
	if !res.Completed {
		t.Fatalf("first toggle should complete the day")
	}
	wantDay := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	if !res.Date.Equal(wantDay) {
		t.Fatalf("date = %v, want %v (time-of-day stripped)", res.Date, wantDay)
	}

	// Second toggle flips it off; no second row appears.
	res, err = svc.ToggleCompletion(ctx, "alice", "h1", nil)
	if err != nil {
		t.Fatalf("toggle 2: %v", err)
	}
	if res.Completed {
		t.Fatalf("second toggle should clear the day")
	}
	if n := len(f.logs["h1"]); n != 1 {
		t.Fatalf("log rows = %d, want 1", n)
	}

	// Third returns to the original completed state (flip is involutive).
	res, _ = svc.ToggleCompletion(ctx, "alice", "h1", nil)
	if !res.Completed {
		t.Fatalf("third toggle should complete again")
	}
}

func TestToggleExplicitDate(t *testing.T) {
	f := newFakeStore()
	f.addHabit("alice", "h1", true)
	svc := newHabitService(f)

	at := time.Date(2026, 8, 20, 18, 45, 0, 0, time.UTC)
	res, err := svc.ToggleCompletion(context.Background(), "alice", "h1", &at)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	want := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	if !res.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", res.Date, want)
	}
}

func TestDeleteHabitSoftAndHard(t *testing.T) {
	f := newFakeStore()
	f.addHabit("alice", "h1", true)
	svc := newHabitService(f)
	ctx := context.Background()

	if err := svc.DeleteHabit(ctx, "alice", "h1", false); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if f.habits["h1"] == nil || f.habits["h1"].Active {
		t.Fatalf("soft delete should deactivate, not remove")
	}

	if err := svc.DeleteHabit(ctx, "alice", "h1", true); err != nil {
		t.Fatalf("hard delete: %v", err)
	}
	if f.habits["h1"] != nil {
		t.Fatalf("hard delete should remove the habit")
	}
}

func TestUpdateHabitValidation(t *testing.T) {
	f := newFakeStore()
	f.addHabit("alice", "h1", true)
	svc := newHabitService(f)
	ctx := context.Background()

	empty := ""
	if _, err := svc.UpdateHabit(ctx, "alice", "h1", model.UpdateHabitRequest{Title: &empty}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	title := "meditate"
	inactive := false
	out, err := svc.UpdateHabit(ctx, "alice", "h1", model.UpdateHabitRequest{Title: &title, Active: &inactive})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.Title != "meditate" || out.Active {
		t.Fatalf("unexpected habit after update: %+v", out)
	}
}
