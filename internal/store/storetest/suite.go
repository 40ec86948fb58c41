// Package storetest provides a compliance suite shared by store adapters.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop/internal/model"
	"github.com/habitloop/habitloop/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	userID := "u-" + uuid.New().String()[:8]
	day := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

	// Habits
	h, err := s.Habits().Create(ctx, &model.Habit{UserID: userID, Title: "Read"})
	if err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}
	if h.HabitID == "" {
		t.Fatalf("CreateHabit: empty habit id")
	}
	if !h.Active || h.Frequency != model.FrequencyDaily {
		t.Fatalf("CreateHabit defaults: %+v", h)
	}
	if got, err := s.Habits().GetByID(ctx, userID, h.HabitID); err != nil || got.Title != "Read" {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}

	// Ownership: another user's lookup behaves like a missing habit.
	if _, err := s.Habits().GetByID(ctx, "someone-else", h.HabitID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("cross-user GetByID: want ErrNotFound, got %v", err)
	}

	if lst, err := s.Habits().List(ctx, userID); err != nil || len(lst) != 1 {
		t.Fatalf("List: n=%d err=%v", len(lst), err)
	}

	// Update
	title := "Read 20 pages"
	freq := model.FrequencyWeekly
	upd, err := s.Habits().Update(ctx, userID, h.HabitID, model.UpdateHabitRequest{Title: &title, Frequency: &freq})
	if err != nil || upd.Title != title || upd.Frequency != freq {
		t.Fatalf("Update: got=%+v err=%v", upd, err)
	}

	// Toggle: absent day toggles on, second toggle flips off, no extra rows.
	lg, err := s.Logs().Toggle(ctx, h.HabitID, day)
	if err != nil || !lg.Completed {
		t.Fatalf("Toggle on: got=%+v err=%v", lg, err)
	}
	lg2, err := s.Logs().Toggle(ctx, h.HabitID, day)
	if err != nil || lg2.Completed {
		t.Fatalf("Toggle off: got=%+v err=%v", lg2, err)
	}
	if lg2.LogID != lg.LogID {
		t.Fatalf("Toggle created a second row: %s vs %s", lg2.LogID, lg.LogID)
	}
	if got, err := s.Logs().FindDay(ctx, h.HabitID, day); err != nil || got.LogID != lg.LogID || got.Completed {
		t.Fatalf("FindDay: got=%+v err=%v", got, err)
	}

	// Upsert sets an explicit value regardless of current state.
	if up, err := s.Logs().Upsert(ctx, h.HabitID, day, true); err != nil || !up.Completed || up.LogID != lg.LogID {
		t.Fatalf("Upsert: got=%+v err=%v", up, err)
	}

	// FindRange is half-open [from, to).
	if rng, err := s.Logs().FindRange(ctx, h.HabitID, day, day.AddDate(0, 0, 1)); err != nil || len(rng) != 1 {
		t.Fatalf("FindRange inclusive from: n=%d err=%v", len(rng), err)
	}
	if rng, err := s.Logs().FindRange(ctx, h.HabitID, day.AddDate(0, 0, -7), day); err != nil || len(rng) != 0 {
		t.Fatalf("FindRange exclusive to: n=%d err=%v", len(rng), err)
	}

	// Deactivate hides the habit from the active list but keeps it readable.
	if err := s.Habits().Deactivate(ctx, userID, h.HabitID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if lst, err := s.Habits().ListActive(ctx, userID); err != nil || len(lst) != 0 {
		t.Fatalf("ListActive after deactivate: n=%d err=%v", len(lst), err)
	}
	if got, err := s.Habits().GetByID(ctx, userID, h.HabitID); err != nil || got.Active {
		t.Fatalf("GetByID after deactivate: got=%+v err=%v", got, err)
	}

	// Hard delete removes the habit and its logs.
	if err := s.Habits().Delete(ctx, userID, h.HabitID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Habits().GetByID(ctx, userID, h.HabitID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByID after delete: want ErrNotFound, got %v", err)
	}
	if rng, err := s.Logs().FindRange(ctx, h.HabitID, day, day.AddDate(0, 0, 1)); err != nil || len(rng) != 0 {
		t.Fatalf("logs survived hard delete: n=%d err=%v", len(rng), err)
	}

	// Missing-habit mutations report ErrNotFound.
	if err := s.Habits().Deactivate(ctx, userID, "missing"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Deactivate missing: want ErrNotFound, got %v", err)
	}
	if err := s.Habits().Delete(ctx, userID, "missing"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Delete missing: want ErrNotFound, got %v", err)
	}
	if _, err := s.Habits().Update(ctx, userID, "missing", model.UpdateHabitRequest{}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Update missing: want ErrNotFound, got %v", err)
	}
}
