package store

import (
	"context"
	"time"

	"github.com/habitloop/habitloop/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Habits() Habits
	Logs() CompletionLogs
}

// Habits covers habit CRUD. Every read and write is scoped by the owning
// user; a habit that exists but belongs to another user behaves exactly
// like a missing one (model.ErrNotFound).
type Habits interface {
	Create(ctx context.Context, h *model.Habit) (*model.Habit, error)
	GetByID(ctx context.Context, userID, habitID string) (*model.Habit, error)
	List(ctx context.Context, userID string) ([]*model.Habit, error)
	ListActive(ctx context.Context, userID string) ([]*model.Habit, error)
	Update(ctx context.Context, userID, habitID string, req model.UpdateHabitRequest) (*model.Habit, error)
	Deactivate(ctx context.Context, userID, habitID string) error
	Delete(ctx context.Context, userID, habitID string) error
}

// CompletionLogs covers per-day completion records. Day arguments must be
// normalized to midnight; range queries are half-open [from, to).
type CompletionLogs interface {
	FindRange(ctx context.Context, habitID string, from, to time.Time) ([]*model.CompletionLog, error)
	FindDay(ctx context.Context, habitID string, day time.Time) (*model.CompletionLog, error)
	Upsert(ctx context.Context, habitID string, day time.Time, completed bool) (*model.CompletionLog, error)

	// Toggle flips the log for (habitID, day), creating it with
	// completed=true when absent. The find-or-create/flip sequence runs in
	// a single transaction so concurrent toggles on the same day serialize.
	Toggle(ctx context.Context, habitID string, day time.Time) (*model.CompletionLog, error)
}
