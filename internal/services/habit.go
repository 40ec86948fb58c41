package services

import (
	"context"
	"fmt"
	"time"

	"github.com/habitloop/habitloop/internal/model"
	"github.com/habitloop/habitloop/internal/stats"
	"github.com/habitloop/habitloop/internal/store"
)

// HabitService orchestrates habit CRUD and the per-day toggle command.
// All operations are scoped by the owning user; a habit belonging to
// someone else is indistinguishable from a missing one.
type HabitService struct {
	store store.Store
	loc   *time.Location
	now   func() time.Time
}

func NewHabitService(s store.Store, loc *time.Location) *HabitService {
	if loc == nil {
		loc = time.UTC
	}
	return &HabitService{store: s, loc: loc, now: time.Now}
}

func (s *HabitService) CreateHabit(ctx context.Context, h *model.Habit) (*model.Habit, error) {
	if h == nil || h.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	if h.Title == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	switch h.Frequency {
	case "", model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyMonthly:
	default:
		return nil, fmt.Errorf("%w: unsupported frequency %q", model.ErrValidation, h.Frequency)
	}
	return s.store.Habits().Create(ctx, h)
}

func (s *HabitService) GetHabit(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	if err := requireIDs(userID, habitID); err != nil {
		return nil, err
	}
	return s.store.Habits().GetByID(ctx, userID, habitID)
}

func (s *HabitService) ListHabits(ctx context.Context, userID string) ([]*model.Habit, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	return s.store.Habits().List(ctx, userID)
}

func (s *HabitService) UpdateHabit(ctx context.Context, userID, habitID string, req model.UpdateHabitRequest) (*model.Habit, error) {
	if err := requireIDs(userID, habitID); err != nil {
		return nil, err
	}
	if req.Title != nil && *req.Title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", model.ErrValidation)
	}
	if req.Frequency != nil {
		switch *req.Frequency {
		case model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyMonthly:
		default:
			return nil, fmt.Errorf("%w: unsupported frequency %q", model.ErrValidation, *req.Frequency)
		}
	}
	return s.store.Habits().Update(ctx, userID, habitID, req)
}

// DeleteHabit soft-deactivates by default; hard removes the habit and its
// completion logs.
func (s *HabitService) DeleteHabit(ctx context.Context, userID, habitID string, hard bool) error {
	if err := requireIDs(userID, habitID); err != nil {
		return err
	}
	if hard {
		return s.store.Habits().Delete(ctx, userID, habitID)
	}
	return s.store.Habits().Deactivate(ctx, userID, habitID)
}

// ToggleCompletion flips or creates the completion state of one calendar
// day. date==nil means today in the service time zone. Toggling a day
// that has no log always turns it on.
func (s *HabitService) ToggleCompletion(ctx context.Context, userID, habitID string, date *time.Time) (*model.ToggleResult, error) {
	if err := requireIDs(userID, habitID); err != nil {
		return nil, err
	}

	// Ownership gate before any log access.
	if _, err := s.store.Habits().GetByID(ctx, userID, habitID); err != nil {
		return nil, err
	}

	at := s.now()
	if date != nil {
		at = *date
	}
	day := stats.Day(at, s.loc)

	lg, err := s.store.Logs().Toggle(ctx, habitID, day)
	if err != nil {
		return nil, err
	}
	return &model.ToggleResult{HabitID: habitID, Completed: lg.Completed, Date: lg.LogDate}, nil
}

func requireIDs(userID, habitID string) error {
	if userID == "" {
		return fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	if habitID == "" {
		return fmt.Errorf("%w: habitId is required", model.ErrValidation)
	}
	return nil
}
