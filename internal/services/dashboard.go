package services

import (
	"context"
	"fmt"
	"time"

	"github.com/habitloop/habitloop/internal/model"
	"github.com/habitloop/habitloop/internal/stats"
	"github.com/habitloop/habitloop/internal/store"
)

// DashboardService assembles the derived dashboard view. Nothing is
// cached server-side: every call recomputes from the store.
type DashboardService struct {
	store store.Store
	loc   *time.Location
	now   func() time.Time
}

func NewDashboardService(s store.Store, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{store: s, loc: loc, now: time.Now}
}

// Dashboard computes the snapshot for userID as of now. A user with no
// active habits gets the zero-habit snapshot, not an error.
func (s *DashboardService) Dashboard(ctx context.Context, userID string) (*model.DashboardSnapshot, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", model.ErrValidation)
	}

	habits, err := s.store.Habits().ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	from := stats.LookbackStart(today, s.loc)
	to := stats.Day(today, s.loc).AddDate(0, 0, 1)

	logsByHabit := make(map[string][]*model.CompletionLog, len(habits))
	for _, h := range habits {
		lgs, err := s.store.Logs().FindRange(ctx, h.HabitID, from, to)
		if err != nil {
			return nil, err
		}
		logsByHabit[h.HabitID] = lgs
	}

	snap := stats.BuildSnapshot(habits, logsByHabit, today, s.loc)
	return &snap, nil
}
