package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop/internal/model"
	"github.com/habitloop/habitloop/internal/store"
)

// fakeStore is an in-memory store.Store used by service tests.
type fakeStore struct {
	habits map[string]*model.Habit
	logs   map[string][]*model.CompletionLog

	// when set, log writes fail with this error
	logErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		habits: map[string]*model.Habit{},
		logs:   map[string][]*model.CompletionLog{},
	}
}

func (f *fakeStore) Habits() store.Habits       { return &fakeHabits{f} }
func (f *fakeStore) Logs() store.CompletionLogs { return &fakeLogs{f} }

func (f *fakeStore) addHabit(userID, habitID string, active bool) *model.Habit {
	h := &model.Habit{
		HabitID:      habitID,
		UserID:       userID,
		Title:        habitID,
		Frequency:    model.FrequencyDaily,
		Active:       active,
		CreationTime: time.Now().UTC(),
	}
	f.habits[habitID] = h
	return h
}

type fakeHabits struct{ p *fakeStore }

func (h *fakeHabits) Create(_ context.Context, m *model.Habit) (*model.Habit, error) {
	out := *m
	if out.HabitID == "" {
		out.HabitID = uuid.New().String()
	}
	if out.Frequency == "" {
		out.Frequency = model.FrequencyDaily
	}
	out.Active = true
	out.CreationTime = time.Now().UTC()
	h.p.habits[out.HabitID] = &out
	return &out, nil
}

func (h *fakeHabits) GetByID(_ context.Context, userID, habitID string) (*model.Habit, error) {
	m, ok := h.p.habits[habitID]
	if !ok || m.UserID != userID {
		return nil, model.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (h *fakeHabits) List(_ context.Context, userID string) ([]*model.Habit, error) {
	var out []*model.Habit
	for _, m := range h.p.habits {
		if m.UserID == userID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (h *fakeHabits) ListActive(_ context.Context, userID string) ([]*model.Habit, error) {
	var out []*model.Habit
	for _, m := range h.p.habits {
		if m.UserID == userID && m.Active {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (h *fakeHabits) Update(ctx context.Context, userID, habitID string, req model.UpdateHabitRequest) (*model.Habit, error) {
	m, ok := h.p.habits[habitID]
	if !ok || m.UserID != userID {
		return nil, model.ErrNotFound
	}
	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = req.Description
	}
	if req.Frequency != nil {
		m.Frequency = *req.Frequency
	}
	if req.Active != nil {
		m.Active = *req.Active
	}
	cp := *m
	return &cp, nil
}

func (h *fakeHabits) Deactivate(_ context.Context, userID, habitID string) error {
	m, ok := h.p.habits[habitID]
	if !ok || m.UserID != userID {
		return model.ErrNotFound
	}
	m.Active = false
	return nil
}

func (h *fakeHabits) Delete(_ context.Context, userID, habitID string) error {
	m, ok := h.p.habits[habitID]
	if !ok || m.UserID != userID {
		return model.ErrNotFound
	}
	delete(h.p.habits, habitID)
	delete(h.p.logs, habitID)
	return nil
}

type fakeLogs struct{ p *fakeStore }

func (l *fakeLogs) FindRange(_ context.Context, habitID string, from, to time.Time) ([]*model.CompletionLog, error) {
	var out []*model.CompletionLog
	for _, lg := range l.p.logs[habitID] {
		if !lg.LogDate.Before(from) && lg.LogDate.Before(to) {
			cp := *lg
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (l *fakeLogs) FindDay(_ context.Context, habitID string, day time.Time) (*model.CompletionLog, error) {
	for _, lg := range l.p.logs[habitID] {
		if lg.LogDate.Equal(day) {
			cp := *lg
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (l *fakeLogs) Upsert(ctx context.Context, habitID string, day time.Time, completed bool) (*model.CompletionLog, error) {
	return l.set(habitID, day, func(existing *bool) bool { return completed })
}

func (l *fakeLogs) Toggle(_ context.Context, habitID string, day time.Time) (*model.CompletionLog, error) {
	return l.set(habitID, day, func(existing *bool) bool {
		if existing == nil {
			return true
		}
		return !*existing
	})
}

func (l *fakeLogs) set(habitID string, day time.Time, next func(*bool) bool) (*model.CompletionLog, error) {
	if l.p.logErr != nil {
		return nil, l.p.logErr
	}
	for _, lg := range l.p.logs[habitID] {
		if lg.LogDate.Equal(day) {
			lg.Completed = next(&lg.Completed)
			cp := *lg
			return &cp, nil
		}
	}
	lg := &model.CompletionLog{
		LogID:        uuid.New().String(),
		HabitID:      habitID,
		LogDate:      day,
		Completed:    next(nil),
		CreationTime: time.Now().UTC(),
	}
	l.p.logs[habitID] = append(l.p.logs[habitID], lg)
	cp := *lg
	return &cp, nil
}
