package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/habitloop/habitloop/client/internal/shardqueue"
	"github.com/habitloop/habitloop/client/internal/types"
)

// fakeService is an in-memory habit service backing the httptest server.
type fakeService struct {
	mu         sync.Mutex
	habits     []types.Habit
	completed  map[string]bool // habitID -> completed today
	nextID     int
	failToggle bool
	failCreate bool
}

func newFakeService() *fakeService {
	return &fakeService{completed: map[string]bool{}, nextID: 1}
}

func (f *fakeService) addHabit(title string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("h-%d", f.nextID)
	f.nextID++
	f.habits = append(f.habits, types.Habit{
		HabitID: id, UserID: "u1", Title: title, Frequency: "daily", Active: true,
		CreationTime: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	})
	return id
}

func (f *fakeService) dashboard() *types.DashboardSnapshot {
	today := []types.HabitDayStatus{}
	done := 0
	for _, h := range f.habits {
		if !h.Active {
			continue
		}
		c := f.completed[h.HabitID]
		if c {
			done++
		}
		today = append(today, types.HabitDayStatus{HabitID: h.HabitID, Title: h.Title, Completed: c})
	}
	streak := 0
	if len(today) > 0 && done == len(today) {
		streak = 1
	}
	return &types.DashboardSnapshot{
		TodayStatus: today,
		WeeklySeries: []types.WeeklyDay{
			{Date: time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), CompletedCount: done, TotalCount: len(today)},
		},
		CurrentStreak: streak,
		WeeklyAverage: 0,
	}
}

func (f *fakeService) router() http.Handler {
	r := mux.NewRouter()
	writeJSON := func(w http.ResponseWriter, code int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(v)
	}

	r.HandleFunc("/api/users/{userId}/habits", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		switch req.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, types.ListHabitsResponse{Habits: f.habits, Count: len(f.habits)})
		case http.MethodPost:
			if f.failCreate {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
				return
			}
			var body types.CreateHabitRequest
			_ = json.NewDecoder(req.Body).Decode(&body)
			id := fmt.Sprintf("h-%d", f.nextID)
			f.nextID++
			h := types.Habit{
				HabitID: id, UserID: "u1", Title: body.Title, Frequency: "daily", Active: true,
				CreationTime: time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
			}
			f.habits = append(f.habits, h)
			writeJSON(w, http.StatusCreated, h)
		}
	}).Methods(http.MethodGet, http.MethodPost)

	r.HandleFunc("/api/users/{userId}/habits/{habitId}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		id := mux.Vars(req)["habitId"]
		idx := -1
		for i := range f.habits {
			if f.habits[i].HabitID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "habit not found"})
			return
		}
		switch req.Method {
		case http.MethodPatch:
			var body types.UpdateHabitRequest
			_ = json.NewDecoder(req.Body).Decode(&body)
			if body.Title != nil {
				f.habits[idx].Title = *body.Title
			}
			if body.Active != nil {
				f.habits[idx].Active = *body.Active
			}
			writeJSON(w, http.StatusOK, f.habits[idx])
		case http.MethodDelete:
			if req.URL.Query().Get("hard") == "true" {
				f.habits = append(f.habits[:idx], f.habits[idx+1:]...)
			} else {
				f.habits[idx].Active = false
			}
			w.WriteHeader(http.StatusNoContent)
		}
	}).Methods(http.MethodPatch, http.MethodDelete)

	r.HandleFunc("/api/users/{userId}/habits/{habitId}/toggle", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failToggle {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
			return
		}
		id := mux.Vars(req)["habitId"]
		found := false
		for i := range f.habits {
			if f.habits[i].HabitID == id {
				found = true
				break
			}
		}
		if !found {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "habit not found"})
			return
		}
		f.completed[id] = !f.completed[id]
		writeJSON(w, http.StatusOK, types.ToggleResult{
			HabitID: id, Completed: f.completed[id],
			Date: time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
		})
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/users/{userId}/dashboard", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.dashboard())
	}).Methods(http.MethodGet)

	return r
}

func newTestSession(t *testing.T) (*fakeService, *Session, func()) {
	t.Helper()
	fs := newFakeService()
	srv := httptest.NewServer(fs.router())
	c := New(srv.URL)
	s := c.NewSession("u1")
	cleanup := func() {
		_ = c.Close()
		srv.Close()
	}
	return fs, s, cleanup
}

func TestSessionRefreshPopulatesCache(t *testing.T) {
	fs, s, cleanup := newTestSession(t)
	defer cleanup()
	fs.addHabit("Read")
	fs.addHabit("Run")

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(s.Habits()) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(s.Habits()))
	}
	if s.Dashboard() == nil || len(s.Dashboard().TodayStatus) != 2 {
		t.Fatalf("dashboard not populated: %+v", s.Dashboard())
	}
}

func TestSessionToggleConfirmsAuthoritativeView(t *testing.T) {
	fs, s, cleanup := newTestSession(t)
	defer cleanup()
	id := fs.addHabit("Read")
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	res, err := s.ToggleHabit(context.Background(), id, "")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !res.Completed {
		t.Fatal("first toggle must report completed")
	}

	// After confirm the cache equals the server's authoritative dashboard.
	fs.mu.Lock()
	want := fs.dashboard()
	fs.mu.Unlock()
	if !reflect.DeepEqual(s.Dashboard(), want) {
		t.Fatalf("cache diverged from server:\n got %+v\nwant %+v", s.Dashboard(), want)
	}
	if s.Dashboard().CurrentStreak != 1 {
		t.Fatalf("expected streak 1, got %d", s.Dashboard().CurrentStreak)
	}
}

func TestSessionToggleRollsBackOnServerError(t *testing.T) {
	fs, s, cleanup := newTestSession(t)
	defer cleanup()
	id := fs.addHabit("Read")
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	beforeHabits := s.Habits()
	beforeDash := s.Dashboard()
	fs.mu.Lock()
	fs.failToggle = true
	fs.mu.Unlock()

	if _, err := s.ToggleHabit(context.Background(), id, ""); err == nil {
		t.Fatal("expected toggle error")
	}

	if !reflect.DeepEqual(s.Habits(), beforeHabits) {
		t.Fatalf("habits changed after rollback:\n got %+v\nwant %+v", s.Habits(), beforeHabits)
	}
	if !reflect.DeepEqual(s.Dashboard(), beforeDash) {
		t.Fatalf("dashboard changed after rollback:\n got %+v\nwant %+v", s.Dashboard(), beforeDash)
	}
}

func TestSessionCreateReplacesTempID(t *testing.T) {
	_, s, cleanup := newTestSession(t)
	defer cleanup()
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	created, err := s.CreateHabit(context.Background(), CreateHabitRequest{Title: "Stretch"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if strings.HasPrefix(created.HabitID, "tmp-") {
		t.Fatalf("returned habit kept temporary id: %s", created.HabitID)
	}
	for _, h := range s.Habits() {
		if strings.HasPrefix(h.HabitID, "tmp-") {
			t.Fatalf("temporary id survived confirm: %+v", h)
		}
	}
	if len(s.Habits()) != 1 || s.Habits()[0].HabitID != created.HabitID {
		t.Fatalf("cache missing created habit: %+v", s.Habits())
	}
}

func TestSessionCreateRollsBackOnFailure(t *testing.T) {
	fs, s, cleanup := newTestSession(t)
	defer cleanup()
	fs.addHabit("Read")
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	beforeHabits := s.Habits()
	beforeDash := s.Dashboard()

	fs.mu.Lock()
	fs.failCreate = true
	fs.mu.Unlock()

	if _, err := s.CreateHabit(context.Background(), CreateHabitRequest{Title: "Stretch"}); err == nil {
		t.Fatal("expected create error")
	}
	if !reflect.DeepEqual(s.Habits(), beforeHabits) || !reflect.DeepEqual(s.Dashboard(), beforeDash) {
		t.Fatal("cache not restored after failed create")
	}
}

func TestSessionDeleteUnknownHabitReturnsNotFound(t *testing.T) {
	fs, s, cleanup := newTestSession(t)
	defer cleanup()
	fs.addHabit("Read")
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	before := s.Habits()

	err := s.DeleteHabit(context.Background(), "missing", false)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !reflect.DeepEqual(s.Habits(), before) {
		t.Fatal("cache not restored after failed delete")
	}
}

func TestSessionWithoutExecutorAndInjectedCache(t *testing.T) {
	fs := newFakeService()
	srv := httptest.NewServer(fs.router())
	defer srv.Close()
	id := fs.addHabit("Read")

	cache := NewCache()
	c := New(srv.URL, WithoutExecutor())
	defer func() { _ = c.Close() }()
	s := c.NewSessionWithCache("u1", cache)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if _, err := s.ToggleHabit(context.Background(), id, ""); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	// The injected cache is the one the session confirmed into.
	if !cache.Dashboard().TodayStatus[0].Completed {
		t.Fatal("injected cache not updated by confirm")
	}
}

type fullExec struct{}

func (fullExec) Submit(context.Context, string, shardqueue.Job) error {
	return &shardqueue.QueueFullError{Shard: 0, Length: 1, Capacity: 1}
}
func (fullExec) Stop() {}

func TestSessionBackPressureRollsBackImmediately(t *testing.T) {
	fs := newFakeService()
	srv := httptest.NewServer(fs.router())
	defer srv.Close()
	id := fs.addHabit("Read")

	c := New(srv.URL)
	_ = c.Close()
	c.exec = fullExec{}
	s := c.NewSession("u1")
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	before := s.Dashboard()

	_, err := s.ToggleHabit(context.Background(), id, "")
	if !IsBackPressure(err) {
		t.Fatalf("expected back-pressure error, got %v", err)
	}
	if !reflect.DeepEqual(s.Dashboard(), before) {
		t.Fatal("cache not restored after back-pressure rejection")
	}
}
