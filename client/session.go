package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop/client/internal/api"
	"github.com/habitloop/habitloop/client/internal/shardqueue"
	"github.com/habitloop/habitloop/client/internal/types"
)

// Session layers an optimistic cache over the Client for one user.
//
// Every mutation follows the same protocol: the local view is updated
// immediately under the cache lock (with a deep snapshot taken first), then
// the remote call runs on the shard for the habit key so mutations on the
// same habit stay FIFO. On success the cache is replaced wholesale with a
// fresh authoritative fetch; on failure it is rewound to the snapshot and
// the error is returned to the caller. Callers block until one of the two
// outcomes has been applied, so the cache they observe afterwards is never
// mid-transition for that habit.
//
// Mutations on different habits may interleave; the wholesale replacement
// on confirm means a concurrent mutation's optimistic state can be briefly
// overwritten until its own confirm lands.
type Session struct {
	client *Client
	cache  *Cache
	userID string
}

// NewSession creates a session for userID with an empty cache. Call Refresh
// to populate it before reading.
func (c *Client) NewSession(userID string) *Session {
	return c.NewSessionWithCache(userID, NewCache())
}

// NewSessionWithCache creates a session over a caller-supplied cache, which
// lets tests inject and inspect the cache directly.
func (c *Client) NewSessionWithCache(userID string, cache *Cache) *Session {
	return &Session{client: c, cache: cache, userID: userID}
}

// Refresh replaces the cache with the server's current view.
func (s *Session) Refresh(ctx context.Context) error {
	habits, err := s.client.ListHabits(ctx, s.userID)
	if err != nil {
		return err
	}
	dash, err := s.client.GetDashboard(ctx, s.userID)
	if err != nil {
		return err
	}
	s.cache.Replace(habits, dash)
	return nil
}

// Habits returns the cached habit list.
func (s *Session) Habits() []Habit { return s.cache.Habits() }

// Dashboard returns the cached dashboard snapshot, nil before first Refresh.
func (s *Session) Dashboard() *DashboardSnapshot { return s.cache.Dashboard() }

// CreateHabit optimistically adds the habit under a temporary id, then
// creates it remotely. The confirming refetch swaps the temporary id for the
// server-assigned one.
func (s *Session) CreateHabit(ctx context.Context, req CreateHabitRequest) (*Habit, error) {
	if err := types.ValidateTitle(req.Title); err != nil {
		return nil, err
	}
	freq := req.Frequency
	if freq == "" {
		freq = "daily"
	}
	tempID := "tmp-" + uuid.NewString()
	optimistic := types.Habit{
		HabitID:      tempID,
		UserID:       s.userID,
		Title:        req.Title,
		Description:  req.Description,
		Frequency:    freq,
		Active:       true,
		CreationTime: time.Now(),
	}
	snap := s.cache.Apply(func(st *State) { st.AddHabit(optimistic) })

	var created *types.Habit
	err := s.runMutation(ctx, "create", tempID, snap, func(jctx context.Context) error {
		h, err := api.CreateHabit(jctx, s.client.http, s.client.baseURL, s.userID, req)
		if err != nil {
			return err
		}
		created = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateHabit optimistically patches the habit, then confirms remotely.
func (s *Session) UpdateHabit(ctx context.Context, habitID string, req UpdateHabitRequest) (*Habit, error) {
	if err := types.ValidateIDPresent(habitID, "habitId"); err != nil {
		return nil, err
	}
	if req.Title != nil {
		if err := types.ValidateTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	snap := s.cache.Apply(func(st *State) { st.PatchHabit(habitID, req) })

	var updated *types.Habit
	err := s.runMutation(ctx, "update", habitID, snap, func(jctx context.Context) error {
		h, err := api.UpdateHabit(jctx, s.client.http, s.client.baseURL, s.userID, habitID, req)
		if err != nil {
			return err
		}
		updated = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteHabit optimistically removes (or deactivates) the habit, then
// confirms remotely.
func (s *Session) DeleteHabit(ctx context.Context, habitID string, hard bool) error {
	if err := types.ValidateIDPresent(habitID, "habitId"); err != nil {
		return err
	}
	snap := s.cache.Apply(func(st *State) { st.RemoveHabit(habitID, hard) })

	return s.runMutation(ctx, "delete", habitID, snap, func(jctx context.Context) error {
		return api.DeleteHabit(jctx, s.client.http, s.client.baseURL, s.userID, habitID, hard)
	})
}

// ToggleHabit optimistically flips the habit's completion state for the day,
// then confirms remotely. An empty date means today; dated toggles skip the
// optimistic dashboard change since the client cannot tell which cached
// bucket the date falls in, and rely on the confirming refetch instead.
func (s *Session) ToggleHabit(ctx context.Context, habitID, date string) (*ToggleResult, error) {
	if err := types.ValidateIDPresent(habitID, "habitId"); err != nil {
		return nil, err
	}
	if err := types.ValidateDate(date); err != nil {
		return nil, err
	}
	mut := func(*State) {}
	if date == "" {
		mut = func(st *State) { st.ToggleToday(habitID) }
	}
	snap := s.cache.Apply(mut)

	var res *types.ToggleResult
	err := s.runMutation(ctx, "toggle", habitID, snap, func(jctx context.Context) error {
		r, err := api.ToggleHabit(jctx, s.client.http, s.client.baseURL, s.userID, habitID, types.ToggleHabitRequest{Date: date})
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// runMutation submits the remote call on the shard for key and blocks until
// the cache has settled: replaced with an authoritative view on success,
// rewound to snap on failure. The job reports success to the executor either
// way because rollback and result delivery happen here; the executor must
// never re-run a mutation whose cache effects were already undone.
func (s *Session) runMutation(ctx context.Context, op, key string, snap Snapshot, remote func(context.Context) error) error {
	done := make(chan error, 1)
	j := shardqueue.JobFunc(func(jctx context.Context) error {
		err := remote(jctx)
		if err == nil {
			err = s.Refresh(jctx)
		}
		if err != nil {
			s.cache.Restore(snap)
			mutationsRolledBackTotal.WithLabelValues(op).Inc()
		} else {
			mutationsConfirmedTotal.WithLabelValues(op).Inc()
		}
		done <- err
		return nil
	})

	if err := s.client.exec.Submit(ctx, key, j); err != nil {
		s.cache.Restore(snap)
		mutationsRolledBackTotal.WithLabelValues(op).Inc()
		if errors.Is(err, shardqueue.ErrQueueFull) {
			return fmt.Errorf("%w: %s", ErrBackPressure, err)
		}
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
