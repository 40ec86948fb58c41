package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/habitloop/habitloop/client/internal/api"
	"github.com/habitloop/habitloop/client/internal/shardqueue"
)

// Client is the SDK entry point. Read and write operations are synchronous
// HTTP calls; Session layers optimistic caching and per-habit mutation
// ordering on top.
type Client struct {
	baseURL string
	http    *http.Client
	exec    executor

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client for the given service base URL.
// Additional options can be provided via functional arguments.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		panic("baseURL cannot be empty")
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}
	if c.exec == nil {
		c.exec = newDefaultExecutor()
	}

	return c
}

// Close stops the background executor (if any). Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	if c.exec != nil {
		c.exec.Stop()
	}
	return nil
}

// AwaitConsistency blocks until all previously submitted mutations for the
// given habit key have been executed. It works by submitting a no-op job and
// waiting for it to run, thereby guaranteeing FIFO ordering has flushed.
func (c *Client) AwaitConsistency(ctx context.Context, habitKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan struct{})
	j := shardqueue.JobFunc(func(context.Context) error {
		close(done)
		return nil
	})
	if err := c.exec.Submit(ctx, habitKey, j); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// newDefaultExecutor constructs the shardqueue executor for mutation jobs.
// Mutations are never retried: a failed remote call rolls the cache back,
// so MaxAttempts stays at 1 regardless of the env-provided config.
func newDefaultExecutor() *shardqueue.ShardExecutor {
	cfg, err := shardqueue.LoadConfig()
	if err != nil {
		cfg = shardqueue.Config{}
	}
	cfg.MaxAttempts = 1
	return shardqueue.NewShardExecutor(cfg)
}

// --------------------------------------------------------------------
// Habit operations - delegated to internal/api
// --------------------------------------------------------------------

// CreateHabit creates a new habit for the user.
func (c *Client) CreateHabit(ctx context.Context, userID string, req CreateHabitRequest) (*Habit, error) {
	return api.CreateHabit(ctx, c.http, c.baseURL, userID, req)
}

// ListHabits retrieves all habits for the user.
func (c *Client) ListHabits(ctx context.Context, userID string) ([]Habit, error) {
	return api.ListHabits(ctx, c.http, c.baseURL, userID)
}

// GetHabit retrieves a single habit.
func (c *Client) GetHabit(ctx context.Context, userID, habitID string) (*Habit, error) {
	return api.GetHabit(ctx, c.http, c.baseURL, userID, habitID)
}

// UpdateHabit patches the mutable habit fields.
func (c *Client) UpdateHabit(ctx context.Context, userID, habitID string, req UpdateHabitRequest) (*Habit, error) {
	return api.UpdateHabit(ctx, c.http, c.baseURL, userID, habitID, req)
}

// DeleteHabit removes a habit. hard=false deactivates it, hard=true deletes
// the habit and its completion history.
func (c *Client) DeleteHabit(ctx context.Context, userID, habitID string, hard bool) error {
	return api.DeleteHabit(ctx, c.http, c.baseURL, userID, habitID, hard)
}

// ToggleHabit flips the habit's completion state for one day.
// An empty ToggleHabitRequest means today in the service time zone.
func (c *Client) ToggleHabit(ctx context.Context, userID, habitID string, req ToggleHabitRequest) (*ToggleResult, error) {
	return api.ToggleHabit(ctx, c.http, c.baseURL, userID, habitID, req)
}

// --------------------------------------------------------------------
// Dashboard operations - delegated to internal/api
// --------------------------------------------------------------------

// GetDashboard retrieves the derived dashboard snapshot for the user.
func (c *Client) GetDashboard(ctx context.Context, userID string) (*DashboardSnapshot, error) {
	return api.GetDashboard(ctx, c.http, c.baseURL, userID)
}
