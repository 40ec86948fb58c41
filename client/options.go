package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/habitloop/habitloop/client/internal/shardqueue"
)

// Option configures a Client during construction in New.
// Options must be deterministic and side-effect free.
type Option func(*Client) error

// WithHTTPTimeout sets the underlying http.Client Timeout used by the SDK.
//
// Prefer per-request context deadlines where possible; this timeout is a
// coarse safety net that bounds the total time spent on a single HTTP request
// (including connection, TLS handshake, redirects, and reading the response).
// The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithHTTPClient replaces the SDK's http.Client entirely. Useful for tests
// and callers with custom transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.http = hc
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged when enabled is true.
//
// Do not enable this option in production environments as it increases
// verbosity and may include headers and bodies in logs.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			base := c.http.Transport
			if base == nil {
				base = http.DefaultTransport
			}
			c.http.Transport = &debugTransport{base: base}
		}
		return nil
	}
}

// WithoutExecutor disables the background shard executor: mutation jobs run
// inline on the caller's goroutine. Mainly for tests and one-shot tools that
// do not need cross-goroutine FIFO guarantees.
func WithoutExecutor() Option {
	return func(c *Client) error {
		c.exec = syncExecutor{}
		return nil
	}
}

// WithExecutorConfig replaces the default mutation executor with one built
// from cfg. MaxAttempts is forced to 1: mutation jobs roll the cache back
// on failure instead of retrying.
func WithExecutorConfig(cfg shardqueue.Config) Option {
	return func(c *Client) error {
		cfg.MaxAttempts = 1
		c.exec = shardqueue.NewShardExecutor(cfg)
		return nil
	}
}
