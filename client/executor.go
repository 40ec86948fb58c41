package client

import (
	"context"

	"github.com/habitloop/habitloop/client/internal/shardqueue"
)

// executor abstracts the internal job runner that serializes mutations
// per habit key.
type executor interface {
	Submit(context.Context, string, shardqueue.Job) error
	Stop()
}

// syncExecutor runs each job inline on the caller's goroutine. Installed by
// WithoutExecutor; ordering then reduces to the caller's own sequencing.
type syncExecutor struct{}

func (syncExecutor) Submit(ctx context.Context, _ string, j shardqueue.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return j.Run(ctx)
}

func (syncExecutor) Stop() {}
