package shardqueue

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config controls the executor's sharding, queueing and retry behaviour.
// Zero values are replaced with the documented defaults in NewShardExecutor.
type Config struct {
	// Shards is the number of worker goroutines / queues.
	Shards int `envconfig:"SHARDS" default:"4"`
	// QueueSize is the buffered capacity of each shard queue.
	QueueSize int `envconfig:"QUEUE_SIZE" default:"128"`
	// EnqueueTimeout bounds how long Submit waits for queue space before
	// reporting back-pressure.
	EnqueueTimeout time.Duration `envconfig:"ENQUEUE_TIMEOUT" default:"100ms"`
	// MaxAttempts is the total number of Run invocations per job, including
	// the first. 1 disables retries.
	MaxAttempts int `envconfig:"MAX_ATTEMPTS" default:"8"`
	// BaseBackoff is the initial retry delay; it doubles up to MaxInterval.
	BaseBackoff time.Duration `envconfig:"BASE_BACKOFF" default:"100ms"`
	MaxInterval time.Duration `envconfig:"MAX_INTERVAL" default:"20s"`

	// ErrorHandler, when non-nil, receives terminal job errors (irrecoverable
	// or retries exhausted). It must not block.
	ErrorHandler func(error) `ignored:"true"`
}

// LoadConfig reads executor settings from SQ_* environment variables,
// falling back to the defaults above.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("sq", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
