// Package journal persists ledger snapshots to disk in the background.
package journal

import (
	"time"

	"github.com/okian/shellhunt/pkg/logger"
)

// Option applies a configuration option to the Journal.
type Option func(*Journal)

// WithQueueSize bounds the pending snapshot request queue.
func WithQueueSize(size int) Option {
	return func(j *Journal) {
		if size > 0 {
			j.queueSize = size
		}
	}
}

// WithFlushTimeout bounds a single snapshot write.
func WithFlushTimeout(d time.Duration) Option {
	return func(j *Journal) {
		if d > 0 {
			j.flushTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the journal.
func WithLogger(l logger.Logger) Option {
	return func(j *Journal) {
		if l != nil {
			j.logger = l
		}
	}
}
