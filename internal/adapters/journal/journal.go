// Package journal persists ledger snapshots to disk in the background.
//
// It adapts the queue-plus-worker shape used elsewhere in the codebase
// to durability: mutations push the full ledger state onto a bounded
// channel and a single flusher goroutine writes the most recent state
// as a JSON document via temp-file plus rename. Bursts coalesce - only
// the newest pending state is written. A failed flush is logged and
// counted, never fatal to the process.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/okian/shellhunt/internal/domain/model"
	"github.com/okian/shellhunt/pkg/logger"
	"github.com/okian/shellhunt/pkg/metrics"
)

// Default journal configuration constants.
const (
	defaultQueueSize    = 64
	defaultFlushTimeout = 5 * time.Second
)

// State is the full ledger content written to and read from disk.
// Two independent collections, round-tripping losslessly through JSON.
type State struct {
	Progress  []model.Progress `json:"progress"`
	Feedbacks []model.Feedback `json:"feedbacks"`
}

// Journal writes ledger snapshots to a file in the background.
type Journal struct {
	path         string
	queueSize    int
	flushTimeout time.Duration

	requests chan State
	done     chan struct{}
	logger   logger.Logger

	mu     sync.RWMutex
	closed bool
}

// New creates a journal writing snapshots to path and starts its
// flusher goroutine.
func New(path string, opts ...Option) (*Journal, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	j := &Journal{
		path:         path,
		queueSize:    defaultQueueSize,
		flushTimeout: defaultFlushTimeout,
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(j)
	}
	if j.logger == nil {
		j.logger = logger.Get().Named("journal")
	}
	j.requests = make(chan State, j.queueSize)

	go j.run()
	return j, nil
}

// Load reads the snapshot from disk. The second return is false when no
// snapshot exists yet.
func Load(path string) (State, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, false, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return st, true, nil
}

// Record queues state for persistence. Returns false when the journal
// is closed or the queue is full; in both cases the caller's in-memory
// state remains authoritative and a later mutation will retry.
func (j *Journal) Record(ctx context.Context, st State) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return false
	}

	select {
	case j.requests <- st:
		metrics.UpdateJournalQueueSize(len(j.requests))
		return true
	case <-ctx.Done():
		return false
	default:
		// Queue full: a newer state supersedes this one, and CloseWith
		// writes the authoritative state on shutdown either way.
		metrics.UpdateJournalQueueSize(len(j.requests))
		return false
	}
}

// Close stops the flusher after draining pending requests.
func (j *Journal) Close() error {
	j.stop()
	return nil
}

// CloseWith stops the flusher and then writes st synchronously as the
// final snapshot, so the file ends at the caller's authoritative state
// no matter what the queue held or dropped.
func (j *Journal) CloseWith(st State) error {
	if !j.stop() {
		return nil
	}
	return j.write(st)
}

// stop drains and shuts down the flusher once. The return reports
// whether this call performed the shutdown.
func (j *Journal) stop() bool {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return false
	}
	j.closed = true
	j.mu.Unlock()

	close(j.requests)
	<-j.done
	return true
}

// run is the flusher loop. It coalesces: after receiving a state it
// drains everything else pending and writes only the newest.
func (j *Journal) run() {
	defer close(j.done)

	for st := range j.requests {
		for {
			select {
			case newer, ok := <-j.requests:
				if !ok {
					j.flush(st)
					return
				}
				st = newer
				continue
			default:
			}
			break
		}
		j.flush(st)
		metrics.UpdateJournalQueueSize(len(j.requests))
	}
}

// flush writes st to the snapshot file atomically.
func (j *Journal) flush(st State) {
	start := time.Now()
	err := j.write(st)
	elapsed := time.Since(start)
	metrics.RecordJournalFlushLatency(float64(elapsed.Milliseconds()))
	if elapsed > j.flushTimeout {
		j.logger.Warn(context.Background(), "snapshot flush exceeded timeout",
			logger.Duration("elapsed", elapsed),
			logger.Duration("timeout", j.flushTimeout),
		)
	}
	if err != nil {
		metrics.RecordJournalFlushError()
		j.logger.Error(context.Background(), "snapshot flush failed",
			logger.String("path", j.path),
			logger.Error(err),
		)
		return
	}
	metrics.RecordJournalFlush(time.Now().Unix())
}

func (j *Journal) write(st State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFlush, err)
	}

	dir := filepath.Dir(j.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFlush, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrFlush, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrFlush, err)
	}
	if err := os.Rename(tmpName, j.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrFlush, err)
	}
	return nil
}
