// Package repository defines the ledger store interface and errors.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/shellhunt/internal/adapters/journal"
	"github.com/okian/shellhunt/internal/domain/model"
	"github.com/okian/shellhunt/pkg/metrics"
)

// MemoryStore implements Store with mutex-guarded maps keyed by
// normalized team name. With a journal attached it reloads the last
// snapshot on open and schedules a new one after every mutation, which
// is what lets a memory-backed ledger survive a process restart.
type MemoryStore struct {
	mu        sync.RWMutex
	progress  map[string]model.Progress
	feedbacks map[string]model.Feedback
	closed    bool

	journal      *journal.Journal
	snapshotPath string
}

// NewMemoryStore creates a memory store, loading state from the
// attached journal's snapshot when one exists.
func NewMemoryStore(opts ...Option) (*MemoryStore, error) {
	s := &MemoryStore{
		progress:  make(map[string]model.Progress),
		feedbacks: make(map[string]model.Feedback),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.journal != nil && s.snapshotPath != "" {
		st, found, err := journal.Load(s.snapshotPath)
		if err != nil {
			return nil, err
		}
		if found {
			for _, rec := range st.Progress {
				s.progress[rec.TeamKey] = rec
			}
			for _, rec := range st.Feedbacks {
				s.feedbacks[rec.TeamKey] = rec
			}
		}
	}
	return s, nil
}

// GetProgress returns the progress record for teamKey.
func (s *MemoryStore) GetProgress(ctx context.Context, teamKey string) (model.Progress, bool, error) {
	defer observeQuery(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.Progress{}, false, ErrClosed
	}
	rec, ok := s.progress[teamKey]
	return rec, ok, nil
}

// PutProgress creates or replaces the progress record for its TeamKey.
func (s *MemoryStore) PutProgress(ctx context.Context, rec model.Progress) error {
	defer observeUpdate(time.Now())

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.progress[rec.TeamKey] = rec
	s.recordSnapshotLocked(ctx)
	s.mu.Unlock()
	return nil
}

// ListProgress returns every current progress record.
func (s *MemoryStore) ListProgress(ctx context.Context) ([]model.Progress, error) {
	defer observeQuery(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]model.Progress, 0, len(s.progress))
	for _, rec := range s.progress {
		out = append(out, rec)
	}
	return out, nil
}

// GetFeedback returns the feedback record for teamKey.
func (s *MemoryStore) GetFeedback(ctx context.Context, teamKey string) (model.Feedback, bool, error) {
	defer observeQuery(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.Feedback{}, false, ErrClosed
	}
	rec, ok := s.feedbacks[teamKey]
	return rec, ok, nil
}

// PutFeedback creates or replaces the feedback record for its TeamKey.
func (s *MemoryStore) PutFeedback(ctx context.Context, rec model.Feedback) error {
	defer observeUpdate(time.Now())

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.feedbacks[rec.TeamKey] = rec
	s.recordSnapshotLocked(ctx)
	s.mu.Unlock()
	return nil
}

// ListFeedback returns every current feedback record.
func (s *MemoryStore) ListFeedback(ctx context.Context) ([]model.Feedback, error) {
	defer observeQuery(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]model.Feedback, 0, len(s.feedbacks))
	for _, rec := range s.feedbacks {
		out = append(out, rec)
	}
	return out, nil
}

// ResetAll deletes every record and reports the deleted counts.
func (s *MemoryStore) ResetAll(ctx context.Context) (int, int, error) {
	defer observeUpdate(time.Now())

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, 0, ErrClosed
	}
	deletedProgress := len(s.progress)
	deletedFeedback := len(s.feedbacks)
	s.progress = make(map[string]model.Progress)
	s.feedbacks = make(map[string]model.Feedback)
	s.recordSnapshotLocked(ctx)
	s.mu.Unlock()
	return deletedProgress, deletedFeedback, nil
}

// Counts reports the number of progress and feedback records.
func (s *MemoryStore) Counts(ctx context.Context) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, 0, ErrClosed
	}
	return len(s.progress), len(s.feedbacks), nil
}

// Close stops the store and its journal. The current state is written
// synchronously as the final snapshot, so acknowledged writes survive
// even when the journal queue dropped or reordered intermediate ones.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	st := s.snapshotLocked()
	s.mu.Unlock()

	if s.journal != nil {
		return s.journal.CloseWith(st)
	}
	return nil
}

// snapshotLocked copies the full state. Callers must hold mu.
func (s *MemoryStore) snapshotLocked() journal.State {
	if s.journal == nil {
		return journal.State{}
	}
	st := journal.State{
		Progress:  make([]model.Progress, 0, len(s.progress)),
		Feedbacks: make([]model.Feedback, 0, len(s.feedbacks)),
	}
	for _, rec := range s.progress {
		st.Progress = append(st.Progress, rec)
	}
	for _, rec := range s.feedbacks {
		st.Feedbacks = append(st.Feedbacks, rec)
	}
	return st
}

// recordSnapshotLocked enqueues the current state while the caller
// still holds mu, so queued snapshots arrive in mutation order and the
// flusher's keep-the-newest coalescing cannot regress to a stale state.
// Record never blocks, so holding the lock across it is safe.
func (s *MemoryStore) recordSnapshotLocked(ctx context.Context) {
	if s.journal == nil {
		return
	}
	s.journal.Record(ctx, s.snapshotLocked())
}

func observeUpdate(start time.Time) {
	metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
}

func observeQuery(start time.Time) {
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
}
