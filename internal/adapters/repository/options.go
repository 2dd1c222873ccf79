// Package repository defines the ledger store interface and errors.
package repository

import "github.com/okian/shellhunt/internal/adapters/journal"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithJournal attaches a snapshot journal: state is loaded from it on
// open and every mutation schedules a fresh snapshot.
func WithJournal(j *journal.Journal, snapshotPath string) Option {
	return func(s *MemoryStore) {
		if j != nil {
			s.journal = j
			s.snapshotPath = snapshotPath
		}
	}
}
