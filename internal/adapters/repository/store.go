// Package repository defines the ledger store interface and errors.
//
// A store is a durable key-ordered target for progress and feedback
// records keyed by normalized team name. It holds current state only -
// reconciliation history never reaches the store. Implementations:
// an in-memory map store (optionally journaled to a JSON snapshot) and
// a SQLite store.
package repository

import (
	"context"

	"github.com/okian/shellhunt/internal/domain/model"
)

// Store provides read/write access to the ledger state. List results
// carry no ordering guarantee; callers sort for display.
type Store interface {
	// GetProgress returns the progress record for teamKey.
	// The second return is false when the team is unknown.
	GetProgress(ctx context.Context, teamKey string) (model.Progress, bool, error)

	// PutProgress creates or replaces the progress record for its TeamKey.
	PutProgress(ctx context.Context, rec model.Progress) error

	// ListProgress returns every current progress record.
	ListProgress(ctx context.Context) ([]model.Progress, error)

	// GetFeedback returns the feedback record for teamKey.
	GetFeedback(ctx context.Context, teamKey string) (model.Feedback, bool, error)

	// PutFeedback creates or replaces the feedback record for its TeamKey.
	PutFeedback(ctx context.Context, rec model.Feedback) error

	// ListFeedback returns every current feedback record.
	ListFeedback(ctx context.Context) ([]model.Feedback, error)

	// ResetAll deletes every record unconditionally and reports how many
	// of each kind were removed. Resetting an empty store returns zeros.
	ResetAll(ctx context.Context) (progress int, feedback int, err error)

	// Counts reports the number of progress and feedback records.
	Counts(ctx context.Context) (progress int, feedback int, err error)

	// Close releases any resources held by the store.
	Close() error
}
