// Package policy defines the reconciliation contract deciding whether a
// newly proven level supersedes a team's existing progress record.
//
// The event ran with several ad-hoc rules over time (append every
// submission, keep the highest, one row per level). This package pins
// the rule down to a single explicit contract chosen at startup and
// applied to every submission for the lifetime of the process.
package policy

import (
	"time"

	"github.com/okian/shellhunt/internal/domain/model"
)

// Names accepted by FromName. Monotonic is the default: a team's
// recorded level never decreases.
const (
	NameMonotonic  = "monotonic"
	NameLatestWins = "latest"
)

// Reason classifies why a submission did not change the ledger.
type Reason string

// Rejection reasons surfaced to clients and metrics.
const (
	ReasonNone           Reason = ""
	ReasonAtOrBelowLevel Reason = "already_at_or_above_level"
)

// Decision is the outcome of reconciling one submission against a
// team's existing record.
type Decision struct {
	// Accept reports whether the ledger should be written.
	Accept bool
	// Reason explains a non-accepting decision.
	Reason Reason
	// Record is the record to persist when Accept is true.
	Record model.Progress
}

// Policy reconciles a resolved submission against the team's current
// record. existing is nil on a team's first submission. Implementations
// are pure: the caller owns locking and persistence.
type Policy interface {
	Reconcile(existing *model.Progress, teamName string, level int, now time.Time) Decision

	// Name identifies the policy in logs and /stats.
	Name() string
}

// FromName returns the policy registered under name, defaulting to
// monotonic for unknown input.
func FromName(name string) Policy {
	if name == NameLatestWins {
		return LatestWins()
	}
	return Monotonic()
}

// monotonic accepts only strictly increasing levels.
type monotonic struct{}

// Monotonic returns the default policy: a new submission supersedes the
// existing record only when its level is strictly higher. Equal or
// lower levels are rejected and leave the record untouched.
func Monotonic() Policy { return monotonic{} }

func (monotonic) Name() string { return NameMonotonic }

func (monotonic) Reconcile(existing *model.Progress, teamName string, level int, now time.Time) Decision {
	if existing != nil && level <= existing.Level {
		return Decision{Reason: ReasonAtOrBelowLevel}
	}
	return Decision{Accept: true, Record: next(existing, teamName, level, now)}
}

// latestWins always overwrites on a valid secret, even when the level
// is lower than the recorded one.
type latestWins struct{}

// LatestWins returns the permissive policy: any valid secret overwrites
// the team's record with the resolved level and a fresh timestamp.
func LatestWins() Policy { return latestWins{} }

func (latestWins) Name() string { return NameLatestWins }

func (latestWins) Reconcile(existing *model.Progress, teamName string, level int, now time.Time) Decision {
	return Decision{Accept: true, Record: next(existing, teamName, level, now)}
}

// next builds the record to persist, carrying the existing record id
// forward so the ledger mutates in place rather than growing.
func next(existing *model.Progress, teamName string, level int, now time.Time) model.Progress {
	rec := model.Progress{
		TeamName:  teamName,
		TeamKey:   model.TeamKey(teamName),
		Level:     level,
		Timestamp: now,
	}
	if existing != nil {
		rec.ID = existing.ID
	}
	return rec
}
