// Package service implements the leaderboard business rules behind the
// HTTP API: credential resolution, ledger reconciliation, feedback and
// the administrative reset.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/shellhunt/internal/adapters/repository"
	"github.com/okian/shellhunt/internal/domain/model"
	"github.com/okian/shellhunt/internal/domain/policy"
	"github.com/okian/shellhunt/internal/domain/secrets"
	"github.com/okian/shellhunt/pkg/logger"
	"github.com/okian/shellhunt/pkg/metrics"
)

// Response copy. The accepted pool is rotated at random per submission;
// the choice carries no meaning beyond variety.
var acceptedMessages = []string{
	"Password accepted! Great work cracking the shell!",
	"Level unlocked! You're getting closer to the treasure!",
	"Excellent progress! The root access awaits!",
	"Outstanding! Your terminal skills are impressive!",
	"Breakthrough achieved! Keep pushing forward!",
}

const (
	invalidPasswordMessage         = "Invalid password. Please check your submission and try again."
	invalidFeedbackPasswordMessage = "Invalid password. Please enter a valid level password."
	feedbackThanksMessage          = "Thank you for your feedback! Your input helps us improve the event."
	resetDoneMessage               = "All team progress and feedback has been successfully reset."

	defaultMaxTeamNameLen = 50
	defaultPingMessage    = "ping"
)

// SubmitResult is the outcome of a password submission. Accepted=false
// with a non-empty Message is a business rejection, not an error.
type SubmitResult struct {
	Accepted     bool
	Level        int
	SubmissionID string
	Message      string
	Reason       policy.Reason
}

// FeedbackResult is the outcome of a feedback submission.
type FeedbackResult struct {
	Accepted   bool
	FeedbackID string
	Message    string
}

// Service coordinates the credential resolver, the reconciliation
// policy and the ledger store. Submissions for the same team are
// serialized on a per-team lock so read-decide-write never races.
type Service struct {
	mu sync.RWMutex

	store  repository.Store
	policy policy.Policy

	maxTeamNameLen int
	pingMessage    string

	teamMu    sync.Mutex
	teamLocks map[string]*sync.Mutex

	started   bool
	startedAt time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the ledger store backing the service.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithPolicy sets the reconciliation policy.
func WithPolicy(p policy.Policy) Option {
	return func(s *Service) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithMaxTeamNameLen sets the maximum accepted team name length.
func WithMaxTeamNameLen(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTeamNameLen = n
		}
	}
}

// WithPingMessage sets the payload returned by Ping.
func WithPingMessage(msg string) Option {
	return func(s *Service) {
		if msg != "" {
			s.pingMessage = msg
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration. A store must be
// attached via WithStore before Start.
func New(opts ...Option) *Service {
	s := &Service{
		policy:         policy.Monotonic(),
		maxTeamNameLen: defaultMaxTeamNameLen,
		pingMessage:    defaultPingMessage,
		teamLocks:      make(map[string]*sync.Mutex),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start readies the service.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return ErrNoStore
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "leaderboard service started",
		logger.String("policy", s.policy.Name()),
		logger.Int("maxTeamNameLen", s.maxTeamNameLen),
		logger.Int("maxLevel", secrets.MaxLevel),
	)

	return nil
}

// Stop shuts the service down and closes the ledger store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if err := s.store.Close(); err != nil {
		s.logger.Error(context.Background(), "closing store failed", logger.Error(err))
	}

	s.started = false
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

// Submit processes a password submission for teamName. Validation
// failures return a typed error; everything else, including unknown
// passwords and policy rejections, returns a SubmitResult.
func (s *Service) Submit(ctx context.Context, teamName, password string) (SubmitResult, error) {
	if err := s.validateTeamName(teamName); err != nil {
		return SubmitResult{}, err
	}
	if password == "" {
		return SubmitResult{}, ErrPasswordRequired
	}

	level, ok := secrets.Resolve(password)
	if !ok {
		metrics.RecordSubmissionRejected("invalid_password")
		s.logger.Info(ctx, "submission rejected: unknown password",
			logger.String("team", teamName),
		)
		return SubmitResult{Message: invalidPasswordMessage}, nil
	}

	key := model.TeamKey(teamName)
	lock := s.teamLock(key)
	lock.Lock()
	defer lock.Unlock()

	existing, found, err := s.store.GetProgress(ctx, key)
	if err != nil {
		metrics.RecordStoreError()
		return SubmitResult{}, err
	}
	var existingPtr *model.Progress
	if found {
		existingPtr = &existing
	}

	decision := s.policy.Reconcile(existingPtr, teamName, level, time.Now().UTC())
	if !decision.Accept {
		metrics.RecordSubmissionRejected(string(decision.Reason))
		s.logger.Info(ctx, "submission rejected by policy",
			logger.String("team", teamName),
			logger.Int("level", level),
			logger.Int("currentLevel", existing.Level),
			logger.String("reason", string(decision.Reason)),
		)
		return SubmitResult{
			Reason: decision.Reason,
			Message: fmt.Sprintf(
				"Your team already completed level %d or higher. Leaderboard unchanged.",
				existing.Level,
			),
		}, nil
	}

	rec := decision.Record
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := s.store.PutProgress(ctx, rec); err != nil {
		metrics.RecordStoreError()
		return SubmitResult{}, err
	}

	metrics.RecordSubmissionAccepted()
	s.logger.Info(ctx, "submission accepted",
		logger.String("team", teamName),
		logger.Int("level", level),
	)

	return SubmitResult{
		Accepted:     true,
		Level:        level,
		SubmissionID: rec.ID,
		Message: fmt.Sprintf("%s Level %d completed.",
			acceptedMessages[rand.Intn(len(acceptedMessages))], level),
	}, nil
}

// ListProgress returns every progress record in leaderboard order:
// level descending, earliest timestamp first within a level.
func (s *Service) ListProgress(ctx context.Context) ([]model.Progress, error) {
	records, err := s.store.ListProgress(ctx)
	if err != nil {
		metrics.RecordStoreError()
		return nil, err
	}
	model.SortProgress(records)
	metrics.UpdateTeamsTracked(len(records))
	return records, nil
}

// SubmitFeedback records a team's rating of the event. The password
// proves which level the team had reached when rating; a resubmission
// by the same team overwrites the previous record.
func (s *Service) SubmitFeedback(ctx context.Context, teamName, password string, rating int, comments string) (FeedbackResult, error) {
	if err := s.validateTeamName(teamName); err != nil {
		return FeedbackResult{}, err
	}
	if password == "" {
		return FeedbackResult{}, ErrPasswordRequired
	}
	if rating < 1 || rating > 5 {
		return FeedbackResult{}, ErrRatingOutOfRange
	}

	level, ok := secrets.Resolve(password)
	if !ok {
		metrics.RecordSubmissionRejected("invalid_password")
		return FeedbackResult{Message: invalidFeedbackPasswordMessage}, nil
	}

	key := model.TeamKey(teamName)
	lock := s.teamLock(key)
	lock.Lock()
	defer lock.Unlock()

	rec := model.Feedback{
		ID:        uuid.NewString(),
		TeamName:  teamName,
		TeamKey:   key,
		Level:     level,
		Rating:    rating,
		Comments:  strings.TrimSpace(comments),
		Timestamp: time.Now().UTC(),
	}
	// One feedback record per team: keep the original id stable across
	// overwrites so clients can correlate.
	if existing, found, err := s.store.GetFeedback(ctx, key); err != nil {
		metrics.RecordStoreError()
		return FeedbackResult{}, err
	} else if found {
		rec.ID = existing.ID
	}

	if err := s.store.PutFeedback(ctx, rec); err != nil {
		metrics.RecordStoreError()
		return FeedbackResult{}, err
	}

	metrics.RecordFeedbackSubmitted()
	s.logger.Info(ctx, "feedback recorded",
		logger.String("team", teamName),
		logger.Int("rating", rating),
		logger.Int("level", level),
	)

	return FeedbackResult{
		Accepted:   true,
		FeedbackID: rec.ID,
		Message:    feedbackThanksMessage,
	}, nil
}

// ListFeedback returns every feedback record, most recent first.
func (s *Service) ListFeedback(ctx context.Context) ([]model.Feedback, error) {
	records, err := s.store.ListFeedback(ctx)
	if err != nil {
		metrics.RecordStoreError()
		return nil, err
	}
	model.SortFeedback(records)
	metrics.UpdateFeedbackTracked(len(records))
	return records, nil
}

// Reset clears the whole ledger and reports how many progress and
// feedback records were deleted. Resetting an empty ledger returns
// zeros.
func (s *Service) Reset(ctx context.Context) (int, int, error) {
	deletedProgress, deletedFeedback, err := s.store.ResetAll(ctx)
	if err != nil {
		metrics.RecordStoreError()
		return 0, 0, err
	}

	metrics.RecordReset()
	metrics.UpdateTeamsTracked(0)
	metrics.UpdateFeedbackTracked(0)
	s.logger.Info(ctx, "ledger reset",
		logger.Int("deletedSubmissions", deletedProgress),
		logger.Int("deletedFeedbacks", deletedFeedback),
	)

	return deletedProgress, deletedFeedback, nil
}

// ResetMessage is the acknowledgement text for a completed reset.
func (s *Service) ResetMessage() string { return resetDoneMessage }

// Ping returns the configured liveness payload.
func (s *Service) Ping() string {
	return s.pingMessage
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	s.mu.RLock()
	started := s.started
	startedAt := s.startedAt
	s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":  started,
		"policy":   s.policy.Name(),
		"maxLevel": secrets.MaxLevel,
	}

	if started {
		stats["uptimeSeconds"] = int64(time.Since(startedAt).Seconds())
		progressCount, feedbackCount, err := s.store.Counts(ctx)
		if err == nil {
			stats["totalTeams"] = progressCount
			stats["totalFeedbacks"] = feedbackCount
			metrics.UpdateTeamsTracked(progressCount)
			metrics.UpdateFeedbackTracked(feedbackCount)
		}
	}

	return stats
}

func (s *Service) validateTeamName(teamName string) error {
	trimmed := strings.TrimSpace(teamName)
	if trimmed == "" {
		return ErrTeamNameRequired
	}
	if len(trimmed) > s.maxTeamNameLen {
		return ErrTeamNameTooLong
	}
	return nil
}

// teamLock returns the mutex serializing mutations for one team key.
// Locks are never reclaimed; the team population of a single event is
// small enough that the map stays tiny.
func (s *Service) teamLock(key string) *sync.Mutex {
	s.teamMu.Lock()
	defer s.teamMu.Unlock()

	lock, ok := s.teamLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.teamLocks[key] = lock
	}
	return lock
}
