// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	service "github.com/okian/shellhunt/internal/app"
	"github.com/okian/shellhunt/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit resolves a password and reconciles the team's record.
	Submit(ctx context.Context, teamName, password string) (service.SubmitResult, error)

	// ListProgress returns the full leaderboard in display order.
	ListProgress(ctx context.Context) ([]model.Progress, error)

	// SubmitFeedback records or overwrites a team's event rating.
	SubmitFeedback(ctx context.Context, teamName, password string, rating int, comments string) (service.FeedbackResult, error)

	// ListFeedback returns all feedback, most recent first.
	ListFeedback(ctx context.Context) ([]model.Feedback, error)

	// Reset clears the ledger and reports the deleted counts.
	Reset(ctx context.Context) (int, int, error)
	ResetMessage() string

	// Ping returns the configured liveness payload.
	Ping() string
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	submitHandler   *SubmitHandler
	progressHandler *ProgressHandler
	feedbackHandler *FeedbackHandler
	resetHandler    *ResetHandler
	statusHandler   *StatusHandler
	pingHandler     *PingHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		submitHandler:   NewSubmitHandler(deps),
		progressHandler: NewProgressHandler(deps),
		feedbackHandler: NewFeedbackHandler(deps),
		resetHandler:    NewResetHandler(deps),
		statusHandler:   NewStatusHandler(deps),
		pingHandler:     NewPingHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/ping", MetricsMiddleware(s.pingHandler.HandlePing, "ping"))
	mux.HandleFunc("/api/submit-password", MetricsMiddleware(s.submitHandler.HandleSubmitPassword, "submit_password"))
	mux.HandleFunc("/api/team-progress", MetricsMiddleware(s.progressHandler.HandleTeamProgress, "team_progress"))
	mux.HandleFunc("/api/feedback", MetricsMiddleware(s.feedbackHandler.HandleFeedback, "feedback"))
	mux.HandleFunc("/api/reset-progress", MetricsMiddleware(s.resetHandler.HandleResetProgress, "reset_progress"))
	mux.HandleFunc("/api/data-status", MetricsMiddleware(s.statusHandler.HandleDataStatus, "data_status"))
}

// progressEntry is the wire shape of one leaderboard row.
type progressEntry struct {
	ID          string `json:"id"`
	TeamName    string `json:"teamName"`
	Level       int    `json:"level"`
	Timestamp   string `json:"timestamp"`
	HasPassword bool   `json:"hasPassword"`
}

func toProgressEntry(rec model.Progress) progressEntry {
	return progressEntry{
		ID:          rec.ID,
		TeamName:    rec.TeamName,
		Level:       rec.Level,
		Timestamp:   rec.Timestamp.UTC().Format(time.RFC3339),
		HasPassword: true,
	}
}

// feedbackEntry is the wire shape of one feedback row.
type feedbackEntry struct {
	ID          string `json:"id"`
	TeamName    string `json:"teamName"`
	Level       int    `json:"level"`
	Rating      int    `json:"rating"`
	Comments    string `json:"comments"`
	Timestamp   string `json:"timestamp"`
	HasPassword bool   `json:"hasPassword"`
}

func toFeedbackEntry(rec model.Feedback) feedbackEntry {
	return feedbackEntry{
		ID:          rec.ID,
		TeamName:    rec.TeamName,
		Level:       rec.Level,
		Rating:      rec.Rating,
		Comments:    rec.Comments,
		Timestamp:   rec.Timestamp.UTC().Format(time.RFC3339),
		HasPassword: true,
	}
}

// rejectionResponse is the body of a business rejection: transport-level
// success with success=false, distinguishing it from validation errors
// which carry a 4xx status.
type rejectionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeRejection reports a domain rejection as HTTP 200.
func writeRejection(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, rejectionResponse{Success: false, Message: message})
}

// writeError reports a validation or server fault with an error status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, rejectionResponse{Success: false, Message: message})
}

func serverTime() string {
	return time.Now().UTC().Format(time.RFC3339)
}
