// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/shellhunt/internal/domain/model"
)

// StatusDependencies defines the interface for the raw data dump.
type StatusDependencies interface {
	ListProgress(ctx context.Context) ([]model.Progress, error)
	ListFeedback(ctx context.Context) ([]model.Feedback, error)
}

// StatusHandler handles data status requests. The endpoint exists for
// event operators to eyeball the raw ledger during the run.
type StatusHandler struct {
	deps StatusDependencies
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(deps StatusDependencies) *StatusHandler {
	return &StatusHandler{deps: deps}
}

type collectionStatus[T any] struct {
	Count int `json:"count"`
	Data  []T `json:"data"`
}

type dataStatusResponse struct {
	Submissions collectionStatus[progressEntry] `json:"submissions"`
	Feedbacks   collectionStatus[feedbackEntry] `json:"feedbacks"`
	ServerTime  string                          `json:"serverTime"`
}

// HandleDataStatus handles GET /api/data-status requests.
func (h *StatusHandler) HandleDataStatus(w http.ResponseWriter, r *http.Request) {
	const op = "api.data_status"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	progress, err := h.deps.ListProgress(r.Context())
	if err != nil {
		writeServerError(w, op, err)
		return
	}
	feedback, err := h.deps.ListFeedback(r.Context())
	if err != nil {
		writeServerError(w, op, err)
		return
	}

	submissions := make([]progressEntry, len(progress))
	for i, rec := range progress {
		submissions[i] = toProgressEntry(rec)
	}
	feedbacks := make([]feedbackEntry, len(feedback))
	for i, rec := range feedback {
		feedbacks[i] = toFeedbackEntry(rec)
	}

	writeJSON(w, http.StatusOK, dataStatusResponse{
		Submissions: collectionStatus[progressEntry]{Count: len(submissions), Data: submissions},
		Feedbacks:   collectionStatus[feedbackEntry]{Count: len(feedbacks), Data: feedbacks},
		ServerTime:  serverTime(),
	})
}

// PingDependencies defines the interface for the liveness probe.
type PingDependencies interface {
	Ping() string
}

// PingHandler handles ping requests.
type PingHandler struct {
	deps PingDependencies
}

// NewPingHandler creates a new ping handler.
func NewPingHandler(deps PingDependencies) *PingHandler {
	return &PingHandler{deps: deps}
}

type pingResponse struct {
	Message string `json:"message"`
}

// HandlePing handles GET /api/ping requests.
func (h *PingHandler) HandlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, pingResponse{Message: h.deps.Ping()})
}
