// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// ResetDependencies defines the interface for the administrative reset.
type ResetDependencies interface {
	Reset(ctx context.Context) (int, int, error)
	ResetMessage() string
}

// ResetHandler handles reset requests.
type ResetHandler struct {
	deps ResetDependencies
}

// NewResetHandler creates a new reset handler.
func NewResetHandler(deps ResetDependencies) *ResetHandler {
	return &ResetHandler{deps: deps}
}

type resetResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Deleted deletedCount `json:"deleted"`
}

type deletedCount struct {
	Submissions int `json:"submissions"`
	Feedbacks   int `json:"feedbacks"`
}

// HandleResetProgress handles POST /api/reset-progress requests.
// Resetting an empty ledger succeeds with zero counts.
func (h *ResetHandler) HandleResetProgress(w http.ResponseWriter, r *http.Request) {
	const op = "api.reset_progress"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	deletedSubmissions, deletedFeedbacks, err := h.deps.Reset(r.Context())
	if err != nil {
		writeServerError(w, op, err)
		return
	}

	writeJSON(w, http.StatusOK, resetResponse{
		Success: true,
		Message: h.deps.ResetMessage(),
		Deleted: deletedCount{
			Submissions: deletedSubmissions,
			Feedbacks:   deletedFeedbacks,
		},
	})
}
