// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/shellhunt/internal/domain/model"
)

// ProgressDependencies defines the interface for leaderboard reads.
type ProgressDependencies interface {
	ListProgress(ctx context.Context) ([]model.Progress, error)
}

// ProgressHandler handles leaderboard requests.
type ProgressHandler struct {
	deps ProgressDependencies
}

// NewProgressHandler creates a new progress handler.
func NewProgressHandler(deps ProgressDependencies) *ProgressHandler {
	return &ProgressHandler{deps: deps}
}

type progressListResponse struct {
	Success    bool            `json:"success"`
	Teams      []progressEntry `json:"teams"`
	Total      int             `json:"total"`
	ServerTime string          `json:"serverTime"`
}

// HandleTeamProgress handles GET /api/team-progress requests. Rows come
// back already ordered: level descending, first-to-reach first.
func (h *ProgressHandler) HandleTeamProgress(w http.ResponseWriter, r *http.Request) {
	const op = "api.team_progress"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	records, err := h.deps.ListProgress(r.Context())
	if err != nil {
		writeServerError(w, op, err)
		return
	}

	teams := make([]progressEntry, len(records))
	for i, rec := range records {
		teams[i] = toProgressEntry(rec)
	}

	writeJSON(w, http.StatusOK, progressListResponse{
		Success:    true,
		Teams:      teams,
		Total:      len(teams),
		ServerTime: serverTime(),
	})
}
