// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/shellhunt/internal/app"
)

// SubmitDependencies defines the interface for password submissions.
type SubmitDependencies interface {
	Submit(ctx context.Context, teamName, password string) (service.SubmitResult, error)
}

// SubmitHandler handles password submission requests.
type SubmitHandler struct {
	deps SubmitDependencies
}

// NewSubmitHandler creates a new submit handler.
func NewSubmitHandler(deps SubmitDependencies) *SubmitHandler {
	return &SubmitHandler{deps: deps}
}

// submitRequest mirrors the OpenAPI schema for POST /api/submit-password.
type submitRequest struct {
	TeamName string `json:"teamName"`
	Password string `json:"password"`
}

func (r submitRequest) validate() error {
	switch {
	case strings.TrimSpace(r.TeamName) == "":
		return errors.New("missing teamName")
	case r.Password == "":
		return errors.New("missing password")
	}
	return nil
}

type submitResponse struct {
	Success      bool   `json:"success"`
	Level        int    `json:"level"`
	SubmissionID string `json:"submissionId"`
	Message      string `json:"message"`
}

const submitValidationMessage = "Invalid input. Please check your team name and password."

// HandleSubmitPassword handles POST /api/submit-password requests.
func (h *SubmitHandler) HandleSubmitPassword(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_password"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, op, submitValidationMessage, err)
		return
	}
	if err := req.validate(); err != nil {
		writeBadRequest(w, op, submitValidationMessage, err)
		return
	}

	result, err := h.deps.Submit(r.Context(), req.TeamName, req.Password)
	if err != nil {
		if isValidation(err) {
			writeBadRequest(w, op, submitValidationMessage, err)
			return
		}
		writeServerError(w, op, err)
		return
	}
	if !result.Accepted {
		writeRejection(w, result.Message)
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success:      true,
		Level:        result.Level,
		SubmissionID: result.SubmissionID,
		Message:      result.Message,
	})
}

// isValidation reports whether err is one of the service's input
// validation errors, which map to 400 rather than 500.
func isValidation(err error) bool {
	return errors.Is(err, service.ErrTeamNameRequired) ||
		errors.Is(err, service.ErrTeamNameTooLong) ||
		errors.Is(err, service.ErrPasswordRequired) ||
		errors.Is(err, service.ErrRatingOutOfRange)
}
