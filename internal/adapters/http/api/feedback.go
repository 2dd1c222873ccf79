// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/shellhunt/internal/app"
	"github.com/okian/shellhunt/internal/domain/model"
)

// FeedbackDependencies defines the interface for feedback operations.
type FeedbackDependencies interface {
	SubmitFeedback(ctx context.Context, teamName, password string, rating int, comments string) (service.FeedbackResult, error)
	ListFeedback(ctx context.Context) ([]model.Feedback, error)
}

// FeedbackHandler handles feedback submission and listing.
type FeedbackHandler struct {
	deps FeedbackDependencies
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(deps FeedbackDependencies) *FeedbackHandler {
	return &FeedbackHandler{deps: deps}
}

// feedbackRequest mirrors the OpenAPI schema for POST /api/feedback.
type feedbackRequest struct {
	TeamName string `json:"teamName"`
	Password string `json:"password"`
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

func (r feedbackRequest) validate() error {
	switch {
	case strings.TrimSpace(r.TeamName) == "":
		return errors.New("missing teamName")
	case r.Password == "":
		return errors.New("missing password")
	case r.Rating < 1 || r.Rating > 5:
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}

type feedbackResponse struct {
	Success    bool   `json:"success"`
	FeedbackID string `json:"feedbackId"`
	Message    string `json:"message"`
}

type feedbackListResponse struct {
	Success    bool            `json:"success"`
	Feedbacks  []feedbackEntry `json:"feedbacks"`
	Total      int             `json:"total"`
	ServerTime string          `json:"serverTime"`
}

const feedbackValidationMessage = "Invalid input. Please check all required fields."

// HandleFeedback routes POST to submission and GET to listing.
func (h *FeedbackHandler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleSubmit(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *FeedbackHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_feedback"
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, op, feedbackValidationMessage, err)
		return
	}
	if err := req.validate(); err != nil {
		writeBadRequest(w, op, feedbackValidationMessage, err)
		return
	}

	result, err := h.deps.SubmitFeedback(r.Context(), req.TeamName, req.Password, req.Rating, req.Comments)
	if err != nil {
		if isValidation(err) {
			writeBadRequest(w, op, feedbackValidationMessage, err)
			return
		}
		writeServerError(w, op, err)
		return
	}
	if !result.Accepted {
		writeRejection(w, result.Message)
		return
	}

	writeJSON(w, http.StatusOK, feedbackResponse{
		Success:    true,
		FeedbackID: result.FeedbackID,
		Message:    result.Message,
	})
}

func (h *FeedbackHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_feedback"
	records, err := h.deps.ListFeedback(r.Context())
	if err != nil {
		writeServerError(w, op, err)
		return
	}

	feedbacks := make([]feedbackEntry, len(records))
	for i, rec := range records {
		feedbacks[i] = toFeedbackEntry(rec)
	}

	writeJSON(w, http.StatusOK, feedbackListResponse{
		Success:    true,
		Feedbacks:  feedbacks,
		Total:      len(feedbacks),
		ServerTime: serverTime(),
	})
}
