package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chrisvdg/trivia-backend/internal/middlewares"
	"github.com/chrisvdg/trivia-backend/internal/models"
)

// Reviewer defines the interface that the service must implement.
type Reviewer interface {
	Review(ctx context.Context, id, action, actor string) (*models.Question, error)
}

// ReviewRequest represents the JSON body for a moderation decision.
// swagger:model ReviewRequest
type ReviewRequest struct {
	// Moderation action, approve or reject
	// required: true
	// default: approve
	Action string `json:"action"`
}

// NewReviewHandler returns an HTTP handler for moderation decisions.
// Approve and reject are legal from any current state and set the target
// state unconditionally; the transition is recorded in the question's
// revision history.
// @Summary Review a question
// @Tags review
// @Accept json
// @Produce json
// @Param id path string true "Question id"
// @Param reviewRequest body handlers.ReviewRequest true "Moderation action"
// @Success 200 {object} models.Question "Question in its new state"
// @Failure 400 {object} handlers.ErrorResponse "Unknown action"
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Security BearerAuth
// @Router /questions/{id}/review [post]
func NewReviewHandler(svc Reviewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middlewares.ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req ReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		q, err := svc.Review(r.Context(), chi.URLParam(r, "id"), req.Action, claims.Username)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}
