package handlers

import (
	"context"
	"encoding/json"
	"net/http"
)

// DraftGenerator defines the interface that the generator must implement.
type DraftGenerator interface {
	Generate(ctx context.Context, n int) (int, error)
}

// GenerateRequest represents the JSON body for AI draft generation.
// swagger:model GenerateRequest
type GenerateRequest struct {
	// How many questions to generate
	// default: 5
	Count int `json:"count"`
}

// GenerateResponse reports how many drafts were saved.
// swagger:model GenerateResponse
type GenerateResponse struct {
	Saved int `json:"saved"`
}

// NewGenerateHandler returns an HTTP handler that asks the configured
// model for new question drafts. Saved drafts always enter the review
// queue as pending. Admin only.
// @Summary Generate question drafts
// @Tags questions
// @Accept json
// @Produce json
// @Param generateRequest body handlers.GenerateRequest true "Generation request"
// @Success 200 {object} handlers.GenerateResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid count"
// @Failure 403 {object} handlers.ErrorResponse "Admin required"
// @Security BearerAuth
// @Router /questions/generate [post]
func NewGenerateHandler(gen DraftGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := GenerateRequest{Count: 5}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}
		if req.Count <= 0 || req.Count > 50 {
			writeError(w, http.StatusBadRequest, "count must be between 1 and 50")
			return
		}

		saved, err := gen.Generate(r.Context(), req.Count)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, GenerateResponse{Saved: saved})
	}
}
