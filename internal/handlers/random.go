package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chrisvdg/trivia-backend/internal/middlewares"
	"github.com/chrisvdg/trivia-backend/internal/models"
)

// Sampler defines the interface that the service must implement.
type Sampler interface {
	Sample(ctx context.Context, seenIDs []string, filters map[string]any) (*models.Question, error)
}

// AnswerRecorder defines the interface that the service must implement.
type AnswerRecorder interface {
	RecordAnswer(ctx context.Context, id string, correct bool, actor string) (*models.Question, error)
}

// RandomQuestionRequest represents the JSON body for a sampling request.
// The caller owns the seen-set and sends it back on every request.
// swagger:model RandomQuestionRequest
type RandomQuestionRequest struct {
	// Question ids already shown in this session
	SeenQuestionIDs []string `json:"seen_question_ids,omitempty"`

	// Extra exact-match filters, e.g. {"language": "english"}
	Filters map[string]any `json:"filters,omitempty"`
}

// NewRandomQuestionHandler returns an HTTP handler picking one approved,
// unseen question uniformly at random.
// @Summary Get a random question
// @Description Samples uniformly among approved questions matching the filters and not in the seen-set. Returns 404 when the pool is exhausted.
// @Tags questions
// @Accept json
// @Produce json
// @Param randomQuestionRequest body handlers.RandomQuestionRequest false "Seen-set and filters"
// @Success 200 {object} models.Question
// @Failure 404 {object} handlers.ErrorResponse "No more unseen questions available"
// @Security BearerAuth
// @Router /questions/random [post]
func NewRandomQuestionHandler(svc Sampler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RandomQuestionRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		q, err := svc.Sample(r.Context(), req.SeenQuestionIDs, req.Filters)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// RecordAnswerRequest represents the JSON body for reporting an answer.
// swagger:model RecordAnswerRequest
type RecordAnswerRequest struct {
	// Whether the player answered correctly
	// required: true
	Correct bool `json:"correct"`
}

// NewRecordAnswerHandler returns an HTTP handler bumping usage counters
// after a player answers a question.
// @Summary Record an answer
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Question id"
// @Param recordAnswerRequest body handlers.RecordAnswerRequest true "Answer outcome"
// @Success 200 {object} models.Question "Updated counters"
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Security BearerAuth
// @Router /questions/{id}/answer [post]
func NewRecordAnswerHandler(svc AnswerRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middlewares.ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req RecordAnswerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		q, err := svc.RecordAnswer(r.Context(), chi.URLParam(r, "id"), req.Correct, claims.Username)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}
