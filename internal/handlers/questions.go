package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chrisvdg/trivia-backend/internal/middlewares"
	"github.com/chrisvdg/trivia-backend/internal/models"
	"github.com/chrisvdg/trivia-backend/internal/services"
)

// QuestionCreator defines the interface that the service must implement.
type QuestionCreator interface {
	Create(ctx context.Context, in services.CreateQuestionInput) (*models.Question, error)
}

// QuestionGetter defines the interface that the service must implement.
type QuestionGetter interface {
	Get(ctx context.Context, id string) (*models.Question, error)
}

// QuestionLister defines the interface that the service must implement.
type QuestionLister interface {
	List(ctx context.Context, filters map[string]any) ([]models.Question, error)
}

// QuestionUpdater defines the interface that the service must implement.
type QuestionUpdater interface {
	Update(ctx context.Context, id string, updates map[string]any, actor string) (*models.Question, error)
}

// QuestionDeleter defines the interface that the service must implement.
type QuestionDeleter interface {
	Delete(ctx context.Context, id string) (bool, error)
}

// CreateQuestionRequest represents the JSON body for question creation.
// swagger:model CreateQuestionRequest
type CreateQuestionRequest struct {
	// Question text
	// required: true
	Question string `json:"question"`

	// Correct answer
	// required: true
	Answer string `json:"answer"`

	IncorrectAnswers []string `json:"incorrect_answers,omitempty"`
	QuestionTopic    string   `json:"question_topic,omitempty"`
	QuestionSource   string   `json:"question_source,omitempty"`
	AnswerSource     string   `json:"answer_source,omitempty"`
	Language         string   `json:"language,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	MediaURL         string   `json:"media_url,omitempty"`
}

// NewCreateQuestionHandler returns an HTTP handler for question creation.
// Admin submissions are fast-tracked straight to approved; everyone else
// lands in the pending review queue.
// @Summary Create a question
// @Tags questions
// @Accept json
// @Produce json
// @Param createQuestionRequest body handlers.CreateQuestionRequest true "Question"
// @Success 201 {object} models.Question "Question created"
// @Failure 400 {object} handlers.ErrorResponse "Invalid field"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /questions [post]
func NewCreateQuestionHandler(svc QuestionCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middlewares.ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req CreateQuestionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		q, err := svc.Create(r.Context(), services.CreateQuestionInput{
			Question:         req.Question,
			Answer:           req.Answer,
			IncorrectAnswers: req.IncorrectAnswers,
			QuestionTopic:    req.QuestionTopic,
			QuestionSource:   req.QuestionSource,
			AnswerSource:     req.AnswerSource,
			Language:         req.Language,
			Tags:             req.Tags,
			MediaURL:         req.MediaURL,
			AddedBy:          claims.Username,
			FastTrack:        claims.Role == models.RoleAdmin,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, q)
	}
}

// NewGetQuestionHandler returns an HTTP handler fetching one question.
// @Summary Get a question by id
// @Tags questions
// @Produce json
// @Param id path string true "Question id"
// @Success 200 {object} models.Question
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Security BearerAuth
// @Router /questions/{id} [get]
func NewGetQuestionHandler(svc QuestionGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// NewListQuestionsHandler returns an HTTP handler listing questions.
// Query parameters become exact-match filters; tags is comma-separated
// and matches questions carrying at least one of the given tags.
// @Summary List questions
// @Tags questions
// @Produce json
// @Param review_status query string false "Filter by review status"
// @Param language query string false "Filter by language"
// @Param question_topic query string false "Filter by topic"
// @Param added_by query string false "Filter by author"
// @Param tags query string false "Comma-separated tags, any-of match"
// @Success 200 {array} models.Question
// @Security BearerAuth
// @Router /questions [get]
func NewListQuestionsHandler(svc QuestionLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs, err := svc.List(r.Context(), filtersFromQuery(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if qs == nil {
			qs = []models.Question{}
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

// UpdateQuestionRequest carries a partial update: only the fields present
// in the body are touched.
// swagger:model UpdateQuestionRequest
type UpdateQuestionRequest map[string]any

// NewUpdateQuestionHandler returns an HTTP handler for partial updates.
// Every accepted update appends one entry to the question's revision
// history attributed to the caller.
// @Summary Update a question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Question id"
// @Param updateQuestionRequest body handlers.UpdateQuestionRequest true "Fields to change"
// @Success 200 {object} models.Question "Updated question"
// @Failure 400 {object} handlers.ErrorResponse "Invalid or protected field"
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Security BearerAuth
// @Router /questions/{id} [patch]
func NewUpdateQuestionHandler(svc QuestionUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middlewares.ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var updates UpdateQuestionRequest
		if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(updates) == 0 {
			writeError(w, http.StatusBadRequest, "no fields to update")
			return
		}

		q, err := svc.Update(r.Context(), chi.URLParam(r, "id"), updates, claims.Username)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// NewDeleteQuestionHandler returns an HTTP handler for question deletion.
// @Summary Delete a question
// @Tags questions
// @Produce json
// @Param id path string true "Question id"
// @Success 204 "Deleted"
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Security BearerAuth
// @Router /questions/{id} [delete]
func NewDeleteQuestionHandler(svc QuestionDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := svc.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !deleted {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// filtersFromQuery builds a repository filter map from whitelisted query
// parameters.
func filtersFromQuery(r *http.Request) map[string]any {
	filters := make(map[string]any)
	for _, key := range []string{"review_status", "language", "question_topic", "added_by"} {
		if v := r.URL.Query().Get(key); v != "" {
			filters[key] = v
		}
	}
	if tags := r.URL.Query().Get("tags"); tags != "" {
		var list []string
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				list = append(list, t)
			}
		}
		if len(list) > 0 {
			filters["tags"] = list
		}
	}
	return filters
}
