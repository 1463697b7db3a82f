package services

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/chrisvdg/trivia-backend/internal/logger"
	"github.com/chrisvdg/trivia-backend/internal/models"
	"github.com/chrisvdg/trivia-backend/internal/validate"
)

// Free-text fields are capped at the same loose limit the signup form uses.
const maxTextLen = 1000

// QuestionStore defines the repository operations the service needs.
type QuestionStore interface {
	Get(ctx context.Context, id string) (*models.Question, error)
	List(ctx context.Context, filters map[string]any) ([]models.Question, error)
	Create(ctx context.Context, q *models.Question) error
	PartialUpdate(ctx context.Context, id string, fields map[string]any, actor string) (*models.Question, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// MediaDeleter removes a stored media object by its URL handle.
type MediaDeleter interface {
	Delete(ctx context.Context, mediaURL string) error
}

// ReviewPublisher emits a review-transition event for downstream consumers.
type ReviewPublisher interface {
	PublishReview(ctx context.Context, questionID, status, actor string) error
}

// QuestionService owns the question lifecycle: creation with fast-track,
// audited partial updates, review transitions, deletion with best-effort
// media cleanup, and filtered random sampling.
type QuestionService struct {
	questions QuestionStore
	media     MediaDeleter
	events    ReviewPublisher
}

// NewQuestionService creates a QuestionService. media and events may be nil
// when no blob store or event stream is configured.
func NewQuestionService(questions QuestionStore, media MediaDeleter, events ReviewPublisher) *QuestionService {
	return &QuestionService{
		questions: questions,
		media:     media,
		events:    events,
	}
}

// CreateQuestionInput carries the raw fields for a new question.
type CreateQuestionInput struct {
	Question         string
	Answer           string
	IncorrectAnswers []string
	QuestionTopic    string
	QuestionSource   string
	AnswerSource     string
	Language         string
	Tags             []string
	MediaURL         string
	AddedBy          string
	// FastTrack skips the pending review state. Set only for privileged
	// creators.
	FastTrack bool
}

// Create validates and normalizes the input, then stores a new question.
// Non-privileged creators get review_status=pending; fast-track creates
// the question approved with no review step.
func (svc *QuestionService) Create(ctx context.Context, in CreateQuestionInput) (*models.Question, error) {
	if err := validate.Fields(
		validate.Field("question", in.Question, validate.Required, validate.LooseText(maxTextLen)),
		validate.Field("answer", in.Answer, validate.Required, validate.LooseText(maxTextLen)),
		validate.Field("added_by", in.AddedBy, validate.Required),
		validate.Field("question_topic", in.QuestionTopic, validate.LooseText(maxTextLen)),
		validate.Field("question_source", in.QuestionSource, validate.LooseText(maxTextLen)),
		validate.Field("answer_source", in.AnswerSource, validate.LooseText(maxTextLen)),
	); err != nil {
		return nil, err
	}

	status := models.ReviewPending
	if in.FastTrack {
		status = models.ReviewApproved
	}

	now := time.Now().UTC()
	q := &models.Question{
		QuestionID:       uuid.New().String(),
		Question:         validate.Sanitize(in.Question),
		Answer:           validate.Sanitize(in.Answer),
		IncorrectAnswers: validate.SanitizeList(in.IncorrectAnswers),
		QuestionTopic:    validate.Sanitize(in.QuestionTopic),
		QuestionSource:   validate.Sanitize(in.QuestionSource),
		AnswerSource:     validate.Sanitize(in.AnswerSource),
		Language:         validate.NormalizeLanguage(in.Language),
		Tags:             validate.NormalizeTags(in.Tags),
		MediaURL:         validate.Sanitize(in.MediaURL),
		ReviewStatus:     status,
		AddedBy:          validate.Sanitize(in.AddedBy),
		AddedAt:          now,
		LastUpdatedAt:    now,
	}

	if err := svc.questions.Create(ctx, q); err != nil {
		logger.Log.Errorw("failed to create question", "err", err)
		return nil, err
	}

	logger.Log.Infow("question created",
		"question_id", q.QuestionID,
		"review_status", q.ReviewStatus,
		"added_by", q.AddedBy,
	)
	return q, nil
}

// Get fetches a question by id.
func (svc *QuestionService) Get(ctx context.Context, id string) (*models.Question, error) {
	return svc.questions.Get(ctx, id)
}

// List fetches questions matching the given filters.
func (svc *QuestionService) List(ctx context.Context, filters map[string]any) ([]models.Question, error) {
	return svc.questions.List(ctx, filters)
}

// Update applies a partial update after sanitizing and normalizing the
// incoming values. Each accepted update appends one revision record.
func (svc *QuestionService) Update(ctx context.Context, id string, updates map[string]any, actor string) (*models.Question, error) {
	cleaned := make(map[string]any, len(updates))
	for field, value := range updates {
		switch v := value.(type) {
		case string:
			switch field {
			case "language":
				cleaned[field] = validate.NormalizeLanguage(v)
			case "review_status":
				if err := validReviewStatus(v); err != nil {
					return nil, err
				}
				cleaned[field] = v
			default:
				if err := validate.Field(field, v, validate.LooseText(maxTextLen)); err != nil {
					return nil, err
				}
				cleaned[field] = validate.Sanitize(v)
			}
		case []string:
			cleaned[field] = cleanList(field, v)
		case []any:
			// JSON-decoded bodies carry arrays as []any.
			list := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, &validate.ValidationError{Field: field, Reason: "must be a list of strings"}
				}
				list = append(list, s)
			}
			cleaned[field] = cleanList(field, list)
		case float64:
			// Usage counters arrive as JSON numbers.
			if isCounterField(field) && v < 0 {
				return nil, &validate.ValidationError{Field: field, Reason: "must not be negative"}
			}
			cleaned[field] = value
		default:
			cleaned[field] = value
		}
	}

	return svc.questions.PartialUpdate(ctx, id, cleaned, actor)
}

// Review applies a moderation action to a question. Both actions are legal
// from any current state and unconditionally set the target state. The
// transition goes through the audited update path, so it appends a
// revision record like any other mutation.
func (svc *QuestionService) Review(ctx context.Context, id, action, actor string) (*models.Question, error) {
	var status string
	switch action {
	case "approve":
		status = models.ReviewApproved
	case "reject":
		status = models.ReviewRejected
	default:
		return nil, ErrUnknownAction
	}

	q, err := svc.questions.PartialUpdate(ctx, id, map[string]any{"review_status": status}, actor)
	if err != nil {
		return nil, err
	}

	if svc.events != nil {
		// Best-effort: a dropped event never fails the transition.
		if err := svc.events.PublishReview(ctx, id, status, actor); err != nil {
			logger.Log.Errorw("failed to publish review event", "question_id", id, "err", err)
		}
	}

	return q, nil
}

// RecordAnswer bumps the usage counters after a player answers.
func (svc *QuestionService) RecordAnswer(ctx context.Context, id string, correct bool, actor string) (*models.Question, error) {
	q, err := svc.questions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"times_asked": q.TimesAsked + 1}
	if correct {
		fields["times_correct"] = q.TimesCorrect + 1
	} else {
		fields["times_incorrect"] = q.TimesIncorrect + 1
	}

	return svc.questions.PartialUpdate(ctx, id, fields, actor)
}

// Delete removes a question and, best-effort, its media object. A failed
// media delete is logged but never fails the question deletion.
func (svc *QuestionService) Delete(ctx context.Context, id string) (bool, error) {
	q, err := svc.questions.Get(ctx, id)
	if err != nil {
		return false, err
	}

	deleted, err := svc.questions.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}

	if q.MediaURL != "" && svc.media != nil {
		if err := svc.media.Delete(ctx, q.MediaURL); err != nil {
			logger.Log.Errorw("failed to delete question media",
				"question_id", id,
				"media_url", q.MediaURL,
				"err", err,
			)
		}
	}

	logger.Log.Infow("question deleted", "question_id", id)
	return true, nil
}

// Sample picks one approved question uniformly at random among those not
// in seenIDs and matching the filters. The sampler is stateless: the
// caller owns the seen-set and threads it between calls. Returns
// ErrNoUnseenQuestions when the qualifying set is empty.
func (svc *QuestionService) Sample(ctx context.Context, seenIDs []string, filters map[string]any) (*models.Question, error) {
	merged := make(map[string]any, len(filters)+1)
	for k, v := range filters {
		merged[k] = v
	}
	merged["review_status"] = models.ReviewApproved

	candidates, err := svc.questions.List(ctx, merged)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(seenIDs))
	for _, id := range seenIDs {
		seen[id] = true
	}

	qualifying := candidates[:0]
	for _, q := range candidates {
		if !seen[q.QuestionID] {
			qualifying = append(qualifying, q)
		}
	}

	if len(qualifying) == 0 {
		return nil, ErrNoUnseenQuestions
	}

	q := qualifying[rand.IntN(len(qualifying))]
	return &q, nil
}

func validReviewStatus(status string) error {
	switch status {
	case models.ReviewPending, models.ReviewApproved, models.ReviewRejected:
		return nil
	}
	return &validate.ValidationError{Field: "review_status", Reason: "must be pending, approved or rejected"}
}

func cleanList(field string, values []string) []string {
	if field == "tags" {
		return validate.NormalizeTags(values)
	}
	return validate.SanitizeList(values)
}

func isCounterField(field string) bool {
	switch field {
	case "times_asked", "times_correct", "times_incorrect":
		return true
	}
	return false
}
