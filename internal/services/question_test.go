package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/chrisvdg/trivia-backend/internal/models"
	"github.com/chrisvdg/trivia-backend/internal/repositories"
	"github.com/chrisvdg/trivia-backend/internal/services"
	"github.com/chrisvdg/trivia-backend/internal/storage"
	"github.com/chrisvdg/trivia-backend/internal/validate"
)

// newQuestionService wires the service to real repositories over the
// in-memory store, the way the substitution-friendly design intends.
func newQuestionService() *services.QuestionService {
	repo := repositories.NewQuestionRepository(storage.NewMemoryStore())
	return services.NewQuestionService(repo, nil, nil)
}

func TestQuestionService_Create(t *testing.T) {
	svc := newQuestionService()
	ctx := context.Background()

	q, err := svc.Create(ctx, services.CreateQuestionInput{
		Question: "  What is the capital of France? ",
		Answer:   "Paris",
		Tags:     []string{" History ", "GEOGRAPHY"},
		Language: " English ",
		AddedBy:  "alice",
	})
	assert.NoError(t, err)

	assert.NotEmpty(t, q.QuestionID)
	assert.Equal(t, models.ReviewPending, q.ReviewStatus)
	assert.Equal(t, "What is the capital of France?", q.Question)
	assert.Equal(t, []string{"history", "geography"}, q.Tags)
	assert.Equal(t, "english", q.Language)
}

func TestQuestionService_CreateFastTrack(t *testing.T) {
	svc := newQuestionService()

	q, err := svc.Create(context.Background(), services.CreateQuestionInput{
		Question:  "What is 2+2?",
		Answer:    "4",
		AddedBy:   "root",
		FastTrack: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, q.ReviewStatus)
}

func TestQuestionService_CreateValidation(t *testing.T) {
	svc := newQuestionService()

	tests := []struct {
		name      string
		input     services.CreateQuestionInput
		wantField string
	}{
		{"missing question", services.CreateQuestionInput{Answer: "4", AddedBy: "alice"}, "question"},
		{"missing answer", services.CreateQuestionInput{Question: "What?", AddedBy: "alice"}, "answer"},
		{"missing creator", services.CreateQuestionInput{Question: "What?", Answer: "4"}, "added_by"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.input)

			var verr *validate.ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestQuestionService_UpdateSanitizes(t *testing.T) {
	svc := newQuestionService()
	ctx := context.Background()

	q, err := svc.Create(ctx, services.CreateQuestionInput{
		Question: "What?", Answer: "This", AddedBy: "alice",
	})
	assert.NoError(t, err)

	updated, err := svc.Update(ctx, q.QuestionID, map[string]any{
		"answer": "That<script>alert(1)</script> ",
		"tags":   []string{" Music ", ""},
	}, "bob")
	assert.NoError(t, err)
	assert.Equal(t, "That", updated.Answer)
	assert.Equal(t, []string{"music"}, updated.Tags)
	assert.Len(t, updated.UpdateHistory, 1)
}

func TestQuestionService_UpdateNormalizesDecodedLists(t *testing.T) {
	svc := newQuestionService()
	ctx := context.Background()

	q, err := svc.Create(ctx, services.CreateQuestionInput{
		Question: "What?", Answer: "This", AddedBy: "alice",
	})
	assert.NoError(t, err)

	// Decode the body the way the PATCH handler does: JSON arrays arrive
	// as []any, not []string.
	var updates map[string]any
	body := `{"tags": [" Music ", "", "<script>x</script>History"], "incorrect_answers": [" That <script>alert(1)</script>"]}`
	assert.NoError(t, json.Unmarshal([]byte(body), &updates))

	updated, err := svc.Update(ctx, q.QuestionID, updates, "bob")
	assert.NoError(t, err)
	assert.Equal(t, []string{"music", "history"}, updated.Tags)
	assert.Equal(t, []string{"That"}, updated.IncorrectAnswers)

	// The normalized tag must be visible to tag filters.
	matches, err := svc.List(ctx, map[string]any{"tags": []string{"music"}})
	assert.NoError(t, err)
	assert.Len(t, matches, 1)

	// Mixed-type arrays are rejected, not persisted verbatim.
	assert.NoError(t, json.Unmarshal([]byte(`{"tags": ["music", 42]}`), &updates))
	_, err = svc.Update(ctx, q.QuestionID, updates, "bob")
	var verr *validate.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "tags", verr.Field)
}

func TestQuestionService_UpdateRejectsBadValues(t *testing.T) {
	svc := newQuestionService()
	ctx := context.Background()

	q, err := svc.Create(ctx, services.CreateQuestionInput{
		Question: "What?", Answer: "This", AddedBy: "alice",
	})
	assert.NoError(t, err)

	_, err = svc.Update(ctx, q.QuestionID, map[string]any{"review_status": "published"}, "bob")
	var verr *validate.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "review_status", verr.Field)

	_, err = svc.Update(ctx, q.QuestionID, map[string]any{"times_asked": float64(-1)}, "bob")
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "times_asked", verr.Field)
}

func TestQuestionService_ReviewTransitions(t *testing.T) {
	svc := newQuestionService()
	ctx := context.Background()

	q, err := svc.Create(ctx, services.CreateQuestionInput{
		Question: "What?", Answer: "This", AddedBy: "alice",
	})
	assert.NoError(t, err)

	// Both edges are legal from any state and fully reversible.
	steps := []struct {
		action string
		want   string
	}{
		{"approve", models.ReviewApproved},
		{"reject", models.ReviewRejected},
		{"approve", models.ReviewApproved},
	}

	for i, step := range steps {
		got, err := svc.Review(ctx, q.QuestionID, step.action, "moderator")
		assert.NoError(t, err)
		assert.Equal(t, step.want, got.ReviewStatus)
		// Transitions go through the audited update path.
		assert.Len(t, got.UpdateHistory, i+1)
	}
}

func TestQuestionService_ReviewUnknownAction(t *testing.T) {
	svc := newQuestionService()

	_, err := svc.Review(context.Background(), "whatever", "archive", "moderator")
	assert.ErrorIs(t, err, services.ErrUnknownAction)
}

func TestQuestionService_ReviewPublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repositories.NewQuestionRepository(storage.NewMemoryStore())
	mockEvents := services.NewMockReviewPublisher(ctrl)
	svc := services.NewQuestionService(repo, nil, mockEvents)
	ctx := context.Background()

	q, err := svc.Create(ctx, services.CreateQuestionInput{
		Question: "What?", Answer: "This", AddedBy: "alice",
	})
	assert.NoError(t, err)

	mockEvents.EXPECT().
		PublishReview(gomock.Any(), q.QuestionID, models.ReviewApproved, "moderator").
		Return(nil)

	_, err = svc.Review(ctx, q.QuestionID, "approve", "moderator")
	assert.NoError(t, err)

	// A failing publisher never fails the transition.
	mockEvents.EXPECT().
		PublishReview(gomock.Any(), q.QuestionID, models.ReviewRejected, "moderator").
		Return(errors.New("broker down"))

	got, err := svc.Review(ctx, q.QuestionID, "reject", "moderator")
	assert.NoError(t, err)
	assert.Equal(t, models.ReviewRejected, got.ReviewStatus)
}

func TestQuestionService_RecordAnswer(t *testing.T) {
	svc := newQuestionService()
	ctx := context.Background()

	q, err := svc.Create(ctx, services.CreateQuestionInput{
		Question: "What?", Answer: "This", AddedBy: "alice",
	})
	assert.NoError(t, err)

	got, err := svc.RecordAnswer(ctx, q.QuestionID, true, "player1")
	assert.NoError(t, err)
	assert.Equal(t, 1, got.TimesAsked)
	assert.Equal(t, 1, got.TimesCorrect)
	assert.Equal(t, 0, got.TimesIncorrect)

	got, err = svc.RecordAnswer(ctx, q.QuestionID, false, "player2")
	assert.NoError(t, err)
	assert.Equal(t, 2, got.TimesAsked)
	assert.Equal(t, 1, got.TimesCorrect)
	assert.Equal(t, 1, got.TimesIncorrect)
}

func TestQuestionService_DeleteCleansUpMedia(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repositories.NewQuestionRepository(storage.NewMemoryStore())
	mockMedia := services.NewMockMediaDeleter(ctrl)
	svc := services.NewQuestionService(repo, mockMedia, nil)
	ctx := context.Background()

	q, err := svc.Create(ctx, services.CreateQuestionInput{
		Question: "What?", Answer: "This", AddedBy: "alice",
		MediaURL: "https://media.example.com/clip.mp3",
	})
	assert.NoError(t, err)

	// Media cleanup failing must not fail the deletion.
	mockMedia.EXPECT().
		Delete(gomock.Any(), "https://media.example.com/clip.mp3").
		Return(errors.New("bucket unavailable"))

	deleted, err := svc.Delete(ctx, q.QuestionID)
	assert.NoError(t, err)
	assert.True(t, deleted)

	_, err = svc.Get(ctx, q.QuestionID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestQuestionService_DeleteMissing(t *testing.T) {
	svc := newQuestionService()

	_, err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
