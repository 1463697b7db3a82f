package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chrisvdg/trivia-backend/internal/models"
	"github.com/chrisvdg/trivia-backend/internal/storage"
	"github.com/chrisvdg/trivia-backend/internal/validate"
)

func newQuestion(id, status string, tags ...string) *models.Question {
	return &models.Question{
		QuestionID:    id,
		Question:      "What is the capital of France?",
		Answer:        "Paris",
		Tags:          tags,
		ReviewStatus:  status,
		AddedBy:       "alice",
		AddedAt:       time.Now().UTC(),
		LastUpdatedAt: time.Now().UTC(),
	}
}

func TestQuestionRepository_CreateGet(t *testing.T) {
	repo := NewQuestionRepository(storage.NewMemoryStore())
	ctx := context.Background()

	q := newQuestion("q1", models.ReviewPending)
	assert.NoError(t, repo.Create(ctx, q))

	got, err := repo.Get(ctx, "q1")
	assert.NoError(t, err)
	assert.Equal(t, "q1", got.QuestionID)
	assert.Equal(t, models.ReviewPending, got.ReviewStatus)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestQuestionRepository_ListFilters(t *testing.T) {
	repo := NewQuestionRepository(storage.NewMemoryStore())
	ctx := context.Background()

	q1 := newQuestion("q1", models.ReviewApproved, "history", "europe")
	q1.Language = "english"
	q2 := newQuestion("q2", models.ReviewPending, "science")
	q2.Language = "english"
	q3 := newQuestion("q3", models.ReviewApproved, "history")
	q3.Language = "spanish"

	for _, q := range []*models.Question{q1, q2, q3} {
		assert.NoError(t, repo.Create(ctx, q))
	}

	tests := []struct {
		name    string
		filters map[string]any
		wantIDs []string
	}{
		{"no filters returns all", nil, []string{"q1", "q2", "q3"}},
		{"by review status", map[string]any{"review_status": "approved"}, []string{"q1", "q3"}},
		{"by language", map[string]any{"language": "spanish"}, []string{"q3"}},
		{"tags any-of match", map[string]any{"tags": []string{"science", "geography"}}, []string{"q2"}},
		{"tags intersect across questions", map[string]any{"tags": []string{"history"}}, []string{"q1", "q3"}},
		{"conjunction of constraints", map[string]any{"review_status": "approved", "language": "english"}, []string{"q1"}},
		{"no match", map[string]any{"language": "french"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filters)
			assert.NoError(t, err)

			var ids []string
			for _, q := range got {
				ids = append(ids, q.QuestionID)
			}
			assert.ElementsMatch(t, tt.wantIDs, ids)
		})
	}
}

func TestQuestionRepository_PartialUpdate(t *testing.T) {
	repo := NewQuestionRepository(storage.NewMemoryStore())
	ctx := context.Background()

	q := newQuestion("q1", models.ReviewPending)
	assert.NoError(t, repo.Create(ctx, q))
	before := q.LastUpdatedAt

	updated, err := repo.PartialUpdate(ctx, "q1", map[string]any{"answer": "Lyon"}, "bob")
	assert.NoError(t, err)

	// Only the named field changed.
	assert.Equal(t, "Lyon", updated.Answer)
	assert.Equal(t, q.Question, updated.Question)
	assert.Equal(t, "alice", updated.AddedBy)

	// One revision record appended, bookkeeping refreshed.
	assert.Len(t, updated.UpdateHistory, 1)
	assert.Equal(t, "bob", updated.UpdateHistory[0].UpdatedBy)
	assert.Equal(t, "Lyon", updated.UpdateHistory[0].Changes["answer"])
	assert.True(t, updated.LastUpdatedAt.After(before))
}

func TestQuestionRepository_PartialUpdateIdempotentValuesGrowingHistory(t *testing.T) {
	repo := NewQuestionRepository(storage.NewMemoryStore())
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, newQuestion("q1", models.ReviewPending)))

	first, err := repo.PartialUpdate(ctx, "q1", map[string]any{"answer": "Lyon"}, "bob")
	assert.NoError(t, err)
	second, err := repo.PartialUpdate(ctx, "q1", map[string]any{"answer": "Lyon"}, "bob")
	assert.NoError(t, err)

	// Field values converge while the history grows monotonically.
	assert.Equal(t, first.Answer, second.Answer)
	assert.Len(t, first.UpdateHistory, 1)
	assert.Len(t, second.UpdateHistory, 2)
	assert.Equal(t, first.UpdateHistory[0].Changes, second.UpdateHistory[1].Changes)
}

func TestQuestionRepository_PartialUpdateProtectedFields(t *testing.T) {
	repo := NewQuestionRepository(storage.NewMemoryStore())
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, newQuestion("q1", models.ReviewPending)))

	for _, field := range []string{"question_id", "update_history", "last_updated_at", "added_by", "added_at"} {
		t.Run(field, func(t *testing.T) {
			_, err := repo.PartialUpdate(ctx, "q1", map[string]any{field: "tampered"}, "mallory")

			var verr *validate.ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.Equal(t, field, verr.Field)
		})
	}

	// Nothing was written.
	got, err := repo.Get(ctx, "q1")
	assert.NoError(t, err)
	assert.Empty(t, got.UpdateHistory)
}

func TestQuestionRepository_PartialUpdateMissing(t *testing.T) {
	repo := NewQuestionRepository(storage.NewMemoryStore())

	_, err := repo.PartialUpdate(context.Background(), "missing", map[string]any{"answer": "x"}, "bob")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestQuestionRepository_Delete(t *testing.T) {
	repo := NewQuestionRepository(storage.NewMemoryStore())
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, newQuestion("q1", models.ReviewPending)))

	deleted, err := repo.Delete(ctx, "q1")
	assert.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, "q1")
	assert.NoError(t, err)
	assert.False(t, deleted)
}
