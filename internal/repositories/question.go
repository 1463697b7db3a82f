package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chrisvdg/trivia-backend/internal/logger"
	"github.com/chrisvdg/trivia-backend/internal/models"
	"github.com/chrisvdg/trivia-backend/internal/storage"
	"github.com/chrisvdg/trivia-backend/internal/validate"
)

const questionPrefix = "question:"

func questionKey(id string) string {
	return questionPrefix + id
}

// Immutable question fields: the identifier never changes after creation,
// the history sequence is append-only, and the bookkeeping timestamps are
// owned by PartialUpdate itself.
var protectedQuestionFields = map[string]bool{
	"question_id":     true,
	"added_by":        true,
	"added_at":        true,
	"update_history":  true,
	"last_updated_at": true,
}

// QuestionRepository stores questions in a DocStore, keyed by id.
type QuestionRepository struct {
	store storage.DocStore
}

// NewQuestionRepository creates a QuestionRepository over the given store.
func NewQuestionRepository(store storage.DocStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

// Get fetches a question by id. Returns storage.ErrNotFound when absent.
func (r *QuestionRepository) Get(ctx context.Context, id string) (*models.Question, error) {
	doc, err := r.store.Get(ctx, questionKey(id))
	if err != nil {
		return nil, err
	}

	var q models.Question
	if err := json.Unmarshal(doc, &q); err != nil {
		return nil, fmt.Errorf("decode question %s: %w", id, err)
	}
	return &q, nil
}

// List scans all questions and keeps those matching every filter
// constraint. Filtering is applied in memory over the full scan.
func (r *QuestionRepository) List(ctx context.Context, filters map[string]any) ([]models.Question, error) {
	docs, err := r.store.Scan(ctx, questionPrefix)
	if err != nil {
		return nil, err
	}

	questions := make([]models.Question, 0, len(docs))
	for _, doc := range docs {
		if len(filters) > 0 {
			var raw map[string]any
			if err := json.Unmarshal(doc, &raw); err != nil {
				return nil, fmt.Errorf("decode question document: %w", err)
			}
			if !matchDoc(raw, filters) {
				continue
			}
		}

		var q models.Question
		if err := json.Unmarshal(doc, &q); err != nil {
			return nil, fmt.Errorf("decode question document: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// Create inserts a new question. Used only at creation time.
func (r *QuestionRepository) Create(ctx context.Context, q *models.Question) error {
	doc, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode question %s: %w", q.QuestionID, err)
	}
	return r.store.Put(ctx, questionKey(q.QuestionID), doc)
}

// PartialUpdate replaces only the named fields, appends one revision
// record to update_history and refreshes last_updated_at. Returns
// storage.ErrNotFound when the question does not exist.
func (r *QuestionRepository) PartialUpdate(ctx context.Context, id string, fields map[string]any, actor string) (*models.Question, error) {
	for field := range fields {
		if protectedQuestionFields[field] {
			return nil, &validate.ValidationError{Field: field, Reason: "cannot be updated"}
		}
	}

	next, err := r.store.Update(ctx, questionKey(id), func(current []byte) ([]byte, error) {
		var raw map[string]any
		if err := json.Unmarshal(current, &raw); err != nil {
			return nil, fmt.Errorf("decode question %s: %w", id, err)
		}

		for field, value := range fields {
			raw[field] = value
		}

		changes := make(map[string]any, len(fields))
		for field, value := range fields {
			changes[field] = value
		}
		record := models.RevisionRecord{
			Timestamp: time.Now().UTC(),
			Changes:   changes,
			UpdatedBy: actor,
		}

		history, _ := raw["update_history"].([]any)
		raw["update_history"] = append(history, record)
		raw["last_updated_at"] = record.Timestamp

		return json.Marshal(raw)
	})
	if err != nil {
		return nil, err
	}

	var q models.Question
	if err := json.Unmarshal(next, &q); err != nil {
		return nil, fmt.Errorf("decode question %s: %w", id, err)
	}

	logger.Log.Infow("question updated", "question_id", id, "fields", len(fields), "actor", actor)
	return &q, nil
}

// Delete removes a question. Reports whether it existed.
func (r *QuestionRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.store.Delete(ctx, questionKey(id))
}
