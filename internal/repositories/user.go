package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chrisvdg/trivia-backend/internal/logger"
	"github.com/chrisvdg/trivia-backend/internal/models"
	"github.com/chrisvdg/trivia-backend/internal/storage"
	"github.com/chrisvdg/trivia-backend/internal/validate"
)

const userPrefix = "user:"

func userKey(username string) string {
	return userPrefix + username
}

// The username is the primary key and never changes.
var protectedUserFields = map[string]bool{
	"username":     true,
	"signed_up_at": true,
}

// UserRepository stores users in a DocStore, keyed by username.
// User mutations keep no revision history.
type UserRepository struct {
	store storage.DocStore
}

// NewUserRepository creates a UserRepository over the given store.
func NewUserRepository(store storage.DocStore) *UserRepository {
	return &UserRepository{store: store}
}

// Get fetches a user by username. Returns storage.ErrNotFound when absent.
func (r *UserRepository) Get(ctx context.Context, username string) (*models.User, error) {
	doc, err := r.store.Get(ctx, userKey(username))
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := json.Unmarshal(doc, &u); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", username, err)
	}
	return &u, nil
}

// GetByEmail scans users for a matching email. Returns storage.ErrNotFound
// when no user has the address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.List(ctx, map[string]any{"email": email})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, storage.ErrNotFound
	}
	return &users[0], nil
}

// List scans all users and keeps those matching every filter constraint.
func (r *UserRepository) List(ctx context.Context, filters map[string]any) ([]models.User, error) {
	docs, err := r.store.Scan(ctx, userPrefix)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		if len(filters) > 0 {
			var raw map[string]any
			if err := json.Unmarshal(doc, &raw); err != nil {
				return nil, fmt.Errorf("decode user document: %w", err)
			}
			if !matchDoc(raw, filters) {
				continue
			}
		}

		var u models.User
		if err := json.Unmarshal(doc, &u); err != nil {
			return nil, fmt.Errorf("decode user document: %w", err)
		}
		users = append(users, u)
	}
	return users, nil
}

// Create inserts a new user. Used only at signup.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	doc, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user %s: %w", u.Username, err)
	}
	return r.store.Put(ctx, userKey(u.Username), doc)
}

// PartialUpdate replaces only the named fields of a user record.
func (r *UserRepository) PartialUpdate(ctx context.Context, username string, fields map[string]any) (*models.User, error) {
	for field := range fields {
		if protectedUserFields[field] {
			return nil, &validate.ValidationError{Field: field, Reason: "cannot be updated"}
		}
	}

	next, err := r.store.Update(ctx, userKey(username), func(current []byte) ([]byte, error) {
		var raw map[string]any
		if err := json.Unmarshal(current, &raw); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", username, err)
		}

		for field, value := range fields {
			raw[field] = value
		}
		return json.Marshal(raw)
	})
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := json.Unmarshal(next, &u); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", username, err)
	}

	logger.Log.Infow("user updated", "username", username, "fields", len(fields))
	return &u, nil
}

// Delete removes a user. Reports whether it existed.
func (r *UserRepository) Delete(ctx context.Context, username string) (bool, error) {
	return r.store.Delete(ctx, userKey(username))
}
