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

func newUser(username, email string) *models.User {
	return &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Role:         models.RoleUser,
		SignedUpAt:   time.Now().UTC(),
	}
}

func TestUserRepository_CreateGet(t *testing.T) {
	repo := NewUserRepository(storage.NewMemoryStore())
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, newUser("alice", "alice@example.com")))

	got, err := repo.Get(ctx, "alice")
	assert.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.False(t, got.IsApproved)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	repo := NewUserRepository(storage.NewMemoryStore())
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, newUser("alice", "alice@example.com")))
	assert.NoError(t, repo.Create(ctx, newUser("bob", "bob@example.com")))

	got, err := repo.GetByEmail(ctx, "bob@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "bob", got.Username)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserRepository_PartialUpdate(t *testing.T) {
	repo := NewUserRepository(storage.NewMemoryStore())
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, newUser("alice", "alice@example.com")))

	updated, err := repo.PartialUpdate(ctx, "alice", map[string]any{
		"is_approved": true,
		"approved_by": "root",
	})
	assert.NoError(t, err)
	assert.True(t, updated.IsApproved)
	assert.Equal(t, "root", updated.ApprovedBy)
	assert.Equal(t, "alice@example.com", updated.Email)

	// The primary key is immutable.
	_, err = repo.PartialUpdate(ctx, "alice", map[string]any{"username": "mallory"})
	var verr *validate.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Field)
}

func TestUserRepository_Delete(t *testing.T) {
	repo := NewUserRepository(storage.NewMemoryStore())
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, newUser("alice", "alice@example.com")))

	deleted, err := repo.Delete(ctx, "alice")
	assert.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.Get(ctx, "alice")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
