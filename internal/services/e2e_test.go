package services_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/chrisvdg/trivia-backend/internal/models"
	"github.com/chrisvdg/trivia-backend/internal/repositories"
	"github.com/chrisvdg/trivia-backend/internal/services"
	"github.com/chrisvdg/trivia-backend/internal/storage"
)

// The moderation scenarios exercised here run against a single shared
// in-memory store, the same wiring shape as production with the backends
// swapped out.
func TestModerationScenarios(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := storage.NewMemoryStore()
	questions := services.NewQuestionService(repositories.NewQuestionRepository(store), nil, nil)

	mockTokens := services.NewMockTokenIssuer(ctrl)
	users := services.NewUserService(repositories.NewUserRepository(store), mockTokens, "ABC123")

	ctx := context.Background()

	// Scenario A: a non-privileged creation lands in pending and stays
	// invisible to the sampler.
	q1, err := questions.Create(ctx, services.CreateQuestionInput{
		Question: "Who painted the Mona Lisa?",
		Answer:   "Leonardo da Vinci",
		AddedBy:  "bob",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.ReviewPending, q1.ReviewStatus)

	_, err = questions.Sample(ctx, nil, nil)
	assert.ErrorIs(t, err, services.ErrNoUnseenQuestions)

	// Scenario B: a privileged creation is approved immediately and is
	// always the sampled question while Q1 remains pending.
	q2, err := questions.Create(ctx, services.CreateQuestionInput{
		Question:  "What is the speed of light?",
		Answer:    "299792458 m/s",
		AddedBy:   "root",
		FastTrack: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, q2.ReviewStatus)

	for i := 0; i < 10; i++ {
		got, err := questions.Sample(ctx, nil, nil)
		assert.NoError(t, err)
		assert.Equal(t, q2.QuestionID, got.QuestionID)
	}

	// Scenario C: with Q2 in the seen-set, the pool {Q1 pending, Q2 seen}
	// qualifies nothing.
	_, err = questions.Sample(ctx, []string{q2.QuestionID}, nil)
	assert.ErrorIs(t, err, services.ErrNoUnseenQuestions)

	// Once Q1 is approved it becomes sampleable.
	_, err = questions.Review(ctx, q1.QuestionID, "approve", "root")
	assert.NoError(t, err)

	got, err := questions.Sample(ctx, []string{q2.QuestionID}, nil)
	assert.NoError(t, err)
	assert.Equal(t, q1.QuestionID, got.QuestionID)

	// Scenario D: signup with the correct referral code creates an
	// unapproved account; a correct-password login reports approval
	// pending rather than invalid credentials.
	bob, err := users.Signup(ctx, services.SignupInput{
		Username:     "bob",
		Email:        "bob@example.com",
		Password:     "password123",
		ReferralCode: "ABC123",
	})
	assert.NoError(t, err)
	assert.False(t, bob.IsApproved)

	_, err = users.Authenticate(ctx, "bob", "password123", "10.0.0.1")
	assert.ErrorIs(t, err, services.ErrApprovalRequired)
	assert.NotErrorIs(t, err, services.ErrInvalidCredentials)

	// After admin approval the same credentials log in.
	_, err = users.Apply(ctx, "bob", services.ActionApprove, "root")
	assert.NoError(t, err)

	mockTokens.EXPECT().
		Generate(gomock.Any(), "bob", models.RoleUser).
		Return("token123", nil)

	token, err := users.Authenticate(ctx, "bob", "password123", "10.0.0.1")
	assert.NoError(t, err)
	assert.Equal(t, "token123", token)

	// The login stamped its origin.
	stored, err := users.Get(ctx, "bob")
	assert.NoError(t, err)
	assert.Equal(t, "10.0.0.1", stored.LastLoginIP)
	assert.False(t, stored.LastLoginAt.IsZero())
}
