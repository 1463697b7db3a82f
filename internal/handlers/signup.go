package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/chrisvdg/trivia-backend/internal/models"
	"github.com/chrisvdg/trivia-backend/internal/services"
)

// Signuper defines the interface that the service must implement.
type Signuper interface {
	Signup(ctx context.Context, in services.SignupInput) (*models.User, error)
}

// SignupRequest represents the JSON body for account signup.
// swagger:model SignupRequest
type SignupRequest struct {
	// Username
	// required: true
	// default: john_doe
	Username string `json:"username"`

	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password"`

	// Referral code handed out by an existing member
	// required: true
	// default: ABC123
	ReferralCode string `json:"referral_code"`
}

// SignupResponse represents a successful signup response.
// swagger:model SignupResponse
type SignupResponse struct {
	// Success message
	// default: User registered, pending approval
	Message string `json:"message"`

	Username string `json:"username"`
}

// NewSignupHandler returns an HTTP handler for account signup.
// @Summary Sign up a new user
// @Description Creates an unapproved account gated by a referral code. An admin must approve the account before login succeeds.
// @Tags auth
// @Accept json
// @Produce json
// @Param signupRequest body handlers.SignupRequest true "Signup request"
// @Success 201 {object} handlers.SignupResponse "Account created, pending approval"
// @Failure 400 {object} handlers.ErrorResponse "Invalid field"
// @Failure 409 {object} handlers.ErrorResponse "Username or email already exists"
// @Router /signup [post]
func NewSignupHandler(svc Signuper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		u, err := svc.Signup(r.Context(), services.SignupInput{
			Username:     req.Username,
			Email:        req.Email,
			Password:     req.Password,
			ReferralCode: req.ReferralCode,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, SignupResponse{
			Message:  "User registered, pending approval",
			Username: u.Username,
		})
	}
}
