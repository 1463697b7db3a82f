package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chrisvdg/trivia-backend/internal/middlewares"
	"github.com/chrisvdg/trivia-backend/internal/models"
)

// UserGetter defines the interface that the service must implement.
type UserGetter interface {
	Get(ctx context.Context, username string) (*models.User, error)
}

// UserLister defines the interface that the service must implement.
type UserLister interface {
	List(ctx context.Context, filters map[string]any) ([]models.User, error)
}

// UserActor defines the interface that the service must implement.
type UserActor interface {
	Apply(ctx context.Context, username, action, actingAdmin string) (*models.User, error)
}

// PasswordUpdater defines the interface that the service must implement.
type PasswordUpdater interface {
	UpdatePassword(ctx context.Context, username, newPassword string) error
}

// UserResponse is the user record as exposed over the API. The password
// hash never leaves the service layer.
// swagger:model UserResponse
type UserResponse struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	IsVerified   bool   `json:"is_verified"`
	IsApproved   bool   `json:"is_approved"`
	SignedUpAt   string `json:"signed_up_at"`
	LastLoginAt  string `json:"last_login_at,omitempty"`
	LastLoginIP  string `json:"last_login_ip,omitempty"`
	ReferralCode string `json:"referral_code,omitempty"`
	ApprovedAt   string `json:"approved_at,omitempty"`
	ApprovedBy   string `json:"approved_by,omitempty"`
}

func toUserResponse(u *models.User) UserResponse {
	resp := UserResponse{
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		IsVerified:   u.IsVerified,
		IsApproved:   u.IsApproved,
		SignedUpAt:   u.SignedUpAt.Format("2006-01-02T15:04:05Z07:00"),
		LastLoginIP:  u.LastLoginIP,
		ReferralCode: u.ReferralCode,
		ApprovedBy:   u.ApprovedBy,
	}
	if !u.LastLoginAt.IsZero() {
		resp.LastLoginAt = u.LastLoginAt.Format("2006-01-02T15:04:05Z07:00")
	}
	if !u.ApprovedAt.IsZero() {
		resp.ApprovedAt = u.ApprovedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// NewListUsersHandler returns an HTTP handler listing user accounts.
// Admin only.
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} handlers.UserResponse
// @Failure 403 {object} handlers.ErrorResponse "Admin required"
// @Security BearerAuth
// @Router /users [get]
func NewListUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.List(r.Context(), nil)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := make([]UserResponse, 0, len(users))
		for i := range users {
			resp = append(resp, toUserResponse(&users[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// NewGetUserHandler returns an HTTP handler fetching one user account.
// Admin only.
// @Summary Get a user
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} handlers.UserResponse
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Security BearerAuth
// @Router /users/{username} [get]
func NewGetUserHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.Get(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

// UserActionRequest represents the JSON body for an admin account action.
// swagger:model UserActionRequest
type UserActionRequest struct {
	// One of approve, reject, make_admin, delete
	// required: true
	// default: approve
	Action string `json:"action"`
}

// NewUserActionHandler returns an HTTP handler applying admin actions to
// an account: approve, reject, make_admin or delete.
// @Summary Apply an admin action to a user
// @Tags users
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Param userActionRequest body handlers.UserActionRequest true "Action"
// @Success 200 {object} handlers.UserResponse "Updated user"
// @Success 204 "User deleted"
// @Failure 400 {object} handlers.ErrorResponse "Unknown action"
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Security BearerAuth
// @Router /users/{username} [post]
func NewUserActionHandler(svc UserActor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middlewares.ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req UserActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		u, err := svc.Apply(r.Context(), chi.URLParam(r, "username"), req.Action, claims.Username)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if u == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

// NewMeHandler returns an HTTP handler for the caller's own account.
// @Summary Get the current user
// @Tags users
// @Produce json
// @Success 200 {object} handlers.UserResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /me [get]
func NewMeHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middlewares.ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		u, err := svc.Get(r.Context(), claims.Username)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

// UpdatePasswordRequest represents the JSON body for a password change.
// swagger:model UpdatePasswordRequest
type UpdatePasswordRequest struct {
	// New password
	// required: true
	Password string `json:"password"`
}

// NewUpdatePasswordHandler returns an HTTP handler for the caller's
// password change, the only self-service profile mutation.
// @Summary Change the current user's password
// @Tags users
// @Accept json
// @Produce json
// @Param updatePasswordRequest body handlers.UpdatePasswordRequest true "New password"
// @Success 200 {object} handlers.SignupResponse "Password updated"
// @Failure 400 {object} handlers.ErrorResponse "Invalid password"
// @Security BearerAuth
// @Router /me/password [put]
func NewUpdatePasswordHandler(svc PasswordUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middlewares.ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req UpdatePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := svc.UpdatePassword(r.Context(), claims.Username, req.Password); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, SignupResponse{Message: "Password updated", Username: claims.Username})
	}
}
