package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chrisvdg/trivia-backend/internal/logger"
	"github.com/chrisvdg/trivia-backend/internal/services"
	"github.com/chrisvdg/trivia-backend/internal/storage"
	"github.com/chrisvdg/trivia-backend/internal/validate"
)

// ErrorResponse is the uniform error body.
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeServiceError maps service errors onto HTTP statuses: validation to
// 400, not-found to 404, conflicts to 409, approval gating to 403,
// credential failures to 401, anything else to 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *validate.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, services.ErrUnknownAction):
		writeError(w, http.StatusBadRequest, "Unknown action")
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrUserExists):
		writeError(w, http.StatusConflict, "Username or email already exists")
	case errors.Is(err, services.ErrApprovalRequired):
		writeError(w, http.StatusForbidden, "Account approval required")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, services.ErrNoUnseenQuestions):
		writeError(w, http.StatusNotFound, "No more unseen questions available")
	default:
		logger.Log.Errorw("internal server error", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
