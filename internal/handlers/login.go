package handlers

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
)

// Authenticator defines the interface that the service must implement.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password, remoteAddr string) (string, error)
}

// LoginRequest represents the JSON body for user login.
// swagger:model LoginRequest
type LoginRequest struct {
	// Username
	// required: true
	// default: john_doe
	Username string `json:"username"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password"`
}

// LoginResponse represents a successful login response.
// swagger:model LoginResponse
type LoginResponse struct {
	// JWT token
	// default: JWT_TOKEN
	Token string `json:"token"`
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary Log in
// @Description Verifies credentials and returns a JWT. Unapproved accounts are refused with 403 even when the password is correct.
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login request"
// @Success 200 {object} handlers.LoginResponse "Token issued"
// @Failure 401 {object} handlers.ErrorResponse "Invalid username or password"
// @Failure 403 {object} handlers.ErrorResponse "Account approval required"
// @Router /login [post]
func NewLoginHandler(svc Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		token, err := svc.Authenticate(r.Context(), req.Username, req.Password, host)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{Token: token})
	}
}
