package services

import "errors"

// Error variables shared by the services. Handlers map these onto HTTP
// status codes; the services themselves never retry.
var (
	// ErrUserExists signals a duplicate username or email at signup.
	ErrUserExists = errors.New("username or email already exists")

	// ErrInvalidCredentials signals a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrApprovalRequired signals a correct password on an account that
	// has not been approved yet. Kept distinct from ErrInvalidCredentials
	// so callers can message the user accurately.
	ErrApprovalRequired = errors.New("account approval required")

	// ErrUnknownAction signals an unrecognized state-transition action.
	ErrUnknownAction = errors.New("unknown action")

	// ErrNoUnseenQuestions signals an empty qualifying set for sampling.
	ErrNoUnseenQuestions = errors.New("no unseen question matches")
)
