package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/chrisvdg/trivia-backend/internal/logger"
	"github.com/chrisvdg/trivia-backend/internal/models"
	"github.com/chrisvdg/trivia-backend/internal/storage"
	"github.com/chrisvdg/trivia-backend/internal/validate"
)

// UserStore defines the repository operations the service needs.
type UserStore interface {
	Get(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filters map[string]any) ([]models.User, error)
	Create(ctx context.Context, u *models.User) error
	PartialUpdate(ctx context.Context, username string, fields map[string]any) (*models.User, error)
	Delete(ctx context.Context, username string) (bool, error)
}

// TokenIssuer issues an auth token for a verified user.
type TokenIssuer interface {
	Generate(ctx context.Context, username, role string) (string, error)
}

// UserService owns the account lifecycle: signup with referral gating,
// admin approval actions, and fail-closed authentication.
type UserService struct {
	users        UserStore
	tokens       TokenIssuer
	referralCode string
}

// NewUserService creates a UserService. referralCode is the configured
// value every signup code is checked against.
func NewUserService(users UserStore, tokens TokenIssuer, referralCode string) *UserService {
	return &UserService{
		users:        users,
		tokens:       tokens,
		referralCode: referralCode,
	}
}

// SignupInput carries the raw fields for a new account.
type SignupInput struct {
	Username     string
	Email        string
	Password     string
	ReferralCode string
}

// Signup validates the input and creates an unapproved account.
//
// The uniqueness check is read-then-write, not compare-and-swap: two
// concurrent signups for the same username can both pass the existence
// check and race to create the record. This is a known race inherited
// from the original store; the Postgres backend's primary key narrows it
// to a conflict, the Redis backend keeps last-write-wins.
func (svc *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := validate.Fields(
		validate.Field("username", in.Username, validate.Required, validate.Username),
		validate.Field("email", in.Email, validate.Required, validate.Email),
		validate.Field("password", in.Password, validate.Password),
		validate.Field("referral_code", in.ReferralCode, validate.Required, validate.ReferralCode),
	); err != nil {
		return nil, err
	}

	if in.ReferralCode != svc.referralCode {
		return nil, &validate.ValidationError{Field: "referral_code", Reason: "unknown referral code"}
	}

	if _, err := svc.users.Get(ctx, in.Username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Log.Errorw("failed to check username", "err", err)
		return nil, err
	}

	if _, err := svc.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Log.Errorw("failed to check email", "err", err)
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	u := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		IsApproved:   false,
		SignedUpAt:   time.Now().UTC(),
		ReferralCode: in.ReferralCode,
	}

	if err := svc.users.Create(ctx, u); err != nil {
		logger.Log.Errorw("failed to create user", "err", err)
		return nil, err
	}

	logger.Log.Infow("user signed up", "username", u.Username)
	return u, nil
}

// Authenticate verifies credentials and issues a token. An unapproved
// account fails closed with ErrApprovalRequired even when the password is
// correct, so the caller can message the user accurately.
func (svc *UserService) Authenticate(ctx context.Context, username, password, remoteAddr string) (string, error) {
	u, err := svc.users.Get(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		logger.Log.Infow("invalid credentials", "username", username)
		return "", ErrInvalidCredentials
	}

	if !u.IsApproved {
		logger.Log.Infow("login blocked, approval pending", "username", username)
		return "", ErrApprovalRequired
	}

	if _, err := svc.users.PartialUpdate(ctx, username, map[string]any{
		"last_login_at": time.Now().UTC(),
		"last_login_ip": remoteAddr,
	}); err != nil {
		logger.Log.Errorw("failed to record login", "err", err)
		return "", err
	}

	token, err := svc.tokens.Generate(ctx, u.Username, u.Role)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return "", err
	}
	return token, nil
}

// Admin action names accepted by Apply.
const (
	ActionApprove   = "approve"
	ActionReject    = "reject"
	ActionMakeAdmin = "make_admin"
	ActionDelete    = "delete"
)

// Apply runs an admin action against a user account. Unknown action names
// fail with ErrUnknownAction and no side effects. Delete returns a nil
// user on success.
func (svc *UserService) Apply(ctx context.Context, username, action, actingAdmin string) (*models.User, error) {
	switch action {
	case ActionApprove, ActionReject:
		u, err := svc.users.PartialUpdate(ctx, username, map[string]any{
			"is_approved": action == ActionApprove,
			"approved_at": time.Now().UTC(),
			"approved_by": actingAdmin,
		})
		if err != nil {
			return nil, err
		}
		logger.Log.Infow("user approval changed",
			"username", username,
			"action", action,
			"admin", actingAdmin,
		)
		return u, nil

	case ActionMakeAdmin:
		// Role is an independent axis from approval.
		u, err := svc.users.PartialUpdate(ctx, username, map[string]any{
			"role": models.RoleAdmin,
		})
		if err != nil {
			return nil, err
		}
		logger.Log.Infow("user promoted to admin", "username", username, "admin", actingAdmin)
		return u, nil

	case ActionDelete:
		deleted, err := svc.users.Delete(ctx, username)
		if err != nil {
			return nil, err
		}
		if !deleted {
			return nil, storage.ErrNotFound
		}
		logger.Log.Infow("user deleted", "username", username, "admin", actingAdmin)
		return nil, nil

	default:
		return nil, ErrUnknownAction
	}
}

// UpdatePassword is the only self-service profile mutation.
func (svc *UserService) UpdatePassword(ctx context.Context, username, newPassword string) error {
	if err := validate.Field("password", newPassword, validate.Password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = svc.users.PartialUpdate(ctx, username, map[string]any{
		"password_hash": string(hash),
	})
	return err
}

// Get fetches a user by username.
func (svc *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	return svc.users.Get(ctx, username)
}

// List fetches users matching the given filters.
func (svc *UserService) List(ctx context.Context, filters map[string]any) ([]models.User, error) {
	return svc.users.List(ctx, filters)
}
