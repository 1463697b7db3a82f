package models

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered user record, keyed by username.
// Unapproved users cannot authenticate regardless of credentials.
type User struct {
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	IsVerified   bool      `json:"is_verified"`
	IsApproved   bool      `json:"is_approved"`
	SignedUpAt   time.Time `json:"signed_up_at"`
	LastLoginAt  time.Time `json:"last_login_at,omitempty"`
	LastLoginIP  string    `json:"last_login_ip,omitempty"`
	ReferralCode string    `json:"referral_code,omitempty"`
	ApprovedAt   time.Time `json:"approved_at,omitempty"`
	ApprovedBy   string    `json:"approved_by,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
