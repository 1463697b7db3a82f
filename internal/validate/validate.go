package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ValidationError names the field that failed validation. Handlers map it
// to a 4xx response; it is never persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	referralRe = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)
	scriptRe   = regexp.MustCompile(`(?is)<\s*script.*?>.*?<\s*/\s*script\s*>`)
	controlRe  = regexp.MustCompile(`[\x00-\x1F\x7F]`)
)

// Sanitize trims whitespace and removes embedded script tags. Applied to
// every free-text field before it is persisted.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	return scriptRe.ReplaceAllString(s, "")
}

// SanitizeList sanitizes each element and drops entries that end up empty.
func SanitizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = Sanitize(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NormalizeTags sanitizes, lower-cases and trims tags and drops empty
// ones. Duplicates are deliberately not collapsed: the stored data has
// always allowed repeated tags and collapsing them here would silently
// change scan results for existing filters.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(Sanitize(tag))
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// NormalizeLanguage lower-cases and trims a language name or code.
func NormalizeLanguage(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

// Username requires 3-20 characters of letters, digits or underscore.
func Username(v string) error {
	if !usernameRe.MatchString(v) {
		return errors.New("must be 3-20 letters, digits or underscores")
	}
	return nil
}

// Email requires a minimal local@domain.tld shape.
func Email(v string) error {
	if !emailRe.MatchString(v) {
		return errors.New("must be a valid email address")
	}
	return nil
}

// Password requires at least 8 characters.
func Password(v string) error {
	if len(v) < 8 {
		return errors.New("must be at least 8 characters")
	}
	return nil
}

// ReferralCode requires exactly 6 alphanumeric characters.
func ReferralCode(v string) error {
	if !referralRe.MatchString(v) {
		return errors.New("must be exactly 6 alphanumeric characters")
	}
	return nil
}

// Required rejects empty or whitespace-only values.
func Required(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("is required")
	}
	return nil
}

// LooseText rejects overlong input, script tags and control characters.
func LooseText(maxLen int) func(string) error {
	return func(v string) error {
		if len(v) > maxLen {
			return fmt.Errorf("must be at most %d characters", maxLen)
		}
		if scriptRe.MatchString(v) || controlRe.MatchString(v) {
			return errors.New("contains disallowed markup or control characters")
		}
		return nil
	}
}

// Field runs the checks for one named field in order and wraps the first
// failure in a ValidationError.
func Field(name, value string, checks ...func(string) error) error {
	for _, check := range checks {
		if err := check(value); err != nil {
			return &ValidationError{Field: name, Reason: err.Error()}
		}
	}
	return nil
}

// Fields runs field validations in order and returns the first failure.
// The pipeline is explicit and pure: no validation happens implicitly
// during entity construction.
func Fields(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
