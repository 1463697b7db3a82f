package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"too short", "ab", true},
		{"valid with underscore", "user_1", false},
		{"minimum length", "abc", false},
		{"maximum length", "a1234567890123456789", false},
		{"too long", "a12345678901234567890", true},
		{"invalid characters", "user-1", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Username(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReferralCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{"five characters", "ABCDE", true},
		{"six characters", "ABC123", false},
		{"seven characters", "ABC1234", true},
		{"non-alphanumeric", "ABC12!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ReferralCode(tt.code)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("bob@example.com"))
	assert.Error(t, Email("bob@example"))
	assert.Error(t, Email("bobexample.com"))
	assert.Error(t, Email("@example.com"))
}

func TestPassword(t *testing.T) {
	assert.Error(t, Password("short"))
	assert.Error(t, Password("1234567"))
	assert.NoError(t, Password("12345678"))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims whitespace", "  hello  ", "hello"},
		{"removes script tag", "What is <script>alert(1)</script>gold?", "What is gold?"},
		{"removes script tag case insensitive", "<SCRIPT src=x>bad</SCRIPT>answer", "answer"},
		{"removes multiline script", "a<script>\nline1\nline2\n</script>b", "ab"},
		{"keeps plain markup", "What is <b>bold</b>?", "What is <b>bold</b>?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitizeList(t *testing.T) {
	got := SanitizeList([]string{" one ", "", "  ", "<script>x</script>", "two"})
	assert.Equal(t, []string{"one", "two"}, got)
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" History ", "SCIENCE", "", "  ", "<script>x</script>Art"})
	assert.Equal(t, []string{"history", "science", "art"}, got)
}

func TestNormalizeTags_KeepsDuplicates(t *testing.T) {
	// Duplicate tags are case-normalized but not collapsed.
	got := NormalizeTags([]string{"History", "history", " HISTORY "})
	assert.Equal(t, []string{"history", "history", "history"}, got)
}

func TestField_WrapsValidationError(t *testing.T) {
	err := Field("username", "ab", Required, Username)
	assert.Error(t, err)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Field)
}

func TestFields_ReturnsFirstFailure(t *testing.T) {
	err := Fields(
		Field("username", "user_1", Username),
		Field("email", "not-an-email", Email),
		Field("password", "short", Password),
	)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
}

func TestLooseText(t *testing.T) {
	check := LooseText(20)
	assert.NoError(t, check("plain question text"))
	assert.Error(t, check("this is definitely longer than twenty characters"))
	assert.Error(t, check("<script>x</script>"))
	assert.Error(t, check("bad\x00byte"))
}
