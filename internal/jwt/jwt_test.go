package jwt

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParse(t *testing.T) {
	j := New("secret", time.Minute)
	ctx := context.Background()

	token, err := j.Generate(ctx, "alice", "admin")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := j.Parse(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestParse_WrongSecret(t *testing.T) {
	ctx := context.Background()

	token, err := New("secret", time.Minute).Generate(ctx, "alice", "user")
	assert.NoError(t, err)

	_, err = New("other-secret", time.Minute).Parse(ctx, token)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	j := New("secret", -time.Minute)
	ctx := context.Background()

	token, err := j.Generate(ctx, "alice", "user")
	assert.NoError(t, err)

	_, err = j.Parse(ctx, token)
	assert.Error(t, err)
}

func TestGetTokenFromRequest(t *testing.T) {
	j := New("secret", time.Minute)
	ctx := context.Background()

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid bearer", "Bearer token123", "token123", false},
		{"lowercase scheme", "bearer token123", "token123", false},
		{"missing header", "", "", true},
		{"wrong scheme", "Basic token123", "", true},
		{"missing token", "Bearer", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			got, err := j.GetTokenFromRequest(ctx, r)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
