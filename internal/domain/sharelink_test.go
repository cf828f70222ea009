package domain

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShareToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		token, err := NewShareToken()
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err, "token must be URL-safe base64")
		assert.Len(t, raw, shareTokenBytes)

		_, dup := seen[token]
		require.False(t, dup, "tokens must not repeat")
		seen[token] = struct{}{}
	}
}

func TestShareLink_IsValid(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		link ShareLink
		want bool
	}{
		{"active and unexpired", ShareLink{IsActive: true, ExpiresAt: now.Add(time.Hour)}, true},
		{"inactive", ShareLink{IsActive: false, ExpiresAt: now.Add(time.Hour)}, false},
		{"expired", ShareLink{IsActive: true, ExpiresAt: now.Add(-time.Hour)}, false},
		{"exactly at expiry still valid", ShareLink{IsActive: true, ExpiresAt: now}, true},
		{"inactive and expired", ShareLink{IsActive: false, ExpiresAt: now.Add(-time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.link.IsValid(now))
		})
	}
}
