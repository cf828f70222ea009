package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvitation_IsExpired(t *testing.T) {
	expiry := time.Date(2026, 6, 15, 23, 59, 59, 0, time.UTC)

	t.Run("nil expiry never expires", func(t *testing.T) {
		inv := &Invitation{}
		assert.False(t, inv.IsExpired(time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("before expiry", func(t *testing.T) {
		inv := &Invitation{ExpiresAt: &expiry}
		assert.False(t, inv.IsExpired(expiry.Add(-time.Hour)))
	})

	t.Run("exactly at expiry is not expired", func(t *testing.T) {
		inv := &Invitation{ExpiresAt: &expiry}
		assert.False(t, inv.IsExpired(expiry))
	})

	t.Run("after expiry", func(t *testing.T) {
		inv := &Invitation{ExpiresAt: &expiry}
		assert.True(t, inv.IsExpired(expiry.Add(time.Nanosecond)))
	})
}

func TestEndOfDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   time.Time
	}{
		{"utc morning", time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)},
		{"utc midnight", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"local evening", time.Date(2026, 3, 10, 22, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EndOfDay(tt.in)
			y, m, d := tt.in.Date()
			assert.Equal(t, y, got.Year())
			assert.Equal(t, m, got.Month())
			assert.Equal(t, d, got.Day())
			assert.Equal(t, 23, got.Hour())
			assert.Equal(t, 59, got.Minute())
			assert.Equal(t, 59, got.Second())
			assert.Equal(t, tt.in.Location(), got.Location())
			assert.True(t, got.Add(time.Nanosecond).Day() != d || got.Add(time.Nanosecond).Month() != m,
				"one nanosecond later must be the next day")
		})
	}
}

func TestInvitation_DefaultExpiry(t *testing.T) {
	inv := &Invitation{EventDate: time.Date(2026, 6, 15, 14, 0, 0, 0, time.UTC)}
	got := inv.DefaultExpiry()
	assert.Equal(t, EndOfDay(inv.EventDate), got)
	assert.True(t, got.After(inv.EventDate))
}

func TestInvitationStatus_Valid(t *testing.T) {
	assert.True(t, StatusDraft.Valid())
	assert.True(t, StatusActive.Valid())
	assert.True(t, StatusExpired.Valid())
	assert.False(t, InvitationStatus("archived").Valid())
}
