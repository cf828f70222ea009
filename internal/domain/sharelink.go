package domain

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

const shareTokenBytes = 32

// ShareLink grants unauthenticated, time-limited, revocable read/RSVP access
// to one invitation.
// swagger:model ShareLink
type ShareLink struct {
	ID           string    `json:"id"`
	InvitationID string    `json:"-"`
	Token        string    `json:"token"`
	IsActive     bool      `json:"is_active"`
	ViewCount    int       `json:"view_count"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// IsExpired reports whether the link is past its expiry at the given instant.
func (l *ShareLink) IsExpired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// IsValid reports whether the link may serve public reads: active and not expired.
func (l *ShareLink) IsValid(now time.Time) bool {
	return l.IsActive && !l.IsExpired(now)
}

// NewShareToken returns a URL-safe token with 32 bytes of entropy.
// Uniqueness is enforced by the storage constraint, not here.
func NewShareToken() (string, error) {
	b := make([]byte, shareTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ShareLinkRepository defines the interface for share link storage.
type ShareLinkRepository interface {
	Create(ctx context.Context, l *ShareLink) error
	GetByToken(ctx context.Context, token string) (*ShareLink, error)
	// FirstActiveByInvitation returns an active, non-expired link for the
	// invitation, or ErrNotFound. Order among multiple live links is unspecified.
	FirstActiveByInvitation(ctx context.Context, invitationID string, now time.Time) (*ShareLink, error)
	// IncrementViewCount adds exactly 1 to view_count as an atomic SQL
	// increment, never read-modify-write.
	IncrementViewCount(ctx context.Context, id string) error
	SumViewsByInvitation(ctx context.Context, invitationID string) (int, error)
}
