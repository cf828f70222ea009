package domain

import (
	"context"
	"time"
)

// RSVPStatus is a guest's response state. Pending is the initial state;
// transitions are unrestricted, including back to pending.
type RSVPStatus string

const (
	RSVPPending      RSVPStatus = "pending"
	RSVPAttending    RSVPStatus = "attending"
	RSVPNotAttending RSVPStatus = "not_attending"
)

// Valid reports whether s is a known RSVP status.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPPending, RSVPAttending, RSVPNotAttending:
		return true
	}
	return false
}

// Guest belongs to exactly one invitation, unique per (invitation, email).
// swagger:model Guest
type Guest struct {
	ID               string     `json:"id"`
	InvitationID     string     `json:"-"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	RSVPStatus       RSVPStatus `json:"rsvp_status"`
	RSVPDate         *time.Time `json:"rsvp_date"`
	PlusOne          bool       `json:"plus_one"`
	PlusOneCount     int        `json:"plus_one_count"`
	Notes            string     `json:"notes"`
	InvitationSent   bool       `json:"invitation_sent"`
	InvitationSentAt *time.Time `json:"invitation_sent_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// GuestUpdate is a partial update: nil fields are left unchanged.
// Setting RSVPStatus also resets the guest's rsvp_date.
type GuestUpdate struct {
	Name         *string
	Email        *string
	Phone        *string
	RSVPStatus   *RSVPStatus
	PlusOne      *bool
	PlusOneCount *int
	Notes        *string
}

// RSVPSubmission is a public RSVP via share link, upserted by (invitation, email).
type RSVPSubmission struct {
	Name         string
	Email        string
	Status       RSVPStatus
	PlusOne      bool
	PlusOneCount int
	Notes        string
}

// BulkGuestError is one itemized failure from bulk guest creation.
// swagger:model BulkGuestError
type BulkGuestError struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// GuestRepository defines the interface for guest storage.
type GuestRepository interface {
	// Create inserts the guest. A (invitation_id, email) unique violation is
	// mapped to ErrDuplicateGuest.
	Create(ctx context.Context, g *Guest) error
	GetByID(ctx context.Context, id string) (*Guest, error)
	ListByInvitation(ctx context.Context, invitationID string) ([]*Guest, error)
	Update(ctx context.Context, g *Guest) error
	Delete(ctx context.Context, id string) error
	// Upsert inserts the guest or, on a (invitation_id, email) conflict,
	// overwrites the mutable fields in the same statement.
	Upsert(ctx context.Context, g *Guest) error
	CountByInvitation(ctx context.Context, invitationID string) (int, error)
	CountsByInvitation(ctx context.Context, invitationID string) (GuestCounts, error)
	CountSentByInvitation(ctx context.Context, invitationID string) (int, error)
	CountsByUser(ctx context.Context, userID string) (GuestCounts, error)
	MarkInvitationSent(ctx context.Context, id string, at time.Time) error
}

// GuestService defines guest management for invitation owners plus the
// public RSVP path.
type GuestService interface {
	List(ctx context.Context, userID, invitationID string) ([]*Guest, error)
	Create(ctx context.Context, userID, invitationID string, g *Guest) error
	// BulkCreate processes each guest independently and returns the created
	// guests plus itemized errors. One guest's failure never aborts the rest.
	BulkCreate(ctx context.Context, userID, invitationID string, guests []*Guest) ([]*Guest, []BulkGuestError, error)
	Get(ctx context.Context, userID, invitationID, guestID string) (*Guest, error)
	Update(ctx context.Context, userID, invitationID, guestID string, patch *GuestUpdate) (*Guest, error)
	Delete(ctx context.Context, userID, invitationID, guestID string) error
	// SendInvite emails the guest an RSVP link, creating an active share link
	// first if none exists. The invitation_sent flag is set only after the
	// mail dispatch succeeds. Best effort, synchronous, no retries.
	SendInvite(ctx context.Context, userID, invitationID, guestID string) error
	// SubmitRSVP upserts a guest by (invitation, email) through a valid
	// share-link token. Unknown token: ErrNotFound; invalid: ErrShareLinkGone.
	SubmitRSVP(ctx context.Context, token string, sub *RSVPSubmission) (*Guest, error)
}
