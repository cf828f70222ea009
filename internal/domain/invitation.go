package domain

import (
	"context"
	"time"
)

// InvitationStatus is the lifecycle status of an invitation.
type InvitationStatus string

const (
	StatusDraft   InvitationStatus = "draft"
	StatusActive  InvitationStatus = "active"
	StatusExpired InvitationStatus = "expired"
)

// Valid reports whether s is a known invitation status.
func (s InvitationStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusExpired:
		return true
	}
	return false
}

// Invitation is an event invitation owned by exactly one user. Template and
// theme references are nullable: deleting a catalog row sets them to null.
// swagger:model Invitation
type Invitation struct {
	ID            string           `json:"id"`
	UserID        string           `json:"-"`
	TemplateID    *string          `json:"template_id"`
	ThemeID       *string          `json:"theme_id"`
	Title         string           `json:"title"`
	Subtitle      string           `json:"subtitle"`
	CelebrantName string           `json:"celebrant_name"`
	EventDate     time.Time        `json:"event_date"`
	EventTime     *string          `json:"event_time"`
	VenueName     string           `json:"venue_name"`
	VenueAddress  string           `json:"venue_address"`
	MaxGuests     int              `json:"max_guests"`
	Status        InvitationStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	ExpiresAt     *time.Time       `json:"expires_at"`
}

// IsExpired reports whether the invitation is past its expiry at the given
// instant. Always recomputed from the caller's clock, never cached.
func (i *Invitation) IsExpired(now time.Time) bool {
	if i.ExpiresAt == nil {
		return false
	}
	return now.After(*i.ExpiresAt)
}

// DefaultExpiry returns the last instant of the invitation's event date, the
// expiry applied at creation when none is given.
func (i *Invitation) DefaultExpiry() time.Time {
	return EndOfDay(i.EventDate)
}

// EndOfDay returns the last nanosecond of d's calendar day in d's location.
func EndOfDay(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 23, 59, 59, int(time.Second-time.Nanosecond), d.Location())
}

// GuestCounts is the derived RSVP partition of an invitation's guests.
// Attending + Pending + NotAttending always equals Total.
// swagger:model GuestCounts
type GuestCounts struct {
	Total        int `json:"guest_count"`
	Attending    int `json:"attending_count"`
	Pending      int `json:"pending_count"`
	NotAttending int `json:"not_attending_count"`
}

// InvitationSummary is one row of the owner's invitation list: the invitation
// with its template display fields and derived counts.
type InvitationSummary struct {
	Invitation       *Invitation
	TemplateName     *string
	TemplateCategory *string
	Counts           GuestCounts
}

// InvitationDetail is the full owner-facing view of one invitation.
type InvitationDetail struct {
	Invitation *Invitation
	Template   *Template
	Theme      *Theme
	Guests     []*Guest
	Counts     GuestCounts
}

// PublicInvitation is the share-link view of an invitation. It carries no
// guest list and no owner identity.
type PublicInvitation struct {
	Invitation *Invitation
	Template   *Template
	Theme      *Theme
}

// InvitationAnalytics aggregates engagement numbers for one invitation.
// swagger:model InvitationAnalytics
type InvitationAnalytics struct {
	GuestCount          int `json:"guest_count"`
	AttendingCount      int `json:"attending_count"`
	PendingCount        int `json:"pending_count"`
	NotAttendingCount   int `json:"not_attending_count"`
	ShareLinkViews      int `json:"share_link_views"`
	InvitationSentCount int `json:"invitation_sent_count"`
}

// DashboardStats aggregates counts across all of a user's invitations.
// swagger:model DashboardStats
type DashboardStats struct {
	TotalInvitations      int            `json:"total_invitations"`
	ActiveInvitations     int            `json:"active_invitations"`
	TotalGuests           int            `json:"total_guests"`
	TotalAttending        int            `json:"total_attending"`
	TotalPending          int            `json:"total_pending"`
	TotalNotAttending     int            `json:"total_not_attending"`
	InvitationsByTemplate map[string]int `json:"invitations_by_template"`
}

// InvitationUpdate is a partial update: nil fields are left unchanged.
// A non-nil empty ThemeID clears the theme.
type InvitationUpdate struct {
	Title         *string
	Subtitle      *string
	CelebrantName *string
	ThemeID       *string
	EventDate     *time.Time
	EventTime     *string
	VenueName     *string
	VenueAddress  *string
	MaxGuests     *int
	Status        *InvitationStatus
}

// InvitationRepository defines the interface for invitation storage.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id string) (*Invitation, error)
	ListByUser(ctx context.Context, userID string) ([]*InvitationSummary, error)
	Update(ctx context.Context, inv *Invitation) error
	// Delete removes the invitation; guests and share links go with it via
	// the schema's ON DELETE CASCADE.
	Delete(ctx context.Context, id string) error
	CountByUser(ctx context.Context, userID string) (int, error)
	CountByUserAndStatus(ctx context.Context, userID string, status InvitationStatus) (int, error)
	CountByTemplateCategory(ctx context.Context, userID string) (map[string]int, error)
}

// InvitationService defines the invitation lifecycle plus its derived reads.
type InvitationService interface {
	Create(ctx context.Context, userID string, inv *Invitation) error
	List(ctx context.Context, userID string) ([]*InvitationSummary, error)
	Get(ctx context.Context, userID, id string) (*InvitationDetail, error)
	Update(ctx context.Context, userID, id string, patch *InvitationUpdate) (*Invitation, error)
	Delete(ctx context.Context, userID, id string) error
	Clone(ctx context.Context, userID, id string) (*Invitation, error)
	GetShareLink(ctx context.Context, userID, id string) (*ShareLink, error)
	CreateShareLink(ctx context.Context, userID, id string) (*ShareLink, error)
	Analytics(ctx context.Context, userID, id string) (*InvitationAnalytics, error)
	// PublicByToken resolves a share-link token to the public view,
	// incrementing the link's view count. Unknown token: ErrNotFound;
	// inactive or expired: ErrShareLinkGone.
	PublicByToken(ctx context.Context, token string) (*PublicInvitation, error)
	DashboardStats(ctx context.Context, userID string) (*DashboardStats, error)
}
