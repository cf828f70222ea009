package domain

import "errors"

// Sentinel errors shared across services. Controllers map these to HTTP
// statuses with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// ErrInvitationQuota is returned when a user at their tier's invitation
	// cap attempts to create (or clone) another invitation.
	ErrInvitationQuota = errors.New("invitation limit reached for tier")

	// ErrGuestLimitReached is returned when an invitation's guest cap is met.
	ErrGuestLimitReached = errors.New("maximum guest limit reached for this invitation")

	ErrDuplicateGuest = errors.New("a guest with this email already exists for this invitation")

	// ErrInvalidGuest wraps guest validation failures so controllers can
	// answer with 400 instead of treating them as internal errors.
	ErrInvalidGuest = errors.New("invalid guest data")

	// ErrShareLinkGone marks a recognized but inactive or expired share link,
	// distinct from ErrNotFound for unknown tokens.
	ErrShareLinkGone = errors.New("share link is no longer valid")

	ErrTemplateNotFound = errors.New("template not found")
	ErrThemeNotFound    = errors.New("theme not found")
)
