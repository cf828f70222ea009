package domain

import (
	"context"
	"time"
)

// User represents a registered user
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	LastName     string    `json:"last_name"`
	Tier         Tier      `json:"tier"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new free-tier User with the given fields.
// ID is set by the repository on create.
func NewUser(email, name, lastName string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:     email,
		Name:      name,
		LastName:  lastName,
		Tier:      TierFree,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// TokenPair carries an access token and its paired refresh token.
// swagger:model TokenPair
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TierStatus is the quota view of a user, derived from the tier policy and
// the current invitation count. Nil limits mean unlimited.
// swagger:model TierStatus
type TierStatus struct {
	Tier                   Tier `json:"tier"`
	InvitationCount        int  `json:"invitation_count"`
	CanCreateInvitation    bool `json:"can_create_invitation"`
	MaxGuestsPerInvitation *int `json:"max_guests_per_invitation"`
	InvitationsRemaining   *int `json:"invitations_remaining"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues signed tokens for an authenticated user.
type TokenIssuer interface {
	IssueAccess(userID, email string, tier Tier, expiry time.Duration) (string, error)
	IssueRefresh(userID string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies tokens and returns the authenticated user ID.
// Access and refresh tokens are distinct types; verifying one as the other fails.
type TokenVerifier interface {
	VerifyAccess(token string) (userID string, err error)
	VerifyRefresh(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID, passwordHash, salt string) error
}

// RefreshTokenRepository stores hashed refresh tokens so they can be rotated
// on refresh and revoked on logout.
type RefreshTokenRepository interface {
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	// Consume atomically removes a live token and returns its user ID.
	// Returns ErrInvalidToken when the token is unknown, expired, or revoked.
	Consume(ctx context.Context, tokenHash string) (userID string, err error)
	// Revoke marks a token revoked. Revoking an unknown token is not an error.
	Revoke(ctx context.Context, tokenHash string) error
}

// AuthService defines the authentication lifecycle: registration, login,
// refresh-token rotation, logout, and password change.
type AuthService interface {
	Register(ctx context.Context, email, password, name, lastName string) (*User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

// UserService defines profile and tier-status reads for the current user.
type UserService interface {
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
	TierStatus(ctx context.Context, userID string) (*TierStatus, error)
}
